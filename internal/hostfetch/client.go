package hostfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/schema"
)

// perPage is the page size used for commit listing requests.
const perPage = 100

// requestTimeout bounds each individual API request.
const requestTimeout = 30 * time.Second

// Client fetches commit histories over the GitHub and GitLab REST APIs.
// It implements contract.HostClient.
type Client struct {
	httpClient *http.Client

	githubToken string
	gitlabToken string

	// API base overrides for tests. Empty means the real endpoints.
	githubAPIBase string
	gitlabAPIBase string
}

// Compile-time interface check.
var _ contract.HostClient = (*Client)(nil)

// NewClient builds a host client from the run configuration.
func NewClient(cfg *contract.Config) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		githubToken: cfg.GithubToken,
		gitlabToken: cfg.GitlabToken,
	}
}

// FetchCommits retrieves the full commit history for a repository URL.
// Non-fatal conditions (unsupported host, private repo without token,
// per-commit detail failures) come back as warnings; hard failures are
// errors.
func (c *Client) FetchCommits(ctx context.Context, repoURL string) ([]schema.RawCommit, []string, error) {
	parsed, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, nil, err
	}

	switch parsed.Provider {
	case GitHubProvider:
		return c.fetchGitHub(ctx, parsed, repoURL)
	case GitLabProvider:
		return c.fetchGitLab(ctx, parsed, repoURL)
	default:
		warning := fmt.Sprintf("unsupported host %q for %s; skipped", parsed.Host, repoURL)
		return nil, []string{warning}, nil
	}
}

// getJSON performs a GET request and decodes the JSON body into out.
// A non-nil statusErr handler maps unexpected status codes.
func (c *Client) getJSON(ctx context.Context, rawURL string, headers map[string]string, query url.Values, out any) (int, error) {
	if len(query) > 0 {
		rawURL = rawURL + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response from %s: %w", rawURL, err)
	}
	return resp.StatusCode, nil
}

// accessError maps authentication and availability status codes to the
// shared error taxonomy: denied-with-token is an error, private-without-token
// is a skip warning, 404 is an error.
func accessError(provider string, status int, repoURL, token string) (warning string, err error) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if token != "" {
			return "", fmt.Errorf("%s access denied for %s; token may lack scope", provider, repoURL)
		}
		return fmt.Sprintf("%s repo may be private: %s; missing token, skipped", provider, repoURL), nil
	case status == http.StatusNotFound:
		return "", fmt.Errorf("%s repo not found or unreachable: %s", provider, repoURL)
	case status >= 400:
		return "", fmt.Errorf("%s API error (%d) for %s", provider, status, repoURL)
	}
	return "", nil
}
