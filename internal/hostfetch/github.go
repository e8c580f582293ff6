package hostfetch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hackwatch/hackwatch/schema"
)

// githubListItem is one entry from the commit listing endpoint.
type githubListItem struct {
	SHA string `json:"sha"`
}

// githubCommitDetail is the per-commit detail payload.
type githubCommitDetail struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Date  string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Parents []struct {
		SHA string `json:"sha"`
	} `json:"parents"`
	Stats struct {
		Additions int `json:"additions"`
		Deletions int `json:"deletions"`
	} `json:"stats"`
	Files []struct {
		Filename  string `json:"filename"`
		Additions int    `json:"additions"`
		Deletions int    `json:"deletions"`
	} `json:"files"`
}

func (c *Client) githubBase() string {
	if c.githubAPIBase != "" {
		return c.githubAPIBase
	}
	return "https://api.github.com"
}

func (c *Client) githubHeaders() map[string]string {
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if c.githubToken != "" {
		headers["Authorization"] = "Bearer " + c.githubToken
	}
	return headers
}

// fetchGitHub walks the paginated commit listing and fetches per-commit
// detail for line stats and touched files.
func (c *Client) fetchGitHub(ctx context.Context, parsed ParsedRepoURL, repoURL string) ([]schema.RawCommit, []string, error) {
	listURL := fmt.Sprintf("%s/repos/%s/%s/commits", c.githubBase(), parsed.Owner, parsed.Repo)
	headers := c.githubHeaders()

	var commits []schema.RawCommit
	var warnings []string

	for page := 1; ; page++ {
		query := url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}
		var items []githubListItem
		status, err := c.getJSON(ctx, listURL, headers, query, &items)
		if err != nil {
			return nil, warnings, fmt.Errorf("GitHub request failed for %s: %w", repoURL, err)
		}
		if warning, accessErr := accessError("GitHub", status, repoURL, c.githubToken); accessErr != nil {
			return nil, warnings, accessErr
		} else if warning != "" {
			return nil, append(warnings, warning), nil
		}

		if len(items) == 0 {
			break
		}

		for _, item := range items {
			if item.SHA == "" {
				continue
			}
			commit, warning := c.githubCommitDetail(ctx, parsed, item.SHA, repoURL)
			if warning != "" {
				warnings = append(warnings, warning)
				continue
			}
			commits = append(commits, commit)
		}

		if len(items) < perPage {
			break
		}
	}

	return commits, warnings, nil
}

// githubCommitDetail fetches one commit's detail. Failures degrade to a
// warning so one bad commit does not sink the whole repository.
func (c *Client) githubCommitDetail(ctx context.Context, parsed ParsedRepoURL, sha, repoURL string) (schema.RawCommit, string) {
	detailURL := fmt.Sprintf("%s/repos/%s/%s/commits/%s", c.githubBase(), parsed.Owner, parsed.Repo, sha)

	var detail githubCommitDetail
	status, err := c.getJSON(ctx, detailURL, c.githubHeaders(), nil, &detail)
	if err != nil || status >= 400 {
		return schema.RawCommit{}, fmt.Sprintf("failed to fetch commit details for %s in %s", sha, repoURL)
	}

	diff := make(schema.DiffStat, len(detail.Files))
	for _, f := range detail.Files {
		if f.Filename == "" {
			continue
		}
		diff[f.Filename] = schema.LineDelta{Added: f.Additions, Removed: f.Deletions}
	}

	var parents []string
	for _, p := range detail.Parents {
		if p.SHA != "" {
			parents = append(parents, p.SHA)
		}
	}

	return schema.RawCommit{
		ID:           sha,
		AuthoredAt:   detail.Commit.Author.Date,
		AuthorName:   fallback(detail.Commit.Author.Name, "unknown"),
		AuthorEmail:  fallback(detail.Commit.Author.Email, "unknown"),
		ParentIDs:    parents,
		LinesAdded:   detail.Stats.Additions,
		LinesRemoved: detail.Stats.Deletions,
		FilesChanged: len(diff),
		Message:      detail.Commit.Message,
		Diff:         diff,
	}, ""
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
