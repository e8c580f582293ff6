package hostfetch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hackwatch/hackwatch/schema"
)

// gitlabListItem is one entry from the commit listing endpoint.
type gitlabListItem struct {
	ID string `json:"id"`
}

// gitlabCommitDetail is the per-commit detail payload.
type gitlabCommitDetail struct {
	ID            string   `json:"id"`
	AuthorName    string   `json:"author_name"`
	AuthorEmail   string   `json:"author_email"`
	CommittedDate string   `json:"committed_date"`
	Message       string   `json:"message"`
	ParentIDs     []string `json:"parent_ids"`
	Stats         struct {
		Additions int `json:"additions"`
		Deletions int `json:"deletions"`
	} `json:"stats"`
}

// gitlabDiffEntry is one entry from the per-commit diff endpoint. GitLab
// does not expose per-path line counts here, only the touched paths.
type gitlabDiffEntry struct {
	NewPath string `json:"new_path"`
	OldPath string `json:"old_path"`
}

// gitlabBase returns the API base for the instance behind the parsed URL.
// Self-hosted instances keep their own host.
func (c *Client) gitlabBase(parsed ParsedRepoURL) string {
	if c.gitlabAPIBase != "" {
		return c.gitlabAPIBase
	}
	return "https://" + parsed.Host
}

func (c *Client) gitlabHeaders() map[string]string {
	headers := map[string]string{}
	if c.gitlabToken != "" {
		headers["PRIVATE-TOKEN"] = c.gitlabToken
	}
	return headers
}

// fetchGitLab walks the paginated commit listing of a GitLab project and
// fetches per-commit detail and diffs.
func (c *Client) fetchGitLab(ctx context.Context, parsed ParsedRepoURL, repoURL string) ([]schema.RawCommit, []string, error) {
	project := url.PathEscape(parsed.ProjectPath())
	listURL := fmt.Sprintf("%s/api/v4/projects/%s/repository/commits", c.gitlabBase(parsed), project)
	headers := c.gitlabHeaders()

	var commits []schema.RawCommit
	var warnings []string

	for page := 1; ; page++ {
		query := url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}
		var items []gitlabListItem
		status, err := c.getJSON(ctx, listURL, headers, query, &items)
		if err != nil {
			return nil, warnings, fmt.Errorf("GitLab request failed for %s: %w", repoURL, err)
		}
		if warning, accessErr := accessError("GitLab", status, repoURL, c.gitlabToken); accessErr != nil {
			return nil, warnings, accessErr
		} else if warning != "" {
			return nil, append(warnings, warning), nil
		}

		if len(items) == 0 {
			break
		}

		for _, item := range items {
			if item.ID == "" {
				continue
			}
			commit, warning := c.gitlabCommitDetail(ctx, parsed, project, item.ID, repoURL)
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

func (c *Client) gitlabCommitDetail(ctx context.Context, parsed ParsedRepoURL, project, sha, repoURL string) (schema.RawCommit, string) {
	base := c.gitlabBase(parsed)
	headers := c.gitlabHeaders()

	detailURL := fmt.Sprintf("%s/api/v4/projects/%s/repository/commits/%s", base, project, sha)
	var detail gitlabCommitDetail
	status, err := c.getJSON(ctx, detailURL, headers, nil, &detail)
	if err != nil || status >= 400 {
		return schema.RawCommit{}, fmt.Sprintf("failed to fetch commit details for %s in %s", sha, repoURL)
	}

	// Diff failures leave the path list empty rather than failing the commit.
	diffURL := detailURL + "/diff"
	var entries []gitlabDiffEntry
	diff := schema.DiffStat{}
	if status, err := c.getJSON(ctx, diffURL, headers, nil, &entries); err == nil && status < 400 {
		for _, entry := range entries {
			path := entry.NewPath
			if path == "" {
				path = entry.OldPath
			}
			if path != "" {
				diff[path] = schema.LineDelta{}
			}
		}
	}

	return schema.RawCommit{
		ID:           sha,
		AuthoredAt:   detail.CommittedDate,
		AuthorName:   fallback(detail.AuthorName, "unknown"),
		AuthorEmail:  fallback(detail.AuthorEmail, "unknown"),
		ParentIDs:    detail.ParentIDs,
		LinesAdded:   detail.Stats.Additions,
		LinesRemoved: detail.Stats.Deletions,
		FilesChanged: len(diff),
		Message:      detail.Message,
		Diff:         diff,
	}, ""
}
