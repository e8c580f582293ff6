// Package hostfetch retrieves commit histories from GitHub and GitLab
// repositories over their REST APIs.
package hostfetch

import (
	"fmt"
	"net/url"
	"strings"
)

// Provider identifies the hosting platform behind a repository URL.
type Provider string

// Supported providers.
const (
	GitHubProvider  Provider = "github"
	GitLabProvider  Provider = "gitlab"
	UnknownProvider Provider = "unknown"
)

// githubHosts are the hostnames treated as github.com.
var githubHosts = map[string]bool{
	"github.com":     true,
	"www.github.com": true,
}

// ParsedRepoURL is the decomposed form of a submission repository URL.
// GitHub URLs populate Owner/Repo; GitLab URLs populate Namespace/Repo
// where the namespace may contain subgroups.
type ParsedRepoURL struct {
	Provider  Provider
	Host      string
	Owner     string
	Repo      string
	Namespace string
}

// ProjectPath returns the GitLab project path (namespace/repo).
func (p ParsedRepoURL) ProjectPath() string {
	if p.Namespace == "" {
		return p.Repo
	}
	return p.Namespace + "/" + p.Repo
}

// ParseRepoURL classifies a repository URL by host and splits out the
// project coordinates. Hosts containing "gitlab" are treated as GitLab
// instances, including self-hosted ones.
func ParseRepoURL(repoURL string) (ParsedRepoURL, error) {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return ParsedRepoURL{Provider: UnknownProvider}, nil
	}

	host := strings.TrimSpace(strings.ToLower(parsed.Host))
	if host == "" {
		return ParsedRepoURL{Provider: UnknownProvider}, nil
	}

	var parts []string
	for _, p := range strings.Split(strings.Trim(parsed.Path, "/"), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}

	if githubHosts[host] {
		if len(parts) < 2 {
			return ParsedRepoURL{}, fmt.Errorf("invalid GitHub URL: %s", repoURL)
		}
		return ParsedRepoURL{
			Provider: GitHubProvider,
			Host:     host,
			Owner:    parts[0],
			Repo:     strings.TrimSuffix(parts[1], ".git"),
		}, nil
	}

	if strings.Contains(host, "gitlab") {
		if len(parts) < 2 {
			return ParsedRepoURL{}, fmt.Errorf("invalid GitLab URL: %s", repoURL)
		}
		return ParsedRepoURL{
			Provider:  GitLabProvider,
			Host:      host,
			Namespace: strings.Join(parts[:len(parts)-1], "/"),
			Repo:      strings.TrimSuffix(parts[len(parts)-1], ".git"),
		}, nil
	}

	return ParsedRepoURL{Provider: UnknownProvider, Host: host}, nil
}
