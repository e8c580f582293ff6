package pipeline

import (
	"strings"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/schema"
)

// matchWriteup pairs a submission with its platform writeup. A repository
// link match wins; otherwise the writeup title must match the team name.
// Returns nil when no writeup fits.
func matchWriteup(spec contract.RepoSpec, writeups []schema.Writeup) *schema.Writeup {
	repoKey := normalizeRepoURL(spec.RepoURL)
	teamKey := strings.ToLower(strings.TrimSpace(spec.Team))

	var titleMatch *schema.Writeup
	for i := range writeups {
		w := &writeups[i]
		for _, link := range w.Links {
			if normalizeRepoURL(link) == repoKey {
				return w
			}
		}
		if titleMatch == nil && strings.ToLower(strings.TrimSpace(w.Title)) == teamKey {
			titleMatch = w
		}
	}
	return titleMatch
}

// normalizeRepoURL folds case and strips the noise that makes equal repos
// compare unequal: scheme differences, trailing slashes and .git suffixes.
func normalizeRepoURL(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")
	return s
}
