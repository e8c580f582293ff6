package core

import (
	"fmt"
	"strings"

	"github.com/hackwatch/hackwatch/schema"
)

// extractWriteupMismatch checks the technologies the writeup claims against
// what the repository actually shows: file paths in diffs and commit message
// text. Claims with no trace in either are reported together as one signal.
func extractWriteupMismatch(in *analysisContext) extraction {
	var out extraction
	if in.writeup == nil {
		out.warnings = append(out.warnings, "skipped writeup-mismatch check: no submission writeup provided")
		return out
	}
	if len(in.writeup.TechStack) == 0 || len(in.timeline) == 0 {
		return out
	}

	corpus := buildRepoCorpus(in.timeline, in.hashes)

	var unsupported []string
	seen := make(map[string]bool)
	for _, claim := range in.writeup.TechStack {
		token := strings.ToLower(strings.TrimSpace(claim))
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		if !corpusMentions(corpus, token) {
			unsupported = append(unsupported, strings.TrimSpace(claim))
		}
	}
	if len(unsupported) == 0 {
		return out
	}

	evidence := make([]schema.Evidence, 0, len(unsupported))
	for _, claim := range unsupported {
		evidence = append(evidence, schema.Evidence{
			Detail: fmt.Sprintf("writeup claims %q but no file path or commit message mentions it", claim),
		})
	}
	out.signals = append(out.signals, schema.Signal{
		Kind:     schema.KindWriteupClaim,
		Category: schema.CategoryWriteup,
		Strength: clamp01(0.3 + 0.15*float64(len(unsupported))),
		Evidence: evidence,
		Note: fmt.Sprintf("writeup claims %d technologies with no trace in the repository: %s",
			len(unsupported), strings.Join(unsupported, ", ")),
	})
	return out
}

// buildRepoCorpus concatenates everything textual the repository offers:
// diff paths, tracked file paths and commit messages, all lowercased.
func buildRepoCorpus(timeline []schema.Commit, hashes map[string]string) string {
	var b strings.Builder
	for _, c := range timeline {
		b.WriteString(strings.ToLower(c.Message))
		b.WriteByte('\n')
		for path := range c.Diff {
			b.WriteString(strings.ToLower(path))
			b.WriteByte('\n')
		}
	}
	for path := range hashes {
		b.WriteString(strings.ToLower(path))
		b.WriteByte('\n')
	}
	return b.String()
}

// corpusMentions looks for the claim verbatim, then with punctuation
// stripped so "Node.js" still matches "nodejs".
func corpusMentions(corpus, token string) bool {
	if strings.Contains(corpus, token) {
		return true
	}
	stripped := stripNonAlnum(token)
	return stripped != token && stripped != "" && strings.Contains(corpus, stripped)
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
