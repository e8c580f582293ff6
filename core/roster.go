package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hackwatch/hackwatch/schema"
)

// extractContributorMismatch compares commit author identities against the
// declared team roster. Authors with a large commit share who are not on
// the roster suggest outside help; declared members with no commits at all
// get a softer warning.
func extractContributorMismatch(in *analysisContext) extraction {
	var out extraction
	if len(in.roster) == 0 {
		out.warnings = append(out.warnings, "skipped contributor-mismatch check: no team roster provided")
		return out
	}
	if len(in.timeline) == 0 {
		return out
	}

	declared := make(map[string]bool, len(in.roster))
	for _, member := range in.roster {
		declared[canonicalIdentity(member, in.cfg.Aliases)] = false
	}

	// Group commits by author, matching on either name or email.
	type authorStat struct {
		identity schema.Identity
		commits  []schema.Commit
	}
	byAuthor := make(map[string]*authorStat)
	var undeclaredKeys []string
	for _, c := range in.timeline {
		name := canonicalIdentity(c.Author.Name, in.cfg.Aliases)
		email := canonicalIdentity(c.Author.Email, in.cfg.Aliases)

		matched := false
		for _, id := range []string{name, email} {
			if _, ok := declared[id]; ok && id != "" {
				declared[id] = true
				matched = true
			}
		}
		if matched {
			continue
		}

		key := email
		if key == "" {
			key = name
		}
		stat, ok := byAuthor[key]
		if !ok {
			stat = &authorStat{identity: c.Author}
			byAuthor[key] = stat
			undeclaredKeys = append(undeclaredKeys, key)
		}
		stat.commits = append(stat.commits, c)
	}

	sort.Strings(undeclaredKeys)
	for _, key := range undeclaredKeys {
		stat := byAuthor[key]
		share := float64(len(stat.commits)) / float64(len(in.timeline))
		evidence := make([]schema.Evidence, 0, len(stat.commits))
		for _, c := range stat.commits {
			evidence = append(evidence, schema.Evidence{
				CommitID: c.ID,
				Identity: displayIdentity(stat.identity),
			})
		}
		out.signals = append(out.signals, schema.Signal{
			Kind:     schema.KindRosterUndeclared,
			Category: schema.CategoryContributors,
			Strength: clamp01(share / in.cfg.RosterShareSaturation),
			Evidence: evidence,
			Note: fmt.Sprintf("%s authored %d of %d commits (%.0f%%) but is not on the declared team roster",
				displayIdentity(stat.identity), len(stat.commits), len(in.timeline), share*100),
		})
	}

	// Declared members with zero commits are worth a mention, not a flag
	// at default cut points: absence is common with pair programming.
	var absent []string
	for id, seen := range declared {
		if !seen && id != "" {
			absent = append(absent, id)
		}
	}
	sort.Strings(absent)
	for _, id := range absent {
		out.signals = append(out.signals, schema.Signal{
			Kind:     schema.KindRosterAbsent,
			Category: schema.CategoryContributors,
			Strength: 0.2,
			Evidence: []schema.Evidence{{Identity: id}},
			Note:     fmt.Sprintf("declared team member %q has no commits in the repository", id),
		})
		out.warnings = append(out.warnings,
			fmt.Sprintf("declared team member %q has no commits in the repository", id))
	}
	return out
}

// canonicalIdentity folds case, trims whitespace and applies the alias map.
func canonicalIdentity(raw string, aliases map[string]string) string {
	id := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := aliases[id]; ok {
		return strings.ToLower(strings.TrimSpace(canonical))
	}
	return id
}

func displayIdentity(id schema.Identity) string {
	switch {
	case id.Name != "" && id.Email != "":
		return fmt.Sprintf("%s <%s>", id.Name, id.Email)
	case id.Email != "":
		return id.Email
	case id.Name != "":
		return id.Name
	default:
		return "(unknown author)"
	}
}
