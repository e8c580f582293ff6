package core

import (
	"sort"
	"strings"

	"github.com/hackwatch/hackwatch/schema"
)

// AggregateFlags turns raw extractor signals into the user-facing flag list.
// Signals below the drop cut point are discarded; survivors are grouped by
// category, the strongest signal in each group picks the severity, and all
// notes and evidence in the group are merged into one flag. The result is
// sorted by severity, then category, and is deterministic for a given input
// regardless of signal order.
func AggregateFlags(signals []schema.Signal, cfg *schema.EngineConfig) []schema.Flag {
	groups := make(map[schema.FlagCategory][]schema.Signal)
	for _, sig := range signals {
		if _, keep := cfg.CutPoints.SeverityFor(sig.Strength); !keep {
			continue
		}
		groups[sig.Category] = append(groups[sig.Category], sig)
	}

	flags := make([]schema.Flag, 0, len(groups))
	for category, group := range groups {
		flags = append(flags, buildFlag(category, group, cfg))
	}
	sort.Slice(flags, func(i, j int) bool {
		ri, rj := schema.SeverityRank(flags[i].Severity), schema.SeverityRank(flags[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return flags[i].Category < flags[j].Category
	})
	return flags
}

func buildFlag(category schema.FlagCategory, group []schema.Signal, cfg *schema.EngineConfig) schema.Flag {
	// Strongest note first in the rationale; ties break on text.
	sort.SliceStable(group, func(i, j int) bool {
		if group[i].Strength != group[j].Strength {
			return group[i].Strength > group[j].Strength
		}
		return group[i].Note < group[j].Note
	})

	severity, _ := cfg.CutPoints.SeverityFor(group[0].Strength)
	if category == schema.CategoryWriteup && severity == schema.SeverityHigh {
		// Writeup checks are heuristic text matching; they never outrank
		// evidence derived from the commit history itself.
		severity = schema.SeverityMedium
	}

	var notes []string
	noteSeen := make(map[string]bool)
	var evidence []schema.Evidence
	evidenceSeen := make(map[schema.Evidence]bool)
	for _, sig := range group {
		if sig.Note != "" && !noteSeen[sig.Note] {
			noteSeen[sig.Note] = true
			notes = append(notes, sig.Note)
		}
		for _, ev := range sig.Evidence {
			if !evidenceSeen[ev] {
				evidenceSeen[ev] = true
				evidence = append(evidence, ev)
			}
		}
	}
	sort.Slice(evidence, func(i, j int) bool {
		a, b := evidence[i], evidence[j]
		if a.CommitID != b.CommitID {
			return a.CommitID < b.CommitID
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Identity != b.Identity {
			return a.Identity < b.Identity
		}
		return a.Detail < b.Detail
	})

	return schema.Flag{
		Severity:  severity,
		Category:  category,
		Rationale: strings.Join(notes, "; "),
		Evidence:  evidence,
	}
}
