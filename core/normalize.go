package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/hackwatch/hackwatch/schema"
)

// timestampLayouts are tried in order when parsing raw commit timestamps.
// Hosts mostly emit RFC3339, but naive ISO8601 shows up in exports; naive
// values are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700",
}

// NormalizeTimeline converts raw provider-agnostic commit records into the
// canonical, strictly ordered timeline. Malformed records (missing id or
// unparsable timestamp) are dropped with a warning; duplicate ids keep the
// first occurrence. The input is never mutated.
//
// Ordering is a total order: authored_at ascending, ties broken by
// topological depth derived from parent_ids, final ties by id. This keeps
// every time-windowed computation reproducible.
func NormalizeTimeline(raw []schema.RawCommit) ([]schema.Commit, []string) {
	commits := make([]schema.Commit, 0, len(raw))
	var warnings []string
	seen := make(map[string]struct{}, len(raw))

	for i, rc := range raw {
		if rc.ID == "" {
			warnings = append(warnings, fmt.Sprintf("dropped commit record %d: missing commit id", i+1))
			continue
		}
		if _, dup := seen[rc.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("dropped duplicate commit %s (kept first occurrence)", shortID(rc.ID)))
			continue
		}
		ts, err := parseTimestamp(rc.AuthoredAt)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("dropped commit %s: %v", shortID(rc.ID), err))
			continue
		}
		seen[rc.ID] = struct{}{}

		parents := make([]string, len(rc.ParentIDs))
		copy(parents, rc.ParentIDs)

		var diff schema.DiffStat
		if len(rc.Diff) > 0 {
			diff = make(schema.DiffStat, len(rc.Diff))
			for path, delta := range rc.Diff {
				diff[path] = delta
			}
		}

		commits = append(commits, schema.Commit{
			ID:           rc.ID,
			AuthoredAt:   ts,
			Author:       schema.Identity{Name: rc.AuthorName, Email: rc.AuthorEmail},
			ParentIDs:    parents,
			LinesAdded:   rc.LinesAdded,
			LinesRemoved: rc.LinesRemoved,
			FilesChanged: rc.FilesChanged,
			Message:      rc.Message,
			Diff:         diff,
		})
	}

	depths := topologicalDepths(commits)
	sort.SliceStable(commits, func(i, j int) bool {
		if !commits[i].AuthoredAt.Equal(commits[j].AuthoredAt) {
			return commits[i].AuthoredAt.Before(commits[j].AuthoredAt)
		}
		if depths[commits[i].ID] != depths[commits[j].ID] {
			return depths[commits[i].ID] < depths[commits[j].ID]
		}
		return commits[i].ID < commits[j].ID
	})

	return commits, warnings
}

// parseTimestamp parses a raw timestamp against the accepted layouts.
func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", raw)
}

// topologicalDepths computes, for every commit, the length of its longest
// ancestor chain within the set. Parents always sit at a strictly smaller
// depth than their children, so equal-timestamp ties resolve in ancestry
// order.
func topologicalDepths(commits []schema.Commit) map[string]int {
	parents := make(map[string][]string, len(commits))
	for _, c := range commits {
		parents[c.ID] = c.ParentIDs
	}

	depths := make(map[string]int, len(commits))
	var walk func(id string, trail map[string]bool) int
	walk = func(id string, trail map[string]bool) int {
		if d, ok := depths[id]; ok {
			return d
		}
		if trail[id] {
			// Parent cycles cannot happen in real history; bail out
			// rather than recurse forever on corrupt input.
			return 0
		}
		trail[id] = true
		defer delete(trail, id)

		depth := 0
		for _, pid := range parents[id] {
			if _, present := parents[pid]; !present {
				continue
			}
			if d := walk(pid, trail) + 1; d > depth {
				depth = d
			}
		}
		depths[id] = depth
		return depth
	}

	for _, c := range commits {
		walk(c.ID, make(map[string]bool))
	}
	return depths
}

// shortID abbreviates a commit id for human-facing text.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
