package core

import (
	"fmt"
	"math"

	"github.com/hackwatch/hackwatch/schema"
)

// extractSingleDump estimates the share of the repository's final code
// volume carried by the single largest commit. Final-state lines are
// approximated as cumulative additions minus cumulative removals. When
// that share exceeds DumpFraction and the commit lands near the start of
// the visible timeline, it is a strong pre-built-import indicator;
// strength is the excess over the threshold scaled linearly into the
// remaining headroom to 1.0.
func extractSingleDump(in *analysisContext) extraction {
	var out extraction
	if len(in.timeline) == 0 {
		return out
	}

	totalAdded, totalRemoved := 0, 0
	largest := in.timeline[0]
	for _, c := range in.timeline {
		totalAdded += c.LinesAdded
		totalRemoved += c.LinesRemoved
		if c.LinesAdded > largest.LinesAdded {
			largest = c
		}
	}

	finalLines := totalAdded - totalRemoved
	if finalLines <= 0 || largest.LinesAdded == 0 {
		return out
	}
	fraction := clamp01(float64(largest.LinesAdded) / float64(finalLines))
	if fraction <= in.cfg.DumpFraction {
		return out
	}

	// Position of the dump inside the visible timeline. A single-commit
	// timeline has no span and counts as the start.
	first, last := in.timeline[0], in.timeline[len(in.timeline)-1]
	span := last.AuthoredAt.Sub(first.AuthoredAt)
	offset := 0.0
	if span > 0 {
		offset = float64(largest.AuthoredAt.Sub(first.AuthoredAt)) / float64(span)
	}
	if offset > in.cfg.DumpEarlyFraction {
		return out
	}

	position := "at the very start of the timeline"
	if offset > 0 {
		position = fmt.Sprintf("within the first %.0f%% of the timeline", math.Ceil(offset*100))
	}

	strength := (fraction - in.cfg.DumpFraction) / (1.0 - in.cfg.DumpFraction)
	out.signals = append(out.signals, schema.Signal{
		Kind:     schema.KindSingleDump,
		Category: schema.CategorySingleDump,
		Strength: clamp01(strength),
		Evidence: []schema.Evidence{{
			CommitID: largest.ID,
			Detail:   fmt.Sprintf("+%d lines across %d files", largest.LinesAdded, largest.FilesChanged),
		}},
		Note: fmt.Sprintf("commit %s alone contributed %.0f%% of the repository's final code volume and landed %s, which suggests pre-built code imported in one commit",
			shortID(largest.ID), fraction*100, position),
	})
	return out
}
