package core

import (
	"fmt"
	"time"

	"github.com/hackwatch/hackwatch/schema"
)

// extractTiming flags commits authored strictly outside the hackathon
// window. Commits exactly on a boundary are inside. Strength grows with
// the distance from the nearest boundary, normalized by window length and
// capped at 1.0 once the commit sits TimingCapFactor window lengths away;
// small commits are discounted on a log scale so a stray 3-line fixup far
// outside the window does not outrank a thousand-line pre-build.
func extractTiming(in *analysisContext) extraction {
	var out extraction
	window := in.cfg.Window
	winLen := window.Duration()
	if winLen <= 0 {
		return out
	}

	for _, c := range in.timeline {
		if window.Contains(c.AuthoredAt) {
			continue
		}

		var kind schema.SignalKind
		var dist time.Duration
		var side string
		if c.AuthoredAt.Before(window.Start) {
			kind = schema.KindTimingEarly
			dist = window.Start.Sub(c.AuthoredAt)
			side = "before"
		} else {
			kind = schema.KindTimingLate
			dist = c.AuthoredAt.Sub(window.End)
			side = "after"
		}

		distFactor := clamp01(float64(dist) / (in.cfg.TimingCapFactor * float64(winLen)))
		volFactor := logScale(float64(c.Churn()), float64(in.cfg.TimingVolumeSat))

		note := fmt.Sprintf("commit %s was authored at %s, %s %s the window",
			shortID(c.ID), c.AuthoredAt.Format(time.RFC3339), humanDuration(dist), side)

		out.signals = append(out.signals, schema.Signal{
			Kind:     kind,
			Category: schema.CategoryTiming,
			Strength: distFactor * volFactor,
			Evidence: []schema.Evidence{{
				CommitID: c.ID,
				Detail:   fmt.Sprintf("authored %s, %+d/-%d lines", c.AuthoredAt.Format(time.RFC3339), c.LinesAdded, c.LinesRemoved),
			}},
			Note: note,
		})
	}
	return out
}

// humanDuration renders an offset the way a judge would say it.
func humanDuration(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	case d >= time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	case d >= time.Minute:
		minutes := int(d.Minutes())
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	default:
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
}
