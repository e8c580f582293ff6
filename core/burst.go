package core

import (
	"fmt"
	"math"
	"time"

	"github.com/hackwatch/hackwatch/schema"
)

// extractBurst looks for commit-rate anomalies inside the window: runs of
// commits landing seconds apart (too fast for manual authorship) and long
// runs whose intervals barely vary (too mechanically uniform). Fewer than
// two in-window commits means no intervals exist, so the extractor
// abstains silently; absence of evidence is not evidence of absence.
func extractBurst(in *analysisContext) extraction {
	var out extraction

	inWindow := make([]schema.Commit, 0, len(in.timeline))
	for _, c := range in.timeline {
		if in.cfg.Window.Contains(c.AuthoredAt) {
			inWindow = append(inWindow, c)
		}
	}
	if len(inWindow) < 2 {
		return out
	}

	intervals := make([]time.Duration, len(inWindow)-1)
	for i := 1; i < len(inWindow); i++ {
		intervals[i-1] = inWindow[i].AuthoredAt.Sub(inWindow[i-1].AuthoredAt)
	}

	out.signals = append(out.signals, rapidRunSignals(inWindow, intervals, in.cfg)...)
	if sig, ok := uniformitySignal(inWindow, intervals, in.cfg); ok {
		out.signals = append(out.signals, sig)
	}
	return out
}

// rapidRunSignals scans for maximal runs of at least BurstRunLength commits
// where every inter-commit gap is at most BurstMaxGap. Strength scales with
// run length beyond the minimum, saturating at twice the minimum.
func rapidRunSignals(commits []schema.Commit, intervals []time.Duration, cfg *schema.EngineConfig) []schema.Signal {
	var signals []schema.Signal
	k := cfg.BurstRunLength

	runStart := 0 // index into commits of the current run's first commit
	for i := 0; i <= len(intervals); i++ {
		if i < len(intervals) && intervals[i] <= cfg.BurstMaxGap {
			continue
		}
		runLen := i - runStart + 1
		if runLen >= k {
			first, last := commits[runStart], commits[i]
			span := last.AuthoredAt.Sub(first.AuthoredAt)
			signals = append(signals, schema.Signal{
				Kind:     schema.KindBurstRapid,
				Category: schema.CategoryBurst,
				Strength: clamp01(float64(runLen) / float64(2*k)),
				Evidence: []schema.Evidence{
					{CommitID: first.ID, Detail: "first commit of the run"},
					{CommitID: last.ID, Detail: "last commit of the run"},
				},
				Note: fmt.Sprintf("a run of %d commits landed within %s, each at most %s apart, which is too fast for manual authorship",
					runLen, humanDuration(span), humanDuration(cfg.BurstMaxGap)),
			})
		}
		runStart = i + 1
	}
	return signals
}

// uniformitySignal checks the whole in-window sequence for mechanically
// uniform spacing. It needs at least UniformMinRun commits and a non-zero
// mean interval; strength scales inversely with the coefficient of
// variation.
func uniformitySignal(commits []schema.Commit, intervals []time.Duration, cfg *schema.EngineConfig) (schema.Signal, bool) {
	if len(commits) < cfg.UniformMinRun {
		return schema.Signal{}, false
	}

	mean := 0.0
	for _, iv := range intervals {
		mean += iv.Seconds()
	}
	mean /= float64(len(intervals))
	if mean <= 0 {
		// Identical timestamps are the rapid-run case, not uniformity.
		return schema.Signal{}, false
	}

	variance := 0.0
	for _, iv := range intervals {
		diff := iv.Seconds() - mean
		variance += diff * diff
	}
	variance /= float64(len(intervals))
	cv := math.Sqrt(variance) / mean

	if cv > cfg.UniformMaxCV {
		return schema.Signal{}, false
	}

	first, last := commits[0], commits[len(commits)-1]
	return schema.Signal{
		Kind:     schema.KindBurstUniform,
		Category: schema.CategoryBurst,
		Strength: clamp01(1.0 - cv/cfg.UniformMaxCV),
		Evidence: []schema.Evidence{
			{CommitID: first.ID, Detail: "first commit of the uniform run"},
			{CommitID: last.ID, Detail: "last commit of the uniform run"},
		},
		Note: fmt.Sprintf("%d commits are spaced almost identically (roughly every %s, variation %.0f%%), which looks mechanically generated",
			len(commits), humanDuration(time.Duration(mean*float64(time.Second))), cv*100),
	}, true
}
