// Package core has the originality analysis engine: timeline
// normalization, signal extraction and flag aggregation. It is pure:
// no network, no filesystem, no provider knowledge, no verdicts.
package core

import (
	"fmt"
	"math"
	"sync"

	"github.com/hackwatch/hackwatch/schema"
)

// analysisContext carries the immutable inputs every extractor reads.
type analysisContext struct {
	timeline []schema.Commit
	cfg      *schema.EngineConfig
	roster   schema.Roster
	writeup  *schema.Writeup
	refs     *schema.ReferenceSet
	hashes   map[string]string
}

// extraction is one extractor's complete output.
type extraction struct {
	signals  []schema.Signal
	warnings []string
}

// extractorFunc is a pure function over the shared analysis context.
type extractorFunc func(in *analysisContext) extraction

// extractors lists every signal extractor in a fixed order so warnings
// and signals are reproducible no matter how evaluation is scheduled.
var extractors = []struct {
	name string
	run  extractorFunc
}{
	{"timing", extractTiming},
	{"burst", extractBurst},
	{"single-dump", extractSingleDump},
	{"duplicate-origin", extractDuplicateOrigin},
	{"contributor-mismatch", extractContributorMismatch},
	{"writeup-mismatch", extractWriteupMismatch},
}

// AnalyzeSubmission runs the full engine for one repository: normalize the
// raw records, evaluate every extractor against the canonical timeline, and
// aggregate the signals into severity-ranked flags.
//
// All extractors are independent pure functions over the same immutable
// timeline, so they are fanned out concurrently; results land in fixed
// slots and the output is identical to a serial run.
func AnalyzeSubmission(input *schema.SubmissionInput, cfg schema.EngineConfig) (*schema.AnalysisReport, error) {
	if input == nil {
		return nil, fmt.Errorf("submission input is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}

	timeline, warnings := NormalizeTimeline(input.Commits)

	in := &analysisContext{
		timeline: timeline,
		cfg:      &cfg,
		roster:   input.Roster,
		writeup:  input.Writeup,
		refs:     input.References,
		hashes:   input.FileHashes,
	}

	results := make([]extraction, len(extractors))
	var wg sync.WaitGroup
	for i := range extractors {
		idx := i
		wg.Go(func() {
			results[idx] = extractors[idx].run(in)
		})
	}
	wg.Wait()

	var signals []schema.Signal
	for _, res := range results {
		signals = append(signals, res.signals...)
		warnings = append(warnings, res.warnings...)
	}

	return &schema.AnalysisReport{
		Team:            input.Team,
		RepoURL:         input.RepoURL,
		Flags:           AggregateFlags(signals, &cfg),
		Warnings:        warnings,
		CommitsAnalyzed: len(timeline),
	}, nil
}

// SkippedReport builds the report for a repository that could not be
// analyzed at all. Upstream fetch failures arrive here as plain reasons,
// never as faults the engine has to catch mid-computation.
func SkippedReport(team, repoURL, reason string) *schema.AnalysisReport {
	return &schema.AnalysisReport{
		Team:     team,
		RepoURL:  repoURL,
		Warnings: []string{reason},
		Skipped:  true,
	}
}

// clamp01 bounds a value to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// logScale maps v onto [0, 1] with log1p damping, saturating at sat.
// Small values keep meaningful weight without letting one huge value
// dominate linearly.
func logScale(v, sat float64) float64 {
	if sat <= 0 {
		return 1
	}
	return clamp01(math.Log1p(v) / math.Log1p(sat))
}
