// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/schema"
)

// WriteReports outputs the analysis reports, dispatching based on the output format configured.
func WriteReports(reports []*schema.AnalysisReport, cfg *contract.Config, duration time.Duration) error {
	ordered := sortReports(reports)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeReportJSONResults(ordered, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeReportCSVResults(ordered, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeReportParquetResults(ordered, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(ordered, cfg, duration, w)
		}, "Wrote table")
	default:
		// Default to per-team Markdown files plus an index
		if err := writeMarkdownReports(ordered, cfg); err != nil {
			return fmt.Errorf("error writing Markdown output: %w", err)
		}
	}
	return nil
}

// sortReports orders reports by worst severity first, then team name. Clean
// reports sink to the bottom so reviewers see problem submissions first.
func sortReports(reports []*schema.AnalysisReport) []*schema.AnalysisReport {
	ordered := make([]*schema.AnalysisReport, len(reports))
	copy(ordered, reports)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri := schema.SeverityRank(ordered[i].TopSeverity())
		rj := schema.SeverityRank(ordered[j].TopSeverity())
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(ordered[i].Team) < strings.ToLower(ordered[j].Team)
	})
	return ordered
}

// formatEvidence renders a single evidence item as a compact one-liner.
func formatEvidence(e schema.Evidence) string {
	var parts []string
	if e.CommitID != "" {
		parts = append(parts, "commit "+e.CommitID)
	}
	if e.Path != "" {
		parts = append(parts, "path "+e.Path)
	}
	if e.Identity != "" {
		parts = append(parts, "identity "+e.Identity)
	}
	if e.Detail != "" {
		parts = append(parts, "("+e.Detail+")")
	}
	if len(parts) == 0 {
		return "no detail recorded"
	}
	return strings.Join(parts, " ")
}
