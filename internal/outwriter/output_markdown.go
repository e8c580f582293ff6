package outwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/schema"
)

// writeMarkdownReports writes one Markdown file per team plus an index file
// into the configured output directory.
func writeMarkdownReports(reports []*schema.AnalysisReport, cfg *contract.Config) error {
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = contract.DefaultOutputDir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	for _, r := range reports {
		reportPath := filepath.Join(outputDir, contract.Slugify(r.Team)+".md")
		if err := os.WriteFile(reportPath, []byte(renderTeamReport(r)), 0o644); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", r.Team, err)
		}
	}

	indexPath := filepath.Join(outputDir, "index.md")
	if err := os.WriteFile(indexPath, []byte(renderIndex(reports)), 0o644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	fmt.Fprintf(os.Stderr, "💾 Wrote %d reports to %s\n", len(reports)+1, outputDir)
	return nil
}

// renderTeamReport renders one team's full Markdown report.
func renderTeamReport(r *schema.AnalysisReport) string {
	lines := []string{
		fmt.Sprintf("# %s - %s", r.Team, contract.GetPlainLabel(r)),
		"",
		fmt.Sprintf("**Repo:** %s", r.RepoURL),
		fmt.Sprintf("**Commits analyzed:** %d", r.CommitsAnalyzed),
		"",
		"## Flags",
	}

	if r.Skipped {
		lines = append(lines, "Analysis was skipped for this repository.")
	} else if len(r.Flags) == 0 {
		lines = append(lines, "None raised.")
	} else {
		for _, f := range r.Flags {
			lines = append(lines,
				"",
				fmt.Sprintf("### %s (%s)", f.Category, f.Severity),
				f.Rationale,
			)
			if len(f.Evidence) > 0 {
				lines = append(lines, "")
				for _, e := range f.Evidence {
					lines = append(lines, "- "+formatEvidence(e))
				}
			}
		}
	}

	lines = append(lines, "", "## Warnings")
	if len(r.Warnings) == 0 {
		lines = append(lines, "None.")
	} else {
		for _, w := range r.Warnings {
			lines = append(lines, "- "+w)
		}
	}

	lines = append(lines, "", "## Summary", summaryReason(r), "")
	return strings.Join(lines, "\n")
}

// renderIndex renders the severity-sorted summary table for all teams.
func renderIndex(reports []*schema.AnalysisReport) string {
	lines := []string{
		"# Submission Originality Summary",
		"",
		"| Team | Label | Flags | Commits | Warnings |",
		"|---|---|---:|---:|---:|",
	}

	for _, r := range reports {
		lines = append(lines, fmt.Sprintf(
			"| %s | %s | %d | %d | %d |",
			r.Team, contract.GetPlainLabel(r), len(r.Flags), r.CommitsAnalyzed, len(r.Warnings),
		))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// summaryReason produces the closing recommendation sentence for a report.
func summaryReason(r *schema.AnalysisReport) string {
	if r.Skipped {
		return "Commit history could not be retrieved, so no originality verdict is possible. Check repository access and retry."
	}
	switch r.TopSeverity() {
	case schema.SeverityHigh:
		return "High-severity originality concerns were detected. Organizer review is recommended before judging."
	case schema.SeverityMedium:
		return "Moderate originality concerns were detected. Closer scrutiny of the flagged areas is suggested."
	case schema.SeverityLow:
		return "Only low-severity observations were recorded. Review at the organizer's discretion."
	default:
		return "No major originality concerns were detected from available signals."
	}
}

// countBySeverity tallies flags per severity for quick terminal summaries.
func countBySeverity(reports []*schema.AnalysisReport) map[schema.Severity]int {
	counts := make(map[schema.Severity]int)
	for _, r := range reports {
		for _, f := range r.Flags {
			counts[f.Severity]++
		}
	}
	return counts
}

// FormatSeverityCounts renders severity counts in fixed high-to-low order.
func FormatSeverityCounts(reports []*schema.AnalysisReport) string {
	counts := countBySeverity(reports)
	parts := make([]string, 0, 3)
	for _, sev := range []schema.Severity{schema.SeverityHigh, schema.SeverityMedium, schema.SeverityLow} {
		parts = append(parts, string(sev)+"="+strconv.Itoa(counts[sev]))
	}
	return strings.Join(parts, " ")
}
