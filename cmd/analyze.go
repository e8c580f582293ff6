package cmd

import (
	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/internal/hostfetch"
	"github.com/hackwatch/hackwatch/internal/pipeline"
	"github.com/spf13/cobra"
)

// analyzeCmd runs the originality analysis over a submissions file.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <submissions-file>",
	Short: "Analyze submitted repos and flag originality concerns.",
	Long: `Fetch commit history for every submitted repository and run the
originality signal extractors against the hackathon window.

Each submission is checked for:
- Commits authored before or after the hackathon window
- Bursts of commits too fast or too uniform for manual authorship
- A single commit dumping most of the final code near the start
- Commit histories or file contents shared with other submissions
- Commit authors missing from the declared team roster
- Writeup claims with no supporting evidence in the repository

Results are written as per-team Markdown reports by default. Use --output
for table, CSV, JSON or Parquet formats instead.

Examples:
  # Analyze a submissions file with an explicit window
  hackwatch analyze submissions.csv --window-start 2025-06-06T18:00:00Z --window-end 2025-06-08T18:00:00Z

  # Use a config file for the window, thresholds and aliases
  hackwatch analyze submissions.yaml --config .hackwatch.yaml

  # Enrich reports with Devpost writeups
  hackwatch analyze submissions.csv --devpost export.csv

  # Print a summary table to the terminal
  hackwatch analyze submissions.csv --output text

  # Export flags for tracking
  hackwatch analyze submissions.csv --output csv --output-file flags.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		client := hostfetch.NewClient(cfg)
		if err := pipeline.ExecuteAnalyze(rootCtx, cfg, client, storeManager); err != nil {
			contract.LogFatal("Cannot run submission analysis", err)
		}
	},
}
