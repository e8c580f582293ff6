package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/internal/parquet"
	"github.com/hackwatch/hackwatch/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeReportJSONResults handles opening the file and calling the JSON writer.
func writeReportJSONResults(reports []*schema.AnalysisReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForReports(w, reports)
	}, "Wrote JSON")
}

// writeReportCSVResults handles opening the file and calling the CSV writer.
func writeReportCSVResults(reports []*schema.AnalysisReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"team",
			"repo_url",
			"label",
			"category",
			"severity",
			"rationale",
			"commits_analyzed",
			"skipped",
		}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			return writeCSVResultsForReports(csvWriter, reports)
		})
	}, "Wrote CSV")
}

// writeReportParquetResults writes all flags into a single Parquet file.
// Direct exports carry a zero run id; persisted runs get real ids from the
// report store.
func writeReportParquetResults(reports []*schema.AnalysisReport, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}

	recordedAt := time.Now().UTC()
	var rows []parquet.FlagExport
	for _, r := range reports {
		for _, f := range r.Flags {
			rows = append(rows, parquet.FlagExport{
				RunID:      0,
				Team:       r.Team,
				RepoURL:    r.RepoURL,
				Category:   string(f.Category),
				Severity:   string(f.Severity),
				Rationale:  f.Rationale,
				RecordedAt: recordedAt,
			})
		}
	}

	if err := parquet.WriteFlagsParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %d flag rows to %s\n", len(rows), cfg.OutputFile)
	return nil
}

// writeReportTable generates and writes the human-readable summary table.
func writeReportTable(reports []*schema.AnalysisReport, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Team", "Repo", "Label", "Flags", "Commits"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	maxPathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for i, r := range reports {
		label := contract.GetPlainLabel(r)
		if cfg.UseColors {
			label = contract.GetColorLabel(r)
		}
		row := []string{
			strconv.Itoa(i + 1), // Rank
			r.Team,
			contract.TruncatePath(r.RepoURL, maxPathWidth),
			label,
			strconv.Itoa(len(r.Flags)),
			strconv.Itoa(r.CommitsAnalyzed),
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	flagged := 0
	skipped := 0
	for _, r := range reports {
		if len(r.Flags) > 0 {
			flagged++
		}
		if r.Skipped {
			skipped++
		}
	}
	if _, err := fmt.Fprintf(writer, "Analyzed %d submissions (%d flagged, %d skipped)\n", len(reports), flagged, skipped); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForReports writes one row per flag. Clean or skipped reports
// still get a row so the file covers every submission analyzed.
func writeCSVResultsForReports(w *csv.Writer, reports []*schema.AnalysisReport) error {
	for _, r := range reports {
		base := []string{r.Team, r.RepoURL, contract.GetPlainLabel(r)}
		tail := []string{strconv.Itoa(r.CommitsAnalyzed), strconv.FormatBool(r.Skipped)}

		if len(r.Flags) == 0 {
			rec := append(append(base, "", "", ""), tail...)
			if err := w.Write(rec); err != nil {
				return err
			}
			continue
		}
		for _, f := range r.Flags {
			rec := append(append(base, string(f.Category), string(f.Severity), f.Rationale), tail...)
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeJSONResultsForReports writes the analysis reports in JSON format.
func writeJSONResultsForReports(w io.Writer, reports []*schema.AnalysisReport) error {
	// 1. Prepare the data structure for JSON with the label added
	type JSONReport struct {
		Label string `json:"label"`
		schema.AnalysisReport
	}

	output := make([]JSONReport, len(reports))
	for i, r := range reports {
		output[i] = JSONReport{
			Label:          contract.GetPlainLabel(r),
			AnalysisReport: *r,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
