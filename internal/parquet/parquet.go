// Package parquet provides data structures and functions for exporting
// persisted run data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/hackwatch/hackwatch/schema"
)

// RunExport represents a single analysis run with metadata.
// This struct maps to the hackwatch_runs database table.
type RunExport struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// TotalRepos is the number of repositories analyzed in this run
	TotalRepos int32 `parquet:"total_repos,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FlagExport represents one raised flag, flattened for export.
// This struct maps to the hackwatch_flags database table.
type FlagExport struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// Team is the submitting team label
	Team string `parquet:"team,snappy"`

	// RepoURL is the flagged repository
	RepoURL string `parquet:"repo_url,snappy"`

	// Category is the flag bucket (timing, burst, contributors, ...)
	Category string `parquet:"category,snappy"`

	// Severity is LOW, MEDIUM or HIGH
	Severity string `parquet:"severity,snappy"`

	// Rationale is the human-readable explanation
	Rationale string `parquet:"rationale,snappy"`

	// RecordedAt is when the flag was persisted
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// WriteRunsParquet writes a slice of RunExport structs to a Parquet file.
func WriteRunsParquet(data []RunExport, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the RunExport struct tags
	writer := parquet.NewGenericWriter[RunExport](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteFlagsParquet writes a slice of FlagExport structs to a Parquet file.
func WriteFlagsParquet(data []FlagExport, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the FlagExport struct tags
	writer := parquet.NewGenericWriter[FlagExport](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRunRecords converts schema.RunRecord to RunExport for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []RunExport {
	result := make([]RunExport, len(records))
	for i, record := range records {
		export := RunExport{
			RunID:      record.RunID,
			StartTime:  record.StartTime,
			EndTime:    record.EndTime,
			TotalRepos: int32(record.TotalRepos),
		}
		if record.ConfigParams != nil {
			if raw, err := json.Marshal(record.ConfigParams); err == nil {
				encoded := string(raw)
				export.ConfigParams = &encoded
			}
		}
		result[i] = export
	}
	return result
}

// ConvertFlagRecords converts schema.FlagRecord to FlagExport for Parquet export.
func ConvertFlagRecords(records []schema.FlagRecord) []FlagExport {
	result := make([]FlagExport, len(records))
	for i, record := range records {
		result[i] = FlagExport{
			RunID:      record.RunID,
			Team:       record.Team,
			RepoURL:    record.RepoURL,
			Category:   record.Category,
			Severity:   record.Severity,
			Rationale:  record.Rationale,
			RecordedAt: record.RecordedAt,
		}
	}
	return result
}
