package iostore

import (
	"errors"
	"fmt"

	"github.com/hackwatch/hackwatch/internal/parquet"
)

// ExecuteStoreExport performs the actual export of persisted run data to
// Parquet files.
func ExecuteStoreExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetReportStore()
	if store == nil {
		return errors.New("report store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total flags: %d\n", status.TotalFlags)

	runs, err := store.GetRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	flags, err := store.GetFlags()
	if err != nil {
		return fmt.Errorf("failed to retrieve flags: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	flagsFile := outputFile + ".flags.parquet"
	if err := parquet.WriteFlagsParquet(parquet.ConvertFlagRecords(flags), flagsFile); err != nil {
		return fmt.Errorf("failed to write flags: %w", err)
	}
	fmt.Printf("Exported %d flag records to: %s\n", len(flags), flagsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with DuckDB, Spark, Pandas or any other Parquet-compatible tool.")

	return nil
}
