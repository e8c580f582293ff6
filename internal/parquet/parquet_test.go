package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackwatch/hackwatch/schema"
)

func TestRunExportStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(RunExport))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"run_id",
		"start_time",
		"end_time",
		"total_repos",
		"config_params",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestFlagExportStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(FlagExport))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"run_id",
		"team",
		"repo_url",
		"category",
		"severity",
		"rationale",
		"recorded_at",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func sampleRunRecords() []schema.RunRecord {
	start := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)
	return []schema.RunRecord{
		{
			RunID:        1,
			StartTime:    start,
			EndTime:      &end,
			TotalRepos:   12,
			ConfigParams: map[string]any{"workers": 4},
		},
		{
			RunID:     2,
			StartTime: start.Add(time.Hour),
			// EndTime and ConfigParams stay nil for an interrupted run
		},
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")

	data := ConvertRunRecords(sampleRunRecords())
	require.Len(t, data, 2)
	require.NotNil(t, data[0].ConfigParams)
	assert.JSONEq(t, `{"workers":4}`, *data[0].ConfigParams)
	assert.Nil(t, data[1].EndTime)
	assert.Nil(t, data[1].ConfigParams)

	require.NoError(t, WriteRunsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// Read the file back and verify round-trip
	rows, err := parquet.ReadFile[RunExport](outputPath)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].RunID)
	assert.Equal(t, int32(12), rows[0].TotalRepos)
	assert.Equal(t, int64(2), rows[1].RunID)
}

func TestWriteFlagsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "flags.parquet")

	records := []schema.FlagRecord{
		{
			RunID:      1,
			Team:       "alpha",
			RepoURL:    "https://github.com/a/b",
			Category:   "timing",
			Severity:   "HIGH",
			Rationale:  "commit authored 9 days before the window",
			RecordedAt: time.Date(2026, 2, 20, 10, 5, 0, 0, time.UTC),
		},
	}

	require.NoError(t, WriteFlagsParquet(ConvertFlagRecords(records), outputPath))

	rows, err := parquet.ReadFile[FlagExport](outputPath)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alpha", rows[0].Team)
	assert.Equal(t, "HIGH", rows[0].Severity)
	assert.Equal(t, "timing", rows[0].Category)
}

func TestWriteRunsParquetEmptySlice(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteRunsParquet(nil, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
