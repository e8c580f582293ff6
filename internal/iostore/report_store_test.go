package iostore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackwatch/hackwatch/schema"
)

func newSQLiteReportStore(t *testing.T) *ReportStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "store.db")
	store, err := NewReportStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*ReportStoreImpl)
}

func TestReportStoreRunLifecycle(t *testing.T) {
	store := newSQLiteReportStore(t)

	start := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, map[string]any{"workers": 4, "output": "markdown"})
	require.NoError(t, err)
	assert.Positive(t, runID)

	end := start.Add(90 * time.Second)
	require.NoError(t, store.EndRun(runID, end, 12))

	runs, err := store.GetRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.True(t, run.StartTime.Equal(start))
	require.NotNil(t, run.EndTime)
	assert.True(t, run.EndTime.Equal(end))
	assert.Equal(t, 12, run.TotalRepos)
	assert.Equal(t, "markdown", run.ConfigParams["output"])
}

func TestReportStoreRecordAndGetFlags(t *testing.T) {
	store := newSQLiteReportStore(t)

	runID, err := store.BeginRun(time.Now().UTC(), nil)
	require.NoError(t, err)

	flag := schema.Flag{
		Severity:  schema.SeverityHigh,
		Category:  schema.CategoryTiming,
		Rationale: "commit authored 9 days before the window",
	}
	require.NoError(t, store.RecordFlag(runID, "alpha", "https://github.com/a/b", flag))
	require.NoError(t, store.RecordFlag(runID, "beta", "https://github.com/c/d", schema.Flag{
		Severity:  schema.SeverityLow,
		Category:  schema.CategoryBurst,
		Rationale: "rapid run of 6 commits",
	}))

	flags, err := store.GetFlags()
	require.NoError(t, err)
	require.Len(t, flags, 2)

	assert.Equal(t, runID, flags[0].RunID)
	assert.Equal(t, "alpha", flags[0].Team)
	assert.Equal(t, "timing", flags[0].Category)
	assert.Equal(t, "HIGH", flags[0].Severity)
	assert.Equal(t, "commit authored 9 days before the window", flags[0].Rationale)
	assert.False(t, flags[0].RecordedAt.IsZero())
	assert.Equal(t, "beta", flags[1].Team)
}

func TestReportStoreStatus(t *testing.T) {
	store := newSQLiteReportStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalRuns)
	assert.Zero(t, status.TotalFlags)

	start := time.Now().UTC()
	runID, err := store.BeginRun(start, nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordFlag(runID, "alpha", "https://github.com/a/b", schema.Flag{
		Severity: schema.SeverityLow, Category: schema.CategoryBurst, Rationale: "x",
	}))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, 1, status.TotalFlags)
	assert.True(t, status.LastRun.Equal(start))
}

func TestReportStoreNoneBackend(t *testing.T) {
	store, err := NewReportStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	assert.Zero(t, runID)

	require.NoError(t, store.EndRun(runID, time.Now(), 1))
	require.NoError(t, store.RecordFlag(runID, "alpha", "url", schema.Flag{}))

	runs, err := store.GetRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	require.NoError(t, store.Close())
}

func TestMigrateStoreSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	// Migrate up to latest, then all the way down.
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1))
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 0))

	// Migrating to a specific version works from scratch.
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 1))
}

func TestMigrateStoreNoneBackend(t *testing.T) {
	err := MigrateStore(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestClearReportStoreSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "store.db")
	store, err := NewReportStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearReportStore(schema.SQLiteBackend, dbPath, ""))
	// Clearing a missing file is not an error.
	require.NoError(t, ClearReportStore(schema.SQLiteBackend, dbPath, ""))
}

func TestClearFetchCacheRequiresPath(t *testing.T) {
	err := ClearFetchCache(schema.SQLiteBackend, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dbFilePath cannot be empty")
}
