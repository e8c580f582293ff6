// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/hackwatch/hackwatch/schema"
)

// HostClient fetches commit history from a code host (GitHub, GitLab).
// This allows the pipeline to be tested without real network calls.
type HostClient interface {
	// FetchCommits returns the raw commit records for a repository URL,
	// along with non-fatal warnings (e.g. a commit whose detail fetch
	// failed). A returned error means the repository could not be
	// analyzed at all and should be reported as skipped.
	FetchCommits(ctx context.Context, repoURL string) ([]schema.RawCommit, []string, error)
}

// StoreManager defines the interface for managing persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetFetchStore() FetchStore
	GetReportStore() ReportStore
}

// FetchStore defines the interface for caching fetched commit history.
type FetchStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// ReportStore defines the interface for tracking analysis runs and the
// flags they produced.
type ReportStore interface {
	// BeginRun creates a new analysis run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the analysis run with completion data
	EndRun(runID int64, endTime time.Time, totalRepos int) error

	// RecordFlag stores one flag raised during a run
	RecordFlag(runID int64, team, repoURL string, flag schema.Flag) error

	// GetRuns returns all recorded analysis runs
	GetRuns() ([]schema.RunRecord, error)

	// GetFlags returns all recorded flags across runs
	GetFlags() ([]schema.FlagRecord, error)

	// GetStatus returns status information about the report store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}
