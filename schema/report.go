package schema

import "time"

// Evidence points at the concrete repository artifact backing a finding.
// Exactly which fields are set depends on the signal kind.
type Evidence struct {
	CommitID string `json:"commit_id,omitempty"` // Commit cited by the finding
	Path     string `json:"path,omitempty"`      // File path cited by the finding
	Identity string `json:"identity,omitempty"`  // Roster or author identity cited
	Detail   string `json:"detail,omitempty"`    // Short free-text qualifier
}

// Signal is one extractor's raw finding. Strength is continuous and never
// shown to end users; the aggregator converts it into a discrete severity.
type Signal struct {
	Kind     SignalKind
	Category FlagCategory
	Strength float64 // 0.0-1.0
	Evidence []Evidence
	Note     string // Short human explanation, becomes part of the rationale
}

// Flag is the aggregator's unit of output: severity-classified, evidence
// backed and immutable once built. Flags are the only user-facing artifact.
type Flag struct {
	Severity  Severity     `json:"severity"`
	Category  FlagCategory `json:"category"`
	Rationale string       `json:"rationale"`
	Evidence  []Evidence   `json:"evidence"`
}

// AnalysisReport is the engine's sole output for one repository.
type AnalysisReport struct {
	Team            string   `json:"team"`
	RepoURL         string   `json:"repo_url"`
	Flags           []Flag   `json:"flags"`
	Warnings        []string `json:"warnings"`
	Skipped         bool     `json:"skipped"`
	CommitsAnalyzed int      `json:"commits_analyzed"`
}

// TopSeverity returns the highest severity present, or "" when clean.
func (r *AnalysisReport) TopSeverity() Severity {
	var top Severity
	best := len(severityRank) + 1
	for _, f := range r.Flags {
		if rank := SeverityRank(f.Severity); rank < best {
			best = rank
			top = f.Severity
		}
	}
	return top
}

// RunRecord is one persisted analysis run with metadata.
type RunRecord struct {
	RunID        int64
	StartTime    time.Time
	EndTime      *time.Time
	TotalRepos   int
	ConfigParams map[string]any
}

// FlagRecord is one persisted flag for a run, flattened for storage.
type FlagRecord struct {
	RunID      int64
	Team       string
	RepoURL    string
	Category   string
	Severity   string
	Rationale  string
	RecordedAt time.Time
}

// CacheStatus describes the commit fetch cache.
type CacheStatus struct {
	Backend         string
	Connected       bool
	TotalEntries    int
	LastEntryTime   time.Time
	OldestEntryTime time.Time
	TableSizeBytes  int64
}

// StoreStatus describes the report store.
type StoreStatus struct {
	Backend    string
	Connected  bool
	TotalRuns  int
	TotalFlags int
	LastRun    time.Time
}
