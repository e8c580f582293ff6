package schema

// Custom string types for type safety.
type (
	// SignalKind identifies the exact finding an extractor produced.
	SignalKind string

	// FlagCategory groups signals into the buckets judges see.
	FlagCategory string

	// Severity is the only classification shown to end users.
	Severity string

	// OutputMode represents the format of rendered reports.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// Signal kinds, one enum space per extractor.
const (
	KindTimingEarly      SignalKind = "timing_early"       // commit before the window
	KindTimingLate       SignalKind = "timing_late"        // commit after the window
	KindBurstRapid       SignalKind = "burst_rapid"        // run too fast for manual authorship
	KindBurstUniform     SignalKind = "burst_uniform"      // intervals too mechanically uniform
	KindSingleDump       SignalKind = "single_dump"        // one commit carries most of the code
	KindDuplicateCommit  SignalKind = "duplicate_commit"   // commit ids shared with a reference repo
	KindDuplicateContent SignalKind = "duplicate_content"  // file fingerprints shared with a reference repo
	KindRosterUndeclared SignalKind = "roster_undeclared"  // author not on the declared roster
	KindRosterAbsent     SignalKind = "roster_absent"      // declared member with no commits
	KindWriteupClaim     SignalKind = "writeup_claim"      // writeup claim without repo evidence
)

// Flag categories, ordered alphabetically when severity ties.
const (
	CategoryBurst        FlagCategory = "burst"
	CategoryContributors FlagCategory = "contributors"
	CategoryDuplicate    FlagCategory = "duplicate-origin"
	CategorySingleDump   FlagCategory = "single-dump"
	CategoryTiming       FlagCategory = "timing"
	CategoryWriteup      FlagCategory = "writeup"
)

// Severity levels. There is no numeric score in user-facing output.
const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// severityRank orders severities for sorting, highest first.
var severityRank = map[Severity]int{
	SeverityHigh:   0,
	SeverityMedium: 1,
	SeverityLow:    2,
}

// SeverityRank returns the sort rank of a severity; unknown values sink.
func SeverityRank(s Severity) int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// All output modes supported.
const (
	MarkdownOut OutputMode = "markdown" // default
	TextOut     OutputMode = "text"
	CSVOut      OutputMode = "csv"
	JSONOut     OutputMode = "json"
	ParquetOut  OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	MarkdownOut: {},
	TextOut:     {},
	CSVOut:      {},
	JSONOut:     {},
	ParquetOut:  {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// AllCategories returns every flag category in stable alphabetical order.
var AllCategories = []FlagCategory{
	CategoryBurst,
	CategoryContributors,
	CategoryDuplicate,
	CategorySingleDump,
	CategoryTiming,
	CategoryWriteup,
}
