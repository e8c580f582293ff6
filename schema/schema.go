// Package schema has configs, models and shared types for all parts of hackwatch.
package schema

import "time"

// LineDelta is the added/removed line count for a single path in one commit.
type LineDelta struct {
	Added   int // Lines added to the path
	Removed int // Lines removed from the path
}

// DiffStat is the per-path line breakdown of a single commit.
// It is owned by the Commit it describes.
type DiffStat map[string]LineDelta

// Identity is the author identity attached to a commit.
type Identity struct {
	Name  string // Display name as reported by the host
	Email string // Email as reported by the host, may be a noreply address
}

// RawCommit is the provider-agnostic record a host adapter hands to the
// engine. Timestamps arrive as text because hosts disagree on formats;
// the timeline normalizer parses and validates them.
type RawCommit struct {
	ID           string   // Host-unique commit identifier
	AuthoredAt   string   // Raw timestamp text, ISO8601 expected
	AuthorName   string   // Author display name
	AuthorEmail  string   // Author email
	ParentIDs    []string // Ordered parent commit identifiers, empty for root
	LinesAdded   int      // Total lines added across the commit
	LinesRemoved int      // Total lines removed across the commit
	FilesChanged int      // Number of paths touched
	Message      string   // Commit message
	Diff         DiffStat // Optional per-path breakdown
}

// Commit is one normalized entry in the canonical timeline.
// Immutable once constructed by the normalizer.
type Commit struct {
	ID           string
	AuthoredAt   time.Time
	Author       Identity
	ParentIDs    []string
	LinesAdded   int
	LinesRemoved int
	FilesChanged int
	Message      string
	Diff         DiffStat
}

// Churn returns the total line volume of the commit.
func (c *Commit) Churn() int {
	return c.LinesAdded + c.LinesRemoved
}

// HackathonWindow is the configured start/end of legitimate submission
// activity. Both bounds are timezone-aware and inclusive.
type HackathonWindow struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the window was never configured.
func (w HackathonWindow) IsZero() bool {
	return w.Start.IsZero() || w.End.IsZero()
}

// Duration returns the window length.
func (w HackathonWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls inside the window. Boundaries count
// as inside.
func (w HackathonWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Roster is the declared set of team-member identities for a submission.
// May be incomplete or empty.
type Roster []string

// Writeup is the submission-platform description of a project. Its absence
// is a supported state, never an error.
type Writeup struct {
	Title       string   // Project title
	Description string   // Free-text description
	Track       string   // Declared track or prize category
	TeamMembers []string // Members as declared on the platform
	Links       []string // Outbound links (repos, demos, services)
	TechStack   []string // Declared technologies
	SubmittedAt string   // Raw submission timestamp, if present
	Source      string   // Where the writeup came from (file path or URL)
}

// ReferenceSet holds pre-fetched fingerprints for duplicate-origin
// comparison: commit ids and file content fingerprints mapped to the
// label of their origin (another team repo or a boilerplate registry).
type ReferenceSet struct {
	CommitIDs  map[string]string
	FileHashes map[string]string
}

// Empty reports whether there is nothing to compare against.
func (r *ReferenceSet) Empty() bool {
	return r == nil || (len(r.CommitIDs) == 0 && len(r.FileHashes) == 0)
}

// SubmissionInput bundles everything the engine consumes for one
// repository. Optional fields may be nil; the dependent signal degrades
// to a warning, never a failure.
type SubmissionInput struct {
	Team       string        // Team label, used only for report attribution
	RepoURL    string        // Repository URL, used only for report attribution
	Commits    []RawCommit   // Raw records from the host adapter
	Roster     Roster        // Declared team members, may be empty
	Writeup    *Writeup      // Optional submission writeup
	References *ReferenceSet // Optional duplicate-origin reference data

	// FileHashes maps final-state paths to content fingerprints, supplied
	// pre-computed by the host adapter for duplicate-origin comparison.
	FileHashes map[string]string
}
