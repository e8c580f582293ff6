package schema

import (
	"errors"
	"fmt"
	"time"
)

// Default calibration values. These are policy choices, not constants of
// nature; organizers should tune them against known submissions.
const (
	DefaultBurstRunLength        = 5
	DefaultBurstMaxGap           = 3 * time.Second
	DefaultUniformMinRun         = 8
	DefaultUniformMaxCV          = 0.15
	DefaultDumpFraction          = 0.8
	DefaultDumpEarlyFraction     = 0.25
	DefaultDuplicateCutoff       = 0.1
	DefaultDuplicateSaturation   = 0.5
	DefaultRosterShareSaturation = 0.5
	DefaultTimingCapFactor       = 3.0
	DefaultTimingVolumeSat       = 1000
)

// SeverityCutPoints maps continuous signal strength to discrete severity.
// Signals below Drop never become flags.
type SeverityCutPoints struct {
	Drop   float64 `mapstructure:"drop"`   // below this the signal is discarded
	Medium float64 `mapstructure:"medium"` // at or above: MEDIUM
	High   float64 `mapstructure:"high"`   // at or above: HIGH
}

// DefaultCutPoints returns the documented default severity mapping:
// <0.4 dropped, 0.4-0.7 LOW, 0.7-0.9 MEDIUM, >=0.9 HIGH.
func DefaultCutPoints() SeverityCutPoints {
	return SeverityCutPoints{Drop: 0.4, Medium: 0.7, High: 0.9}
}

// SeverityFor classifies a strength value. The boolean is false when the
// strength falls below the drop cut and no flag should be produced.
func (c SeverityCutPoints) SeverityFor(strength float64) (Severity, bool) {
	switch {
	case strength < c.Drop:
		return "", false
	case strength >= c.High:
		return SeverityHigh, true
	case strength >= c.Medium:
		return SeverityMedium, true
	default:
		return SeverityLow, true
	}
}

// EngineConfig holds every tunable the engine consumes. It is passed
// explicitly into the entry point; the engine reads no ambient state.
type EngineConfig struct {
	// Window is the hackathon window. Required; the engine treats a zero
	// window as a caller defect, not a data-quality issue.
	Window HackathonWindow

	// TimingCapFactor caps timing strength at 1.0 once a commit sits this
	// many window lengths away from the nearest boundary.
	TimingCapFactor float64

	// TimingVolumeSat is the churn (lines added+removed) at which an
	// out-of-window commit counts as full-weight evidence. Smaller commits
	// are discounted on a log scale.
	TimingVolumeSat int

	// BurstRunLength is K: the minimum run of rapid commits to flag.
	BurstRunLength int

	// BurstMaxGap is the largest inter-commit interval still considered
	// "too fast for manual authorship".
	BurstMaxGap time.Duration

	// UniformMinRun is the minimum run length for the uniformity check.
	UniformMinRun int

	// UniformMaxCV is the coefficient-of-variation ceiling below which a
	// run counts as mechanically uniform.
	UniformMaxCV float64

	// DumpFraction is the share of final-state lines a single commit must
	// carry before the single-dump signal fires.
	DumpFraction float64

	// DumpEarlyFraction bounds how far into the visible timeline the dump
	// commit may land and still count as "near the start".
	DumpEarlyFraction float64

	// DuplicateCutoff is the minimum matched fraction considered
	// non-trivial; DuplicateSaturation is the fraction at which the signal
	// saturates to full strength.
	DuplicateCutoff     float64
	DuplicateSaturation float64

	// RosterShareSaturation is the undeclared author's commit share at
	// which the contributor-mismatch signal saturates.
	RosterShareSaturation float64

	// Aliases maps alternate identities to canonical roster identities,
	// applied after case folding and whitespace trimming.
	Aliases map[string]string

	// CutPoints is the strength-to-severity mapping.
	CutPoints SeverityCutPoints
}

// DefaultEngineConfig returns an EngineConfig with documented defaults
// and the given hackathon window.
func DefaultEngineConfig(window HackathonWindow) EngineConfig {
	return EngineConfig{
		Window:                window,
		TimingCapFactor:       DefaultTimingCapFactor,
		TimingVolumeSat:       DefaultTimingVolumeSat,
		BurstRunLength:        DefaultBurstRunLength,
		BurstMaxGap:           DefaultBurstMaxGap,
		UniformMinRun:         DefaultUniformMinRun,
		UniformMaxCV:          DefaultUniformMaxCV,
		DumpFraction:          DefaultDumpFraction,
		DumpEarlyFraction:     DefaultDumpEarlyFraction,
		DuplicateCutoff:       DefaultDuplicateCutoff,
		DuplicateSaturation:   DefaultDuplicateSaturation,
		RosterShareSaturation: DefaultRosterShareSaturation,
		CutPoints:             DefaultCutPoints(),
	}
}

// Validate checks the call contract. A zero window or inverted bounds is
// a programming error on the caller's side.
func (c *EngineConfig) Validate() error {
	if c.Window.IsZero() {
		return errors.New("hackathon window is required")
	}
	if c.Window.End.Before(c.Window.Start) {
		return fmt.Errorf("hackathon window end (%s) precedes start (%s)",
			c.Window.End.Format(time.RFC3339), c.Window.Start.Format(time.RFC3339))
	}
	if c.BurstRunLength < 2 {
		return fmt.Errorf("burst run length must be at least 2 (received %d)", c.BurstRunLength)
	}
	if c.DumpFraction <= 0 || c.DumpFraction >= 1 {
		return fmt.Errorf("dump fraction must be in (0, 1) (received %.2f)", c.DumpFraction)
	}
	if c.DuplicateCutoff < 0 || c.DuplicateCutoff >= 1 {
		return fmt.Errorf("duplicate cutoff must be in [0, 1) (received %.2f)", c.DuplicateCutoff)
	}
	if c.CutPoints.Drop > c.CutPoints.Medium || c.CutPoints.Medium > c.CutPoints.High {
		return fmt.Errorf("severity cut points must be ordered drop <= medium <= high (received %.2f/%.2f/%.2f)",
			c.CutPoints.Drop, c.CutPoints.Medium, c.CutPoints.High)
	}
	return nil
}
