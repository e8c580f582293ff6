package core

import (
	"testing"
	"time"

	"github.com/hackwatch/hackwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testWindow is a 48-hour hackathon used across extractor tests.
var testWindow = schema.HackathonWindow{
	Start: time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC),
	End:   time.Date(2025, 6, 8, 18, 0, 0, 0, time.UTC),
}

func testContext(window schema.HackathonWindow, commits []schema.Commit) *analysisContext {
	cfg := schema.DefaultEngineConfig(window)
	return &analysisContext{timeline: commits, cfg: &cfg}
}

func commitAt(id string, at time.Time, added int) schema.Commit {
	return schema.Commit{ID: id, AuthoredAt: at, LinesAdded: added}
}

// TestExtractTimingInWindowIsSilent checks that commits inside the window,
// including both boundaries, produce no signal.
func TestExtractTimingInWindowIsSilent(t *testing.T) {
	commits := []schema.Commit{
		commitAt("start", testWindow.Start, 100),
		commitAt("middle", testWindow.Start.Add(24*time.Hour), 100),
		commitAt("end", testWindow.End, 100),
	}
	out := extractTiming(testContext(testWindow, commits))
	assert.Empty(t, out.signals)
	assert.Empty(t, out.warnings)
}

// TestExtractTimingEarlyCommit reproduces the pre-window scenario: one
// small commit nine days before a one-day window. Distance alone saturates
// the signal, but the volume discount keeps a 40-line commit in LOW.
func TestExtractTimingEarlyCommit(t *testing.T) {
	window := schema.HackathonWindow{
		Start: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	}
	commits := []schema.Commit{
		commitAt("early", window.Start.Add(-9*24*time.Hour), 40),
		commitAt("inside", window.Start.Add(6*time.Hour), 200),
	}

	out := extractTiming(testContext(window, commits))
	require.Len(t, out.signals, 1)

	sig := out.signals[0]
	assert.Equal(t, schema.KindTimingEarly, sig.Kind)
	assert.Equal(t, schema.CategoryTiming, sig.Category)
	assert.InDelta(t, 0.537, sig.Strength, 0.01)

	severity, keep := schema.DefaultCutPoints().SeverityFor(sig.Strength)
	require.True(t, keep)
	assert.Equal(t, schema.SeverityLow, severity)

	require.Len(t, sig.Evidence, 1)
	assert.Equal(t, "early", sig.Evidence[0].CommitID)
	assert.Contains(t, sig.Note, "9 days before the window")
}

// TestExtractTimingLateCommit checks the post-window direction and that a
// large late commit earns full strength.
func TestExtractTimingLateCommit(t *testing.T) {
	commits := []schema.Commit{
		commitAt("late", testWindow.End.Add(7*24*time.Hour), 5000),
	}
	out := extractTiming(testContext(testWindow, commits))
	require.Len(t, out.signals, 1)

	sig := out.signals[0]
	assert.Equal(t, schema.KindTimingLate, sig.Kind)
	assert.InDelta(t, 1.0, sig.Strength, 0.001)
	assert.Contains(t, sig.Note, "after the window")
}

// TestExtractTimingVolumeDiscount verifies a trivial out-of-window commit
// stays below the drop cut point.
func TestExtractTimingVolumeDiscount(t *testing.T) {
	commits := []schema.Commit{
		commitAt("tiny", testWindow.Start.Add(-30*24*time.Hour), 3),
	}
	out := extractTiming(testContext(testWindow, commits))
	require.Len(t, out.signals, 1)

	_, keep := schema.DefaultCutPoints().SeverityFor(out.signals[0].Strength)
	assert.False(t, keep)
}

// TestHumanDuration checks the rendering used in rationale text.
func TestHumanDuration(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{name: "seconds", d: 45 * time.Second, expected: "45 seconds"},
		{name: "one minute", d: 90 * time.Second, expected: "1 minute"},
		{name: "minutes", d: 5 * time.Minute, expected: "5 minutes"},
		{name: "one hour", d: 61 * time.Minute, expected: "1 hour"},
		{name: "hours", d: 7 * time.Hour, expected: "7 hours"},
		{name: "one day", d: 25 * time.Hour, expected: "1 day"},
		{name: "days", d: 9 * 24 * time.Hour, expected: "9 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanDuration(tt.d))
		})
	}
}
