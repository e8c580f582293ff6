package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/hackwatch/hackwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitsEvery(n int, start time.Time, gap time.Duration) []schema.Commit {
	commits := make([]schema.Commit, 0, n)
	for i := 0; i < n; i++ {
		commits = append(commits, commitAt(fmt.Sprintf("c%03d", i), start.Add(time.Duration(i)*gap), 10))
	}
	return commits
}

// TestExtractBurstTooFewCommits verifies the silent abstain: fewer than two
// in-window commits means no intervals and no output of any kind.
func TestExtractBurstTooFewCommits(t *testing.T) {
	tests := []struct {
		name    string
		commits []schema.Commit
	}{
		{name: "empty timeline", commits: nil},
		{name: "single commit", commits: []schema.Commit{commitAt("only", testWindow.Start.Add(time.Hour), 10)}},
		{
			name: "two commits but one outside the window",
			commits: []schema.Commit{
				commitAt("early", testWindow.Start.Add(-time.Hour), 10),
				commitAt("inside", testWindow.Start.Add(time.Hour), 10),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := extractBurst(testContext(testWindow, tt.commits))
			assert.Empty(t, out.signals)
			assert.Empty(t, out.warnings)
		})
	}
}

// TestExtractBurstShortRunBelowThreshold checks that three rapid commits do
// not fire when the configured minimum run length is five.
func TestExtractBurstShortRunBelowThreshold(t *testing.T) {
	commits := commitsEvery(3, testWindow.Start.Add(time.Hour), time.Second)
	out := extractBurst(testContext(testWindow, commits))
	assert.Empty(t, out.signals)
}

// TestExtractBurstRapidRun checks a run at the minimum length and one long
// enough to saturate strength.
func TestExtractBurstRapidRun(t *testing.T) {
	tests := []struct {
		name         string
		runLen       int
		wantStrength float64
	}{
		{name: "minimum run", runLen: 5, wantStrength: 0.5},
		{name: "saturated run", runLen: 12, wantStrength: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commits := commitsEvery(tt.runLen, testWindow.Start.Add(time.Hour), 2*time.Second)
			out := extractBurst(testContext(testWindow, commits))

			var rapid []schema.Signal
			for _, sig := range out.signals {
				if sig.Kind == schema.KindBurstRapid {
					rapid = append(rapid, sig)
				}
			}
			require.Len(t, rapid, 1)
			assert.InDelta(t, tt.wantStrength, rapid[0].Strength, 0.001)
			assert.Equal(t, schema.CategoryBurst, rapid[0].Category)
			require.Len(t, rapid[0].Evidence, 2)
			assert.Equal(t, "c000", rapid[0].Evidence[0].CommitID)
		})
	}
}

// TestExtractBurstRunBrokenByGap verifies a large gap splits the sequence
// into runs too short to flag.
func TestExtractBurstRunBrokenByGap(t *testing.T) {
	start := testWindow.Start.Add(time.Hour)
	commits := commitsEvery(3, start, time.Second)
	commits = append(commits, commitsEvery(3, start.Add(2*time.Hour), time.Second)...)
	for i := 3; i < 6; i++ {
		commits[i].ID = fmt.Sprintf("d%03d", i)
	}

	out := extractBurst(testContext(testWindow, commits))
	for _, sig := range out.signals {
		assert.NotEqual(t, schema.KindBurstRapid, sig.Kind)
	}
}

// TestExtractBurstUniformSpacing checks the mechanical-uniformity signal on
// perfectly even intervals well above the rapid-gap cutoff.
func TestExtractBurstUniformSpacing(t *testing.T) {
	commits := commitsEvery(10, testWindow.Start.Add(time.Hour), 10*time.Minute)
	out := extractBurst(testContext(testWindow, commits))

	require.Len(t, out.signals, 1)
	sig := out.signals[0]
	assert.Equal(t, schema.KindBurstUniform, sig.Kind)
	assert.InDelta(t, 1.0, sig.Strength, 0.001)
	assert.Contains(t, sig.Note, "spaced almost identically")
}

// TestExtractBurstIrregularSpacingIsSilent verifies naturally varied
// intervals produce no uniformity signal.
func TestExtractBurstIrregularSpacingIsSilent(t *testing.T) {
	gaps := []time.Duration{
		5 * time.Minute, 40 * time.Minute, 2 * time.Hour, 10 * time.Minute,
		90 * time.Minute, 25 * time.Minute, 3 * time.Hour, 15 * time.Minute,
	}
	at := testWindow.Start.Add(time.Hour)
	commits := []schema.Commit{commitAt("c000", at, 10)}
	for i, gap := range gaps {
		at = at.Add(gap)
		commits = append(commits, commitAt(fmt.Sprintf("c%03d", i+1), at, 10))
	}

	out := extractBurst(testContext(testWindow, commits))
	assert.Empty(t, out.signals)
}
