package core

import (
	"testing"
	"time"

	"github.com/hackwatch/hackwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractDuplicateOriginSkipsWithoutReferences checks the missing
// optional input policy: one warning, no signals.
func TestExtractDuplicateOriginSkipsWithoutReferences(t *testing.T) {
	tests := []struct {
		name string
		refs *schema.ReferenceSet
	}{
		{name: "nil reference set", refs: nil},
		{name: "empty reference set", refs: &schema.ReferenceSet{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testContext(testWindow, commitsEvery(3, testWindow.Start.Add(time.Hour), time.Hour))
			in.refs = tt.refs
			out := extractDuplicateOrigin(in)
			assert.Empty(t, out.signals)
			require.Len(t, out.warnings, 1)
			assert.Equal(t, "skipped duplicate-origin check: no reference repositories provided", out.warnings[0])
		})
	}
}

// TestExtractDuplicateOriginSharedCommits checks the shared-history signal
// saturates at half the timeline matching.
func TestExtractDuplicateOriginSharedCommits(t *testing.T) {
	commits := commitsEvery(4, testWindow.Start.Add(time.Hour), time.Hour)
	in := testContext(testWindow, commits)
	in.refs = &schema.ReferenceSet{
		CommitIDs: map[string]string{
			"c000": "team-rocket/app",
			"c001": "team-rocket/app",
		},
	}

	out := extractDuplicateOrigin(in)
	require.Len(t, out.signals, 1)

	sig := out.signals[0]
	assert.Equal(t, schema.KindDuplicateCommit, sig.Kind)
	assert.Equal(t, schema.CategoryDuplicate, sig.Category)
	assert.InDelta(t, 1.0, sig.Strength, 0.001) // 50% matched, saturation is 0.5
	require.Len(t, sig.Evidence, 2)
	assert.Equal(t, "c000", sig.Evidence[0].CommitID)
	assert.Equal(t, "also present in team-rocket/app", sig.Evidence[0].Detail)
	assert.Contains(t, sig.Note, "2 of 4 commits")
}

// TestExtractDuplicateOriginBelowCutoff verifies a trivial overlap stays
// silent rather than producing a weak flag.
func TestExtractDuplicateOriginBelowCutoff(t *testing.T) {
	commits := commitsEvery(20, testWindow.Start.Add(time.Hour), time.Hour)
	in := testContext(testWindow, commits)
	in.refs = &schema.ReferenceSet{
		CommitIDs: map[string]string{"c000": "boilerplate/starter"},
	}

	out := extractDuplicateOrigin(in)
	assert.Empty(t, out.signals) // 5% matched, cutoff is 10%
	assert.Empty(t, out.warnings)
}

// TestExtractDuplicateOriginSharedContent checks the fingerprint path:
// identical files with distinct commit histories.
func TestExtractDuplicateOriginSharedContent(t *testing.T) {
	commits := commitsEvery(4, testWindow.Start.Add(time.Hour), time.Hour)
	in := testContext(testWindow, commits)
	in.hashes = map[string]string{
		"src/app.py":   "hash-a",
		"src/model.py": "hash-b",
		"README.md":    "hash-c",
		"setup.py":     "hash-d",
	}
	in.refs = &schema.ReferenceSet{
		FileHashes: map[string]string{
			"hash-a": "team-zeta/app",
			"hash-b": "team-zeta/app",
		},
	}

	out := extractDuplicateOrigin(in)
	require.Len(t, out.signals, 1)

	sig := out.signals[0]
	assert.Equal(t, schema.KindDuplicateContent, sig.Kind)
	assert.InDelta(t, 1.0, sig.Strength, 0.001)
	require.Len(t, sig.Evidence, 2)
	assert.Equal(t, "src/app.py", sig.Evidence[0].Path)
	assert.Equal(t, "src/model.py", sig.Evidence[1].Path)
	assert.Contains(t, sig.Note, "2 of 4 tracked files")
}

// TestExtractDuplicateOriginBothKinds verifies shared history and shared
// content report independently.
func TestExtractDuplicateOriginBothKinds(t *testing.T) {
	commits := commitsEvery(2, testWindow.Start.Add(time.Hour), time.Hour)
	in := testContext(testWindow, commits)
	in.hashes = map[string]string{"main.go": "hash-x"}
	in.refs = &schema.ReferenceSet{
		CommitIDs:  map[string]string{"c000": "team-zeta/app"},
		FileHashes: map[string]string{"hash-x": "team-zeta/app"},
	}

	out := extractDuplicateOrigin(in)
	require.Len(t, out.signals, 2)
	assert.Equal(t, schema.KindDuplicateCommit, out.signals[0].Kind)
	assert.Equal(t, schema.KindDuplicateContent, out.signals[1].Kind)
}
