package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReports() []*schema.AnalysisReport {
	return []*schema.AnalysisReport{
		{
			Team:            "beta squad",
			RepoURL:         "https://github.com/beta/app",
			CommitsAnalyzed: 40,
			Flags: []schema.Flag{
				{
					Severity:  schema.SeverityMedium,
					Category:  schema.CategoryBurst,
					Rationale: "12 commits landed within 30 seconds",
					Evidence:  []schema.Evidence{{CommitID: "c1d2e3f", Detail: "run of 12"}},
				},
			},
		},
		{
			Team:            "alpha",
			RepoURL:         "https://github.com/alpha/app",
			CommitsAnalyzed: 25,
			Flags: []schema.Flag{
				{
					Severity:  schema.SeverityHigh,
					Category:  schema.CategoryTiming,
					Rationale: "most work predates the hackathon window",
					Evidence:  []schema.Evidence{{CommitID: "a1b2c3d"}},
				},
				{
					Severity:  schema.SeverityLow,
					Category:  schema.CategoryWriteup,
					Rationale: "claimed stack not visible in repo files",
				},
			},
			Warnings: []string{"commit details missing for 1 commit"},
		},
		{
			Team:            "gamma",
			RepoURL:         "https://github.com/gamma/app",
			CommitsAnalyzed: 18,
		},
		{
			Team:     "delta",
			RepoURL:  "https://gitlab.com/delta/app",
			Skipped:  true,
			Warnings: []string{"repository may be private"},
		},
	}
}

func TestSortReports(t *testing.T) {
	ordered := sortReports(sampleReports())

	var teams []string
	for _, r := range ordered {
		teams = append(teams, r.Team)
	}
	// Worst severity first, clean reports last in team order.
	assert.Equal(t, []string{"alpha", "beta squad", "delta", "gamma"}, teams)
}

func TestSortReportsDoesNotMutateInput(t *testing.T) {
	reports := sampleReports()
	_ = sortReports(reports)
	assert.Equal(t, "beta squad", reports[0].Team)
}

func TestFormatEvidence(t *testing.T) {
	tests := []struct {
		name     string
		evidence schema.Evidence
		expected string
	}{
		{
			name:     "commit with detail",
			evidence: schema.Evidence{CommitID: "a1b2c3d", Detail: "run of 12"},
			expected: "commit a1b2c3d (run of 12)",
		},
		{
			name:     "identity only",
			evidence: schema.Evidence{Identity: "casey"},
			expected: "identity casey",
		},
		{
			name:     "path only",
			evidence: schema.Evidence{Path: "cmd/main.go"},
			expected: "path cmd/main.go",
		},
		{
			name:     "empty",
			evidence: schema.Evidence{},
			expected: "no detail recorded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatEvidence(tt.evidence))
		})
	}
}

func TestWriteJSONResultsForReports(t *testing.T) {
	ordered := sortReports(sampleReports())

	var buf bytes.Buffer
	err := writeJSONResultsForReports(&buf, ordered)
	require.NoError(t, err)

	// Parse the JSON to verify structure
	var result []map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	require.Len(t, result, 4)

	assert.Equal(t, "alpha", result[0]["team"])
	assert.Equal(t, "HIGH", result[0]["label"])
	assert.Equal(t, float64(25), result[0]["commits_analyzed"])

	assert.Equal(t, "delta", result[2]["team"])
	assert.Equal(t, "CLEAN", result[2]["label"])
	assert.Equal(t, true, result[2]["skipped"])
}

func TestWriteCSVResultsForReports(t *testing.T) {
	ordered := sortReports(sampleReports())

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForReports(w, ordered)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// alpha has two flags; the other three reports get one row each.
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], "alpha")
	assert.Contains(t, lines[0], "timing")
	assert.Contains(t, lines[0], "HIGH")
	assert.Contains(t, lines[1], "writeup")
	assert.Contains(t, lines[1], "LOW")
	assert.Contains(t, lines[2], "beta squad")
	assert.Contains(t, lines[2], "burst")

	// Skipped report keeps the empty flag columns.
	assert.Contains(t, lines[3], "delta")
	assert.Contains(t, lines[3], "true")
	assert.Contains(t, lines[4], "gamma")
}

func TestWriteReportTable(t *testing.T) {
	ordered := sortReports(sampleReports())
	cfg := &contract.Config{
		Workers:      4,
		CacheBackend: schema.SQLiteBackend,
		Width:        120,
	}

	var buf bytes.Buffer
	err := writeReportTable(ordered, cfg, 2*time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "MEDIUM")
	assert.Contains(t, out, "CLEAN")
	assert.Contains(t, out, "Analyzed 4 submissions (2 flagged, 1 skipped)")
	assert.Contains(t, out, "4 workers")
	assert.Contains(t, out, "sqlite")
}

func TestWriteReportsUnknownModeFallsBackToMarkdown(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &contract.Config{
		Output:    schema.MarkdownOut,
		OutputDir: tmpDir,
	}

	err := WriteReports(sampleReports(), cfg, time.Second)
	require.NoError(t, err)

	assert.FileExists(t, tmpDir+"/index.md")
	assert.FileExists(t, tmpDir+"/alpha.md")
}
