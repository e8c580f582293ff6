package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/internal/iostore"
	"github.com/hackwatch/hackwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubHostClient serves canned commit histories keyed by repo URL.
type stubHostClient struct {
	mu       sync.Mutex
	commits  map[string][]schema.RawCommit
	warnings map[string][]string
	errs     map[string]error
	calls    map[string]int
}

func (s *stubHostClient) FetchCommits(_ context.Context, repoURL string) ([]schema.RawCommit, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[repoURL]++
	if err := s.errs[repoURL]; err != nil {
		return nil, s.warnings[repoURL], err
	}
	return s.commits[repoURL], s.warnings[repoURL], nil
}

func (s *stubHostClient) callCount(repoURL string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[repoURL]
}

// stubLoader returns a fixed writeup list.
type stubLoader struct {
	writeups []schema.Writeup
	err      error
}

func (s *stubLoader) LoadSubmissions(context.Context, string) ([]schema.Writeup, error) {
	return s.writeups, s.err
}

func testConfig() *contract.Config {
	window := schema.HackathonWindow{
		Start: time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 8, 18, 0, 0, 0, time.UTC),
	}
	return &contract.Config{
		Engine:  schema.DefaultEngineConfig(window),
		Workers: 4,
		Output:  schema.MarkdownOut,
	}
}

// inWindowCommits builds a quiet in-window history with distinct ids.
func inWindowCommits(prefix string, n int) []schema.RawCommit {
	commits := make([]schema.RawCommit, n)
	base := time.Date(2025, 6, 7, 9, 0, 0, 0, time.UTC)
	for i := range n {
		commits[i] = schema.RawCommit{
			ID:          fmt.Sprintf("%s-%d", prefix, i),
			AuthoredAt:  base.Add(time.Duration(i) * 2 * time.Hour).Format(time.RFC3339),
			AuthorName:  "Casey",
			AuthorEmail: "casey@example.com",
			LinesAdded:  40,
			Message:     "feat: incremental work",
		}
	}
	return commits
}

func TestRunProducesReportPerSubmission(t *testing.T) {
	specs := []contract.RepoSpec{
		{Team: "alpha", RepoURL: "https://github.com/alpha/app"},
		{Team: "beta", RepoURL: "https://github.com/beta/app"},
	}
	client := &stubHostClient{commits: map[string][]schema.RawCommit{
		"https://github.com/alpha/app": inWindowCommits("a", 5),
		"https://github.com/beta/app":  inWindowCommits("b", 3),
	}}

	reports, err := Run(context.Background(), specs, testConfig(), client, nil, nil)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	// Input order is preserved regardless of worker scheduling.
	assert.Equal(t, "alpha", reports[0].Team)
	assert.Equal(t, 5, reports[0].CommitsAnalyzed)
	assert.False(t, reports[0].Skipped)
	assert.Equal(t, "beta", reports[1].Team)
	assert.Equal(t, 3, reports[1].CommitsAnalyzed)
}

func TestRunEmptySpecs(t *testing.T) {
	_, err := Run(context.Background(), nil, testConfig(), &stubHostClient{}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no submissions found")
}

func TestRunFetchFailureProducesSkippedReport(t *testing.T) {
	specs := []contract.RepoSpec{
		{Team: "alpha", RepoURL: "https://github.com/alpha/app"},
		{Team: "beta", RepoURL: "https://github.com/beta/app"},
	}
	client := &stubHostClient{
		commits: map[string][]schema.RawCommit{
			"https://github.com/alpha/app": inWindowCommits("a", 5),
		},
		errs: map[string]error{
			"https://github.com/beta/app": errors.New("repo https://github.com/beta/app not found or unreachable"),
		},
	}

	reports, err := Run(context.Background(), specs, testConfig(), client, nil, nil)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.False(t, reports[0].Skipped)
	assert.True(t, reports[1].Skipped)
	require.NotEmpty(t, reports[1].Warnings)
	assert.Contains(t, reports[1].Warnings[0], "not found or unreachable")
}

func TestRunDuplicateHistoriesAreFlagged(t *testing.T) {
	shared := inWindowCommits("dup", 4)
	specs := []contract.RepoSpec{
		{Team: "alpha", RepoURL: "https://github.com/alpha/app"},
		{Team: "beta", RepoURL: "https://github.com/beta/app"},
	}
	client := &stubHostClient{commits: map[string][]schema.RawCommit{
		"https://github.com/alpha/app": shared,
		"https://github.com/beta/app":  shared,
	}}

	reports, err := Run(context.Background(), specs, testConfig(), client, nil, nil)
	require.NoError(t, err)

	for _, r := range reports {
		var found *schema.Flag
		for i := range r.Flags {
			if r.Flags[i].Category == schema.CategoryDuplicate {
				found = &r.Flags[i]
			}
		}
		require.NotNil(t, found, "duplicate flag missing for %s", r.Team)
		assert.Equal(t, schema.SeverityHigh, found.Severity)
	}
}

func TestRunRecordsFlagsInReportStore(t *testing.T) {
	shared := inWindowCommits("dup", 4)
	specs := []contract.RepoSpec{
		{Team: "alpha", RepoURL: "https://github.com/alpha/app"},
		{Team: "beta", RepoURL: "https://github.com/beta/app"},
	}
	client := &stubHostClient{commits: map[string][]schema.RawCommit{
		"https://github.com/alpha/app": shared,
		"https://github.com/beta/app":  shared,
	}}

	reportStore := &iostore.MockReportStore{}
	reportStore.On("BeginRun", mock.Anything, mock.Anything).Return(int64(7), nil)
	reportStore.On("RecordFlag", int64(7), mock.Anything, mock.Anything, mock.Anything).Return(nil)
	reportStore.On("EndRun", int64(7), mock.Anything, 2).Return(nil)

	mgr := &iostore.MockStoreManager{}
	mgr.On("GetFetchStore").Return(nil)
	mgr.On("GetReportStore").Return(reportStore)

	reports, err := Run(context.Background(), specs, testConfig(), client, nil, mgr)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	reportStore.AssertExpectations(t)
	reportStore.AssertNumberOfCalls(t, "RecordFlag", 2)
}

func TestRunTrackingFailureDegradesToWarning(t *testing.T) {
	specs := []contract.RepoSpec{{Team: "alpha", RepoURL: "https://github.com/alpha/app"}}
	client := &stubHostClient{commits: map[string][]schema.RawCommit{
		"https://github.com/alpha/app": inWindowCommits("a", 3),
	}}

	reportStore := &iostore.MockReportStore{}
	reportStore.On("BeginRun", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	mgr := &iostore.MockStoreManager{}
	mgr.On("GetFetchStore").Return(nil)
	mgr.On("GetReportStore").Return(reportStore)

	reports, err := Run(context.Background(), specs, testConfig(), client, nil, mgr)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	reportStore.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunUsesInputRoster(t *testing.T) {
	specs := []contract.RepoSpec{{
		Team:    "alpha",
		RepoURL: "https://github.com/alpha/app",
		Roster:  []string{"Casey"},
	}}
	client := &stubHostClient{commits: map[string][]schema.RawCommit{
		"https://github.com/alpha/app": inWindowCommits("a", 3),
	}}

	reports, err := Run(context.Background(), specs, testConfig(), client, nil, nil)
	require.NoError(t, err)

	// Casey authored every commit, so no contributor flag appears.
	for _, f := range reports[0].Flags {
		assert.NotEqual(t, schema.CategoryContributors, f.Category)
	}
}

func TestRunWriteupEnrichment(t *testing.T) {
	specs := []contract.RepoSpec{{Team: "alpha", RepoURL: "https://github.com/alpha/app"}}
	client := &stubHostClient{commits: map[string][]schema.RawCommit{
		"https://github.com/alpha/app": inWindowCommits("a", 3),
	}}
	loader := &stubLoader{writeups: []schema.Writeup{{
		Title:       "Transit Hero",
		Description: "We built a realtime dashboard with PostgreSQL and Redis clustering.",
		TeamMembers: []string{"Riley"},
		Links:       []string{"https://github.com/alpha/app.git"},
		TechStack:   []string{"PostgreSQL", "Redis"},
		Source:      "https://devpost.com/software/transit-hero",
	}}}

	cfg := testConfig()
	cfg.DevpostSource = "https://devpost.com/software/transit-hero"

	reports, err := Run(context.Background(), specs, cfg, client, loader, nil)
	require.NoError(t, err)

	// Writeup claims PostgreSQL and Redis; commits show neither. The
	// writeup extractor should have run instead of warning about a
	// missing writeup.
	for _, w := range reports[0].Warnings {
		assert.NotContains(t, w, "skipped writeup-mismatch check")
	}
}

func TestRunLoaderFailureIsNonFatal(t *testing.T) {
	specs := []contract.RepoSpec{{Team: "alpha", RepoURL: "https://github.com/alpha/app"}}
	client := &stubHostClient{commits: map[string][]schema.RawCommit{
		"https://github.com/alpha/app": inWindowCommits("a", 3),
	}}

	cfg := testConfig()
	cfg.DevpostSource = "submissions.csv"

	reports, err := Run(context.Background(), specs, cfg, client, &stubLoader{err: errors.New("boom")}, nil)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Skipped)
}

func TestBuildReferenceSets(t *testing.T) {
	specs := []contract.RepoSpec{
		{Team: "alpha", RepoURL: "https://github.com/alpha/app"},
		{Team: "beta", RepoURL: "https://github.com/beta/app"},
		{Team: "gamma", RepoURL: "https://github.com/gamma/app"},
	}
	fetches := []fetchResult{
		{commits: []schema.RawCommit{{ID: "a-1"}, {ID: "a-2"}}},
		{commits: []schema.RawCommit{{ID: "b-1"}}},
		{err: errors.New("unreachable")},
	}

	refs := buildReferenceSets(specs, fetches)
	require.Len(t, refs, 3)

	// Alpha references beta's commits only; the failed fetch contributes
	// nothing and a submission never references itself.
	require.NotNil(t, refs[0])
	assert.Equal(t, map[string]string{"b-1": "https://github.com/beta/app"}, refs[0].CommitIDs)

	require.NotNil(t, refs[1])
	assert.Equal(t, "https://github.com/alpha/app", refs[1].CommitIDs["a-1"])
	assert.NotContains(t, refs[1].CommitIDs, "b-1")
}

func TestCachedFetchCommitsHit(t *testing.T) {
	commits := inWindowCommits("a", 2)
	data, err := json.Marshal(commits)
	require.NoError(t, err)

	store := &iostore.MockFetchStore{}
	key := generateCacheKey("https://github.com/alpha/app")
	store.On("Get", key).Return(data, currentCacheVersion, time.Now().Unix(), nil)

	client := &stubHostClient{}
	result := cachedFetchCommits(context.Background(), "https://github.com/alpha/app", client, store)

	require.NoError(t, result.err)
	assert.Equal(t, commits, result.commits)
	assert.Equal(t, 0, client.callCount("https://github.com/alpha/app"))
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedFetchCommitsStaleEntryRefetches(t *testing.T) {
	commits := inWindowCommits("a", 2)
	data, err := json.Marshal(commits)
	require.NoError(t, err)

	store := &iostore.MockFetchStore{}
	key := generateCacheKey("https://github.com/alpha/app")
	stale := time.Now().Add(-2 * maxCacheAge).Unix()
	store.On("Get", key).Return(data, currentCacheVersion, stale, nil)
	store.On("Set", key, mock.Anything, currentCacheVersion, mock.Anything).Return(nil)

	client := &stubHostClient{commits: map[string][]schema.RawCommit{
		"https://github.com/alpha/app": commits,
	}}
	result := cachedFetchCommits(context.Background(), "https://github.com/alpha/app", client, store)

	require.NoError(t, result.err)
	assert.Equal(t, 1, client.callCount("https://github.com/alpha/app"))
	store.AssertExpectations(t)
}

func TestCachedFetchCommitsErrorNotCached(t *testing.T) {
	store := &iostore.MockFetchStore{}
	key := generateCacheKey("https://github.com/alpha/app")
	store.On("Get", key).Return([]byte(nil), 0, int64(0), errors.New("no rows"))

	client := &stubHostClient{errs: map[string]error{
		"https://github.com/alpha/app": errors.New("access denied"),
	}}
	result := cachedFetchCommits(context.Background(), "https://github.com/alpha/app", client, store)

	require.Error(t, result.err)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMatchWriteup(t *testing.T) {
	writeups := []schema.Writeup{
		{Title: "alpha", Links: []string{"https://github.com/other/app"}},
		{Title: "Transit Hero", Links: []string{"https://github.com/alpha/app.git"}},
	}

	tests := []struct {
		name     string
		spec     contract.RepoSpec
		expected string
	}{
		{
			name:     "repo link wins over title",
			spec:     contract.RepoSpec{Team: "alpha", RepoURL: "https://github.com/alpha/app"},
			expected: "Transit Hero",
		},
		{
			name:     "title fallback",
			spec:     contract.RepoSpec{Team: "Alpha", RepoURL: "https://github.com/nowhere/app"},
			expected: "alpha",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := matchWriteup(tt.spec, writeups)
			require.NotNil(t, matched)
			assert.Equal(t, tt.expected, matched.Title)
		})
	}

	assert.Nil(t, matchWriteup(contract.RepoSpec{Team: "nobody", RepoURL: "https://github.com/none/app"}, writeups))
}

func TestNormalizeRepoURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"git suffix", "https://github.com/a/b.git", "github.com/a/b"},
		{"trailing slash", "https://github.com/a/b/", "github.com/a/b"},
		{"www and case", "HTTP://WWW.GitHub.com/A/B", "github.com/a/b"},
		{"already clean", "gitlab.com/g/p", "gitlab.com/g/p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeRepoURL(tt.raw))
		})
	}
}
