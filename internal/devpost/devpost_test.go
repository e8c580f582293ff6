package devpost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectPageFixture = `<!DOCTYPE html>
<html>
<head>
<title>Transit Hero | Devpost</title>
<meta property="og:title" content="Transit Hero" />
<meta name="description" content="Realtime transit assistant for riders." />
</head>
<body>
<div id="submissions" class="software-list">
  <ul><li><a href="/hackathons/city-hacks-2026">City Hacks 2026 - Mobility</a></li></ul>
</div>
<section id="app-team" class="app-team">
  <ul>
    <li><a class="user-profile-link" href="/alexkim">Alex Kim</a></li>
    <li><a class="user-profile-link" href="/patlee">Pat  Lee</a></li>
    <li><a class="user-profile-link" href="/alexkim">Alex Kim</a></li>
  </ul>
</section>
<ul data-role="software-urls" class="app-links">
  <li><a href="https://github.com/acme/transit-hero">GitHub Repo</a></li>
  <li><a href="https://transit-hero.example.com">Live Demo</a></li>
</ul>
<time datetime="2026-02-20T12:34:56-05:00">Feb 20, 2026</time>
</body>
</html>`

func writeCSVFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "submissions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSubmissionsFromCSV(t *testing.T) {
	path := writeCSVFixture(t,
		`Project Title,About The Project,Selected Track,Team Members,Try It Out Links,Submitted At
RoadSafe AI,AI co-pilot for safer street design,Mobility,Alex Kim; Pat Lee,"https://github.com/example/roadsafe-ai, https://roadsafe.example.com",2026-02-20T10:30:00-05:00
OpenBudget Lens,Budget explorer,Civic Tech,Sam Wu,https://gitlab.com/civic/openbudget-lens,2026-02-20T11:00:00-05:00
`)

	writeups, err := NewLoader().LoadSubmissions(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, writeups, 2)

	first := writeups[0]
	assert.Equal(t, "RoadSafe AI", first.Title)
	assert.Equal(t, "AI co-pilot for safer street design", first.Description)
	assert.Equal(t, "Mobility", first.Track)
	assert.Equal(t, []string{"Alex Kim", "Pat Lee"}, first.TeamMembers)
	assert.Equal(t, []string{"https://github.com/example/roadsafe-ai"}, first.Links)
	assert.Equal(t, "2026-02-20T10:30:00-05:00", first.SubmittedAt)
	assert.Equal(t, path, first.Source)

	second := writeups[1]
	assert.Equal(t, []string{"https://gitlab.com/civic/openbudget-lens"}, second.Links)
}

func TestLoadSubmissionsAlternateHeaders(t *testing.T) {
	// Export layouts vary per hackathon, so field lookup is fuzzy.
	path := writeCSVFixture(t,
		`Title,Summary,Prize Category,Participants,Repo URL,Created At
Budget Bot,Chat for budgets,Open Data,Dana Cruz|Lee Park,https://github.com/a/b.git,2026-02-19
`)

	writeups, err := NewLoader().LoadSubmissions(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, writeups, 1)

	w := writeups[0]
	assert.Equal(t, "Budget Bot", w.Title)
	assert.Equal(t, "Chat for budgets", w.Description)
	assert.Equal(t, "Open Data", w.Track)
	assert.Equal(t, []string{"Dana Cruz", "Lee Park"}, w.TeamMembers)
	assert.Equal(t, []string{"https://github.com/a/b.git"}, w.Links)
}

func TestLoadSubmissionsMissingFields(t *testing.T) {
	path := writeCSVFixture(t,
		`Project Title,Irrelevant Column
,half-filled row
`)

	writeups, err := NewLoader().LoadSubmissions(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, writeups, 1)

	w := writeups[0]
	assert.Equal(t, "(untitled submission)", w.Title)
	assert.Empty(t, w.Description)
	assert.Empty(t, w.Track)
	assert.Empty(t, w.TeamMembers)
	assert.Empty(t, w.Links)
	assert.Empty(t, w.SubmittedAt)
}

func TestLoadSubmissionsUnsupportedSource(t *testing.T) {
	_, err := NewLoader().LoadSubmissions(context.Background(), "submissions.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected .csv or URL")
}

func TestLoadSubmissionsFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(projectPageFixture))
	}))
	defer server.Close()

	writeups, err := NewLoader().LoadSubmissions(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, writeups, 1)

	w := writeups[0]
	assert.Equal(t, "Transit Hero", w.Title)
	assert.Equal(t, "Realtime transit assistant for riders.", w.Description)
	assert.Equal(t, "City Hacks 2026 - Mobility", w.Track)
	assert.Equal(t, []string{"Alex Kim", "Pat Lee"}, w.TeamMembers)
	assert.Equal(t, []string{"https://github.com/acme/transit-hero"}, w.Links)
	assert.Equal(t, "2026-02-20T12:34:56-05:00", w.SubmittedAt)
	assert.Equal(t, server.URL, w.Source)
}

func TestLoadSubmissionsFromURLErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewLoader().LoadSubmissions(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestScrapeProjectPageFallsBackToTitleTag(t *testing.T) {
	page := `<html><head><title>  Fallback   Title | Devpost </title></head><body></body></html>`
	w := scrapeProjectPage(page, "https://devpost.example/software/x")
	assert.Equal(t, "Fallback Title | Devpost", w.Title)
}

func TestExtractRepoURLs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "strips trailing punctuation",
			input: "See https://github.com/a/b), and https://gitlab.com/c/d.",
			want:  []string{"https://github.com/a/b", "https://gitlab.com/c/d"},
		},
		{
			name:  "filters non-repo hosts",
			input: "https://example.com/demo https://github.com/a/b",
			want:  []string{"https://github.com/a/b"},
		},
		{
			name:  "dedupes in order",
			input: "https://github.com/a/b https://github.com/a/b",
			want:  []string{"https://github.com/a/b"},
		},
		{name: "empty", input: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractRepoURLs(tt.input))
		})
	}
}

func TestSplitListField(t *testing.T) {
	got := splitListField("Alex Kim; Pat Lee\nalex kim, Sam Wu|Pat Lee")
	assert.Equal(t, []string{"Alex Kim", "Pat Lee", "Sam Wu"}, got)
}
