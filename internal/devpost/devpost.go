// Package devpost loads submission writeups from Devpost CSV exports and
// public project pages.
package devpost

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hackwatch/hackwatch/schema"
)

// requestTimeout bounds the project-page fetch.
const requestTimeout = 30 * time.Second

// untitledSubmission is used when no title field is present.
const untitledSubmission = "(untitled submission)"

// Candidate header names per field. Devpost export layouts vary by
// hackathon, so each field probes several known spellings.
var (
	titleCandidates       = []string{"project title", "title", "project", "submission title"}
	descriptionCandidates = []string{"about the project", "description", "summary"}
	trackCandidates       = []string{"selected track", "track", "opt-in prizes", "prize category"}
	submittedAtCandidates = []string{"submitted at", "submission timestamp", "project created at", "created at"}
	memberCandidates      = []string{"team members", "project members", "member names", "participants"}
	memberEmailCandidates = []string{"team member emails", "participant emails", "participants email"}
	repoCandidates        = []string{"try it out links", "try it out", "repository", "repo url", "code url", "github", "gitlab"}
	projectURLCandidates  = []string{"project url", "submission url"}
)

var (
	keyNormalizePattern = regexp.MustCompile(`[^a-z0-9]+`)
	listSplitPattern    = regexp.MustCompile(`[;\n|,]+`)
	urlPattern          = regexp.MustCompile(`https?://[^\s"'<>]+`)
)

// Loader retrieves submission writeups. The HTTP client is only used for
// URL sources.
type Loader struct {
	httpClient *http.Client
}

// NewLoader returns a Loader with the default request timeout.
func NewLoader() *Loader {
	return &Loader{httpClient: &http.Client{Timeout: requestTimeout}}
}

// LoadSubmissions loads writeups from a Devpost source. A URL source
// fetches and scrapes a single project page; a .csv path parses a bulk
// export.
func (l *Loader) LoadSubmissions(ctx context.Context, source string) ([]schema.Writeup, error) {
	source = strings.TrimSpace(source)
	if looksLikeURL(source) {
		w, err := l.loadFromURL(ctx, source)
		if err != nil {
			return nil, err
		}
		return []schema.Writeup{w}, nil
	}

	if strings.ToLower(filepath.Ext(source)) != ".csv" {
		return nil, fmt.Errorf("unsupported submission source for %s; expected .csv or URL", source)
	}

	fh, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("submission source not found: %w", err)
	}
	defer fh.Close()

	return parseCSVWriteups(fh, source)
}

func parseCSVWriteups(fh io.Reader, source string) ([]schema.Writeup, error) {
	reader := csv.NewReader(fh)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header from %s: %w", source, err)
	}

	normalized := make([]string, len(header))
	for i, name := range header {
		normalized[i] = normalizeKey(name)
	}

	var writeups []schema.Writeup
	for idx := 1; ; idx++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV row at %s:%d: %w", source, idx, err)
		}

		row := make(map[string]string, len(record))
		for i, value := range record {
			if i < len(normalized) {
				row[normalized[i]] = strings.TrimSpace(value)
			}
		}
		writeups = append(writeups, rowToWriteup(row, source))
	}
	return writeups, nil
}

func rowToWriteup(row map[string]string, source string) schema.Writeup {
	memberBlob := joinNonEmpty(
		firstNonEmpty(row, memberCandidates...),
		firstNonEmpty(row, memberEmailCandidates...),
	)
	repoBlob := joinNonEmpty(
		firstNonEmpty(row, repoCandidates...),
		firstNonEmpty(row, projectURLCandidates...),
	)

	title := firstNonEmpty(row, titleCandidates...)
	if title == "" {
		title = untitledSubmission
	}

	return schema.Writeup{
		Title:       title,
		Description: firstNonEmpty(row, descriptionCandidates...),
		Track:       firstNonEmpty(row, trackCandidates...),
		TeamMembers: splitListField(memberBlob),
		Links:       extractRepoURLs(repoBlob),
		SubmittedAt: firstNonEmpty(row, submittedAtCandidates...),
		Source:      source,
	}
}

// firstNonEmpty returns the first non-empty value among candidate header
// names. Keys in row are already normalized.
func firstNonEmpty(row map[string]string, candidates ...string) string {
	for _, key := range candidates {
		if value := row[normalizeKey(key)]; value != "" {
			return value
		}
	}
	return ""
}

func normalizeKey(value string) string {
	return strings.TrimSpace(keyNormalizePattern.ReplaceAllString(strings.ToLower(value), " "))
}

// splitListField splits a list blob on semicolons, newlines, pipes and
// commas, trimming and case-insensitively deduplicating entries.
func splitListField(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	seen := map[string]bool{}
	for _, part := range listSplitPattern.Split(value, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lowered := strings.ToLower(part)
		if seen[lowered] {
			continue
		}
		seen[lowered] = true
		items = append(items, part)
	}
	return items
}

func joinNonEmpty(values ...string) string {
	var parts []string
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

// extractRepoURLs pulls URLs from a text blob and keeps only GitHub and
// GitLab repository links, deduplicated in order.
func extractRepoURLs(value string) []string {
	var repos []string
	seen := map[string]bool{}
	for _, raw := range extractURLs(value) {
		parsed, err := url.Parse(raw)
		if err != nil {
			continue
		}
		host := strings.ToLower(parsed.Host)
		if host == "" {
			continue
		}
		if !strings.Contains(host, "github.com") && !strings.Contains(host, "gitlab") {
			continue
		}
		if seen[raw] {
			continue
		}
		seen[raw] = true
		repos = append(repos, raw)
	}
	return repos
}

// extractURLs finds http(s) URLs in free text, stripping trailing
// punctuation that commonly follows pasted links.
func extractURLs(value string) []string {
	if value == "" {
		return nil
	}
	matches := urlPattern.FindAllString(value, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, strings.TrimRight(m, ").,;"))
	}
	return urls
}

func looksLikeURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
