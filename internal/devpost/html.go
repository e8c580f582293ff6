package devpost

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/hackwatch/hackwatch/schema"
)

// Scraping patterns for Devpost project pages. The page markup is stable
// enough that targeted regular expressions beat a full HTML parser here.
var (
	titleTagPattern = regexp.MustCompile(`(?is)<title>(.*?)</title>`)
	// Go's regexp caps a single repeat count at 1000, so the lazy 0-2000
	// character window is written as two concatenated lazy 0-1000 repeats.
	submittedToPattern  = regexp.MustCompile(`(?i)<div id="submissions"[^>]*>[\s\S]{0,1000}?[\s\S]{0,1000}?<a [^>]*>([^<]+)</a>`)
	teamSectionPattern  = regexp.MustCompile(`(?is)<section id="app-team".*?</section>`)
	memberLinkPattern   = regexp.MustCompile(`(?i)<a class="user-profile-link"[^>]*>([^<]+)</a>`)
	softwareURLsPattern = regexp.MustCompile(`(?is)<ul data-role="software-urls".*?</ul>`)
	datetimePattern     = regexp.MustCompile(`(?i)<time[^>]+datetime="([^"]+)"`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// loadFromURL fetches a Devpost project page and scrapes the writeup.
func (l *Loader) loadFromURL(ctx context.Context, pageURL string) (schema.Writeup, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return schema.Writeup{}, err
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return schema.Writeup{}, fmt.Errorf("failed to fetch submission page %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return schema.Writeup{}, fmt.Errorf("submission page %s returned status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return schema.Writeup{}, fmt.Errorf("failed to read submission page %s: %w", pageURL, err)
	}

	return scrapeProjectPage(string(body), pageURL), nil
}

func scrapeProjectPage(page, pageURL string) schema.Writeup {
	title := extractMetaContent(page, "property", "og:title")
	if title == "" {
		title = extractTitleTag(page)
	}
	if title == "" {
		title = untitledSubmission
	}

	return schema.Writeup{
		Title:       title,
		Description: extractMetaContent(page, "name", "description"),
		Track:       extractSubmittedTo(page),
		TeamMembers: extractTeamMembers(page),
		Links:       extractRepoURLsFromHTML(page),
		SubmittedAt: extractDatetime(page),
		Source:      pageURL,
	}
}

func extractMetaContent(page, attrName, attrValue string) string {
	pattern := fmt.Sprintf(`(?i)<meta[^>]+%s\s*=\s*["']%s["'][^>]*content\s*=\s*["']([^"']*)["']`,
		attrName, regexp.QuoteMeta(attrValue))
	match := regexp.MustCompile(pattern).FindStringSubmatch(page)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(match[1]))
}

func extractTitleTag(page string) string {
	match := titleTagPattern.FindStringSubmatch(page)
	if match == nil {
		return ""
	}
	return cleanText(match[1])
}

func extractSubmittedTo(page string) string {
	match := submittedToPattern.FindStringSubmatch(page)
	if match == nil {
		return ""
	}
	return cleanText(match[1])
}

func extractTeamMembers(page string) []string {
	section := teamSectionPattern.FindString(page)
	if section == "" {
		return nil
	}

	var names []string
	seen := map[string]bool{}
	for _, match := range memberLinkPattern.FindAllStringSubmatch(section, -1) {
		name := cleanText(match[1])
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}

func extractRepoURLsFromHTML(page string) []string {
	nav := softwareURLsPattern.FindString(page)
	if nav == "" {
		return nil
	}
	return extractRepoURLs(strings.Join(extractURLs(nav), " "))
}

func extractDatetime(page string) string {
	match := datetimePattern.FindStringSubmatch(page)
	if match == nil {
		return ""
	}
	return cleanText(match[1])
}

func cleanText(value string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(html.UnescapeString(value), " "))
}
