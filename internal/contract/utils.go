package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/hackwatch/hackwatch/schema"
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgRed, color.Bold) // HighColor marks flags that need organizer review.
	MediumColor = color.New(color.FgYellow)          // MediumColor represents standard caution, not bold.
	LowColor    = color.New(color.FgCyan)            // LowColor represents informational / low-priority findings.
	CleanColor  = color.New(color.FgGreen)           // CleanColor marks submissions without flags.
)

// CleanLabel is shown for submissions that produced no flags at all.
const CleanLabel = "CLEAN"

// GetPlainLabel returns the plain text severity label for a report. This is
// the core logic used for CSV, JSON, Markdown and table printing.
func GetPlainLabel(r *schema.AnalysisReport) string {
	if top := r.TopSeverity(); top != "" {
		return string(top)
	}
	return CleanLabel
}

// GetColorLabel returns a colored severity label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(r *schema.AnalysisReport) string {
	text := GetPlainLabel(r)

	switch schema.Severity(text) {
	case schema.SeverityHigh:
		return HighColor.Sprint(text)
	case schema.SeverityMedium:
		return MediumColor.Sprint(text)
	case schema.SeverityLow:
		return LowColor.Sprint(text)
	default: // "CLEAN"
		return CleanColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the fetch cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".hackwatch_cache.db"
	}
	return filepath.Join(homeDir, ".hackwatch_cache.db")
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the report store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".hackwatch_store.db"
	}
	return filepath.Join(homeDir, ".hackwatch_store.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// Slugify converts a team name into a filesystem-safe report file name.
func Slugify(value string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(strings.ToLower(value)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	if len(parts) == 0 {
		return "team-report"
	}
	return strings.Join(parts, "-")
}

// TruncatePath truncates a repository URL or path to a maximum width with an
// ellipsis prefix. Requires maxWidth > 3 so there is room for the "..."
// prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}
