package contract

import (
	"fmt"
	"maps"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/hackwatch/hackwatch/schema"
)

// Default values for configuration.
const (
	MaxWorkers       = 64
	DefaultOutputDir = "reports"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// windowLayouts are accepted for window boundaries. Naive layouts are
// interpreted in the configured hackathon timezone.
var windowLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// WindowRawInput holds the hackathon window definition from the config file.
type WindowRawInput struct {
	Start    string `mapstructure:"start_datetime"`
	End      string `mapstructure:"end_datetime"`
	Timezone string `mapstructure:"timezone"`
}

// EngineRawInput holds engine threshold overrides from the YAML config file.
// Pointers distinguish "not provided" from explicit zero values.
type EngineRawInput struct {
	BurstRunLength        *int     `mapstructure:"burst_run_length"`
	BurstMaxGapSeconds    *float64 `mapstructure:"burst_max_gap_seconds"`
	UniformMinRun         *int     `mapstructure:"uniform_min_run"`
	UniformMaxCV          *float64 `mapstructure:"uniform_max_cv"`
	DumpFraction          *float64 `mapstructure:"dump_fraction"`
	DumpEarlyFraction     *float64 `mapstructure:"dump_early_fraction"`
	DuplicateCutoff       *float64 `mapstructure:"duplicate_cutoff"`
	DuplicateSaturation   *float64 `mapstructure:"duplicate_saturation"`
	RosterShareSaturation *float64 `mapstructure:"roster_share_saturation"`
	TimingCapFactor       *float64 `mapstructure:"timing_cap_factor"`
	TimingVolumeSat       *int     `mapstructure:"timing_volume_saturation"`
}

// CutPointsRawInput holds severity cut point overrides from the config file.
type CutPointsRawInput struct {
	Drop   *float64 `mapstructure:"drop"`
	Medium *float64 `mapstructure:"medium"`
	High   *float64 `mapstructure:"high"`
}

// Config holds the runtime configuration for an analysis run.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath     string
	Engine        schema.EngineConfig
	Workers       int
	Output        schema.OutputMode
	OutputFile    string
	OutputDir     string
	DevpostSource string

	GithubToken string // Please use env var as this is plaintext
	GitlabToken string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
	Width     int  // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	WindowStart    string `mapstructure:"window-start"`
	WindowEnd      string `mapstructure:"window-end"`
	Workers        int    `mapstructure:"workers"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	OutputDir      string `mapstructure:"output-dir"`
	Devpost        string `mapstructure:"devpost"`
	GithubToken    string `mapstructure:"github-token"`
	GitlabToken    string `mapstructure:"gitlab-token"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Color          string `mapstructure:"color"`
	Width          int    `mapstructure:"width"`

	// --- Config-file-only sections ---
	Window    WindowRawInput    `mapstructure:"hackathon_window"`
	Engine    EngineRawInput    `mapstructure:"engine"`
	CutPoints CutPointsRawInput `mapstructure:"cut_points"`
	Aliases   map[string]string `mapstructure:"aliases"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Engine.Aliases != nil {
		clone.Engine.Aliases = make(map[string]string, len(c.Engine.Aliases))
		maps.Copy(clone.Engine.Aliases, c.Engine.Aliases)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWindow(cfg, input); err != nil {
		return err
	}
	if err := processEngineOverrides(cfg, input); err != nil {
		return err
	}
	return cfg.Engine.Validate()
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-window fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.InputPath = input.InputPathStr
	cfg.OutputFile = input.OutputFile
	cfg.DevpostSource = input.Devpost
	cfg.Width = input.Width

	cfg.OutputDir = input.OutputDir
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be greater than 0 and cannot exceed %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be markdown, text, csv, json, parquet", input.Output)
	}

	// --- 3. Backend Validation ---
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	// --- 4. Host tokens, flag/config value first, then ambient env ---
	cfg.GithubToken = input.GithubToken
	if cfg.GithubToken == "" {
		cfg.GithubToken = os.Getenv("GITHUB_TOKEN")
	}
	cfg.GitlabToken = input.GitlabToken
	if cfg.GitlabToken == "" {
		cfg.GitlabToken = os.Getenv("GITLAB_TOKEN")
	}

	return nil
}

// validateBackendConfigs validates fetch-cache and report-store backends.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// An empty store backend disables run tracking entirely.
	storeBackendStr := strings.ToLower(input.StoreBackend)
	if storeBackendStr == "" {
		storeBackendStr = string(schema.NoneBackend)
	}
	cfg.StoreBackend = schema.DatabaseBackend(storeBackendStr)
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	// Cache and store must not collide on the same SQLite file.
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.StoreBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		storePath := cfg.StoreDBConnect
		if storePath == "" {
			storePath = GetStoreDBFilePath()
		}
		if cachePath == storePath {
			return fmt.Errorf("fetch cache and report store must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}

	return nil
}

// processWindow resolves the hackathon window from flags or the config file.
// Flags take precedence; the config-file form requires start, end and
// timezone together. The window is mandatory for analysis.
func processWindow(cfg *Config, input *ConfigRawInput) error {
	startStr := input.WindowStart
	endStr := input.WindowEnd
	tzStr := ""

	if startStr == "" && endStr == "" {
		if input.Window.Start == "" || input.Window.End == "" || input.Window.Timezone == "" {
			return fmt.Errorf("hackathon window is required: set --window-start/--window-end or a hackathon_window config section with start_datetime, end_datetime and timezone")
		}
		startStr = input.Window.Start
		endStr = input.Window.End
		tzStr = input.Window.Timezone
	}

	loc := time.UTC
	if tzStr != "" {
		parsed, err := time.LoadLocation(tzStr)
		if err != nil {
			return fmt.Errorf("invalid hackathon_window timezone %q: %w", tzStr, err)
		}
		loc = parsed
	}

	start, err := ParseWindowTime(startStr, loc)
	if err != nil {
		return fmt.Errorf("invalid window start: %w", err)
	}
	end, err := ParseWindowTime(endStr, loc)
	if err != nil {
		return fmt.Errorf("invalid window end: %w", err)
	}

	cfg.Engine = schema.DefaultEngineConfig(schema.HackathonWindow{Start: start, End: end})
	return nil
}

// ParseWindowTime parses a window boundary. Values without an explicit
// offset are interpreted in loc.
func ParseWindowTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing value")
	}
	for _, layout := range windowLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable time %q. Expected ISO8601, e.g. 2025-06-06T18:00:00Z", raw)
}

// processEngineOverrides applies config-file threshold, cut point and alias
// overrides on top of the engine defaults.
func processEngineOverrides(cfg *Config, input *ConfigRawInput) error {
	eng := &cfg.Engine

	if v := input.Engine.BurstRunLength; v != nil {
		eng.BurstRunLength = *v
	}
	if v := input.Engine.BurstMaxGapSeconds; v != nil {
		eng.BurstMaxGap = time.Duration(*v * float64(time.Second))
	}
	if v := input.Engine.UniformMinRun; v != nil {
		eng.UniformMinRun = *v
	}
	if v := input.Engine.UniformMaxCV; v != nil {
		eng.UniformMaxCV = *v
	}
	if v := input.Engine.DumpFraction; v != nil {
		eng.DumpFraction = *v
	}
	if v := input.Engine.DumpEarlyFraction; v != nil {
		eng.DumpEarlyFraction = *v
	}
	if v := input.Engine.DuplicateCutoff; v != nil {
		eng.DuplicateCutoff = *v
	}
	if v := input.Engine.DuplicateSaturation; v != nil {
		eng.DuplicateSaturation = *v
	}
	if v := input.Engine.RosterShareSaturation; v != nil {
		eng.RosterShareSaturation = *v
	}
	if v := input.Engine.TimingCapFactor; v != nil {
		eng.TimingCapFactor = *v
	}
	if v := input.Engine.TimingVolumeSat; v != nil {
		eng.TimingVolumeSat = *v
	}

	if v := input.CutPoints.Drop; v != nil {
		eng.CutPoints.Drop = *v
	}
	if v := input.CutPoints.Medium; v != nil {
		eng.CutPoints.Medium = *v
	}
	if v := input.CutPoints.High; v != nil {
		eng.CutPoints.High = *v
	}

	if len(input.Aliases) > 0 {
		eng.Aliases = make(map[string]string, len(input.Aliases))
		for alias, canonical := range input.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			canonical = strings.ToLower(strings.TrimSpace(canonical))
			if alias == "" || canonical == "" {
				return fmt.Errorf("aliases must map non-empty identities (found %q -> %q)", alias, canonical)
			}
			eng.Aliases[alias] = canonical
		}
	}

	return nil
}
