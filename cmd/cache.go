package cmd

import (
	"fmt"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/internal/iostore"
	"github.com/hackwatch/hackwatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no report store for cache commands)
	if err := iostore.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by the analyze command. This avoids window
// validation and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage commit fetch cache (improves performance)",
	Long: `Manage the commit fetch cache that speeds up repeated analyses.

Hackwatch caches commit histories fetched from GitHub and GitLab so repeated
runs against the same submissions avoid redundant API calls and rate limits.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  hackwatch cache status

  # Clear cache before re-judging
  hackwatch cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached commit histories",
	Long: `Delete all cached commit histories from the configured backend.

Use this when:
- Teams force-pushed or rewrote submission history
- Cache may be stale or corrupted
- Re-running analysis after the submission deadline

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  hackwatch cache clear

  # Clear MySQL cache (set connection string via env variable)
  HACKWATCH_CACHE_BACKEND=mysql HACKWATCH_CACHE_DB_CONNECT="..." hackwatch cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearFetchCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the commit fetch cache.

Displays:
- Backend type and connection status
- Total number of cached repositories
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  hackwatch cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.Manager.GetFetchStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iostore.PrintCacheStatus(status)
	},
}
