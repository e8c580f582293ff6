// Package cmd defines the command-line interface for hackwatch.
package cmd

import (
	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(storeCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("window-start", "", "Hackathon window start in ISO8601 (e.g., 2025-06-06T18:00:00Z)")
	rootCmd.PersistentFlags().String("window-end", "", "Hackathon window end in ISO8601")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("output", string(schema.MarkdownOut), "Output format: markdown or text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to (text/csv/json/parquet)")
	rootCmd.PersistentFlags().String("output-dir", contract.DefaultOutputDir, "Directory for per-team Markdown reports")
	rootCmd.PersistentFlags().String("devpost", "", "Devpost export CSV or project page URL for writeup enrichment")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub API token (prefer the GITHUB_TOKEN env variable)")
	rootCmd.PersistentFlags().String("gitlab-token", "", "GitLab API token (prefer the GITLAB_TOKEN env variable)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Fetch cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("store-backend", "", "Report store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for the report store (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
