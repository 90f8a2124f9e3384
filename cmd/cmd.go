// Package cmd defines the command-line interface for chartpulse.
package cmd

import (
	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(moversCmd)
	rootCmd.AddCommand(updatesCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(overridesCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(catalogCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Add the catalog subcommands to the parent catalog command
	catalogCmd.AddCommand(catalogClearCmd)
	catalogCmd.AddCommand(catalogStatusCmd)
	catalogCmd.AddCommand(catalogMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("countries", "", "Comma-separated country codes to process (default TW,US,CN,TH,PH)")
	rootCmd.PersistentFlags().String("platforms", "", "Comma-separated platforms: ios or gp")
	rootCmd.PersistentFlags().String("charts", "", "Comma-separated chart types: top_grossing or top_free or top_other")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers for metadata lookups")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Rank store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("catalog-backend", "", "Category catalog backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("catalog-db-connect", "", "Database connection string for the category catalog (must differ from store-db-connect)")
	rootCmd.PersistentFlags().String("sheet-url", "", "Source URL for daily chart rows")
	rootCmd.PersistentFlags().String("metadata-url", "", "Base URL for app metadata lookups (defaults to the iTunes API)")
	rootCmd.PersistentFlags().String("override-url", "", "Source URL for curated category overrides")
	rootCmd.PersistentFlags().String("classifier-url", "", "Chat-completions endpoint for category classification")
	rootCmd.PersistentFlags().String("classifier-model", "", "Model name for category classification")
	rootCmd.PersistentFlags().String("classifier-key", "", "API key for category classification (prefer env variable)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of catalogMigrateCmd to Viper
	catalogMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(catalogMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding catalog migrate flags", err)
	}
}
