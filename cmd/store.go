package cmd

import (
	"fmt"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/internal/iostore"
	"github.com/chartpulse/chartpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for rank store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize the rank store only (no catalog for store commands)
	if err := iostore.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeCmd focused on rank store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by pipeline commands. This avoids market config
// processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the rank history store",
	Long: `Manage the store that holds rank snapshots, date indexes,
metadata baselines and report units.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status - Show store statistics and connection info
  clear  - Remove all stored rank history
  export - Export snapshots to Parquet for analytics

Examples:
  # Check store status
  chartpulse store status

  # Export snapshots for analysis in pandas/DuckDB
  chartpulse store export --output-file snapshots.parquet`,
}

// storeClearCmd clears the rank store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored rank history",
	Long: `Delete all snapshots, date indexes, baselines and reports from the
configured backend.

WARNING: This action cannot be undone. Deltas depend on stored history, so
the first ingest after a clear produces zero deltas everywhere.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store tables

Examples:
  # Clear SQLite store (default)
  chartpulse store clear

  # Clear MySQL store (set connection string via env variable)
  CHARTPULSE_STORE_BACKEND=mysql CHARTPULSE_STORE_DB_CONNECT="..." chartpulse store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearStore(cfg.StoreBackend, contract.GetStoreDBFilePath(), cfg.StoreConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeStatusCmd shows rank store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the rank history store.

Displays:
- Backend type and connection status
- Number of stored snapshots and indexed dates
- Number of baselines and report units
- Store database size

Examples:
  # Check store status
  chartpulse store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.Manager.GetRankStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(status)
	},
}

// storeExportCmd exports snapshots to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored snapshots to Parquet for BI tools and analytics",
	Long: `Export every stored snapshot row to Parquet format for use with
analytics tools.

Each record carries the snapshot key plus per-app rank, delta, genre and
resolved category, enabling longitudinal queries across dates.

Requires: --output-file parameter

Examples:
  # Export all snapshots
  chartpulse store export --output-file chartpulse-data.parquet

  # Use with DuckDB for analysis
  chartpulse store export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteStoreExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store data", err)
		}
	},
}
