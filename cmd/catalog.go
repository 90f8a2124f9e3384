package cmd

import (
	"fmt"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/internal/iostore"
	"github.com/chartpulse/chartpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// catalogSetup loads minimal configuration needed for catalog operations.
// This is used by commands that need catalog access without full shared setup.
func catalogSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get catalog-related config values
	backendStr := viper.GetString("catalog-backend")
	connStr := viper.GetString("catalog-db-connect")

	// Handle empty backend as SQLite, matching the full setup's default
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the catalog only (no rank store for catalog commands)
	if err := iostore.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize catalog: %w", err)
	}

	cfg.CatalogBackend = backend
	cfg.CatalogConnect = connStr

	return nil
}

// catalogSetupWrapper wraps catalogSetup to provide PreRunE for catalog commands.
func catalogSetupWrapper(_ *cobra.Command, _ []string) error {
	return catalogSetup()
}

// catalogMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func catalogMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get catalog-related config values
	backendStr := viper.GetString("catalog-backend")
	connStr := viper.GetString("catalog-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetCatalogDBFilePath()
	}

	cfg.CatalogBackend = backend
	cfg.CatalogConnect = connStr

	return nil
}

// catalogMigrateSetupWrapper wraps catalogMigrateSetup to provide PreRunE for migrate command.
func catalogMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return catalogMigrateSetup()
}

// catalogCmd focused on category catalog management.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the game category catalog",
	Long: `Manage the catalog that caches resolved game categories and holds
curated overrides.

The catalog is what keeps classifier usage bounded: once an app has a
cached label, the external classifier is never consulted for it again.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show catalog statistics
  clear   - Remove all cached categories and overrides
  migrate - Run database schema migrations

Examples:
  # Check catalog status
  chartpulse catalog status

  # Reset cached labels after a category set change
  chartpulse catalog clear`,
}

// catalogClearCmd clears the catalog.
var catalogClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached categories and overrides",
	Long: `Delete all cached classifier results and curated overrides from
the configured backend.

WARNING: This action cannot be undone. The next classify run will consult
the external classifier for every unlabeled app again; re-sync overrides
afterwards with 'chartpulse overrides'.

Examples:
  # Clear SQLite catalog (default)
  chartpulse catalog clear`,
	PreRunE: catalogSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearCatalog(cfg.CatalogBackend, contract.GetCatalogDBFilePath(), cfg.CatalogConnect); err != nil {
			contract.LogFatal("Failed to clear catalog", err)
		}
		fmt.Println("Catalog cleared successfully.")
	},
}

// catalogStatusCmd shows catalog status.
var catalogStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display catalog statistics and connection details",
	Long: `Show detailed information about the category catalog.

Displays:
- Backend type and connection status
- Total number of cached entries
- Number of override entries
- Per-category entry counts

Examples:
  # Check catalog status
  chartpulse catalog status`,
	PreRunE: catalogSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.Manager.GetCatalogStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get catalog status", err)
		}
		iostore.PrintCatalogStatus(status)
	},
}

// catalogMigrateCmd runs database migrations for the catalog.
var catalogMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the category catalog.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  chartpulse catalog migrate

  # Rollback to initial state
  chartpulse catalog migrate --target-version 0`,
	PreRunE: catalogMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateCatalog(cfg.CatalogBackend, cfg.CatalogConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
