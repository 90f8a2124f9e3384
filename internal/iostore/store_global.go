package iostore

import (
	"fmt"
	"os"
	"sync"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetStoreDBFilePath returns the path to the SQLite DB file for rank storage.
func GetStoreDBFilePath() string {
	return contract.GetStoreDBFilePath()
}

// GetCatalogDBFilePath returns the path to the SQLite DB file for the catalog.
func GetCatalogDBFilePath() string {
	return contract.GetCatalogDBFilePath()
}

// InitStores initializes the global store manager with separate rank and
// catalog stores. Either backend can be empty to skip that store.
func InitStores(storeBackend schema.DatabaseBackend, storeConnStr string, catalogBackend schema.DatabaseBackend, catalogConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		var err error

		var rankStore contract.RankStore
		if storeBackend != "" {
			rankStore, err = NewRankStore(storeBackend, storeConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize rank store: %w", err)
				return
			}
		}

		var catalogStore contract.CatalogStore
		if catalogBackend != "" {
			catalogStore, err = NewCatalogStore(catalogBackend, catalogConnStr)
			if err != nil {
				if rankStore != nil {
					_ = rankStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize catalog store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.ranks = rankStore
		Manager.catalog = catalogStore
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.ranks != nil {
			_ = Manager.ranks.Close()
		}
		if Manager.catalog != nil {
			_ = Manager.catalog.Close()
		}
	})
}

// ClearStore clears rank storage for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, rankTables)
}

// ClearCatalog clears the category catalog for the specified backend.
func ClearCatalog(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, []string{catalogTable})
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables []string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		for _, table := range tables {
			if err := clearSQLTable("mysql", connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.PostgreSQLBackend:
		for _, table := range tables {
			if err := clearSQLTable("pgx", connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}
