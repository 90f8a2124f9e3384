package iostore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// Table name for the category catalog.
const catalogTable = "game_categories"

// CatalogStoreImpl implements the CatalogStore interface.
type CatalogStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.CatalogStore = &CatalogStoreImpl{} // Compile-time check

// NewCatalogStore creates a new CatalogStore with the specified backend.
func NewCatalogStore(backend schema.DatabaseBackend, connStr string) (contract.CatalogStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled caching
		return &CatalogStoreImpl{backend: backend, connStr: connStr}, nil
	}

	db, driverName, err := openBackend(backend, connStr, contract.GetCatalogDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog store: %w", err)
	}

	if err := validateTableName(catalogTable); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(getCreateCatalogQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", catalogTable, err)
	}

	return &CatalogStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// getCreateCatalogQuery returns the CREATE TABLE query for game_categories.
func getCreateCatalogQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(catalogTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				app_id VARCHAR(255) PRIMARY KEY,
				category VARCHAR(64) NOT NULL,
				source VARCHAR(16) NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				app_id TEXT PRIMARY KEY,
				category TEXT NOT NULL,
				source TEXT NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				app_id TEXT PRIMARY KEY,
				category TEXT NOT NULL,
				source TEXT NOT NULL,
				updated_at INTEGER NOT NULL
			);
		`, quoted)
	}
}

// Load returns all category entries keyed by app_id.
func (cs *CatalogStoreImpl) Load() (map[string]schema.Category, error) {
	return cs.loadWhere("")
}

// LoadOverrides returns only the override entries keyed by app_id.
func (cs *CatalogStoreImpl) LoadOverrides() (map[string]schema.Category, error) {
	return cs.loadWhere(string(schema.OverrideSource))
}

// loadWhere reads entries, optionally filtered by source.
func (cs *CatalogStoreImpl) loadWhere(source string) (map[string]schema.Category, error) {
	entries := make(map[string]schema.Category)
	if cs.backend == schema.NoneBackend || cs.db == nil {
		return entries, nil
	}

	quoted := quoteTableName(catalogTable, cs.backend)
	query := fmt.Sprintf("SELECT app_id, category FROM %s", quoted)
	var args []any
	if source != "" {
		query += fmt.Sprintf(" WHERE source = %s", placeholderFor(cs.backend))
		args = append(args, source)
	}

	rows, err := cs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var appID, category string
		if err := rows.Scan(&appID, &category); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries[appID] = schema.Category(category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog entries: %w", err)
	}
	return entries, nil
}

// SaveResolved persists resolver-written entries. Rows whose existing source
// is override are left untouched.
func (cs *CatalogStoreImpl) SaveResolved(entries map[string]schema.Category) error {
	if cs.backend == schema.NoneBackend || cs.db == nil || len(entries) == 0 {
		return nil
	}

	quoted := quoteTableName(catalogTable, cs.backend)
	var query string
	switch cs.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (app_id, category, source, updated_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE
				category = IF(source <> 'override', new.category, category),
				updated_at = IF(source <> 'override', new.updated_at, updated_at)`, quoted)
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (app_id, category, source, updated_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (app_id) DO UPDATE SET category = EXCLUDED.category, updated_at = EXCLUDED.updated_at
			WHERE %s.source <> 'override'`, quoted, quoted)
	default: // SQLite
		query = fmt.Sprintf(`INSERT INTO %s (app_id, category, source, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (app_id) DO UPDATE SET category = excluded.category, updated_at = excluded.updated_at
			WHERE source <> 'override'`, quoted)
	}

	now := time.Now().Unix()
	for appID, category := range entries {
		if _, err := cs.db.Exec(query, appID, string(category), string(schema.ResolverSource), now); err != nil {
			return fmt.Errorf("failed to save resolved entry %s: %w", appID, err)
		}
	}
	return nil
}

// SaveOverrides persists override entries, replacing prior values regardless
// of source. Returns the number of changed rows.
func (cs *CatalogStoreImpl) SaveOverrides(entries map[string]schema.Category) (int, error) {
	if cs.backend == schema.NoneBackend || cs.db == nil || len(entries) == 0 {
		return 0, nil
	}

	existing, err := cs.LoadOverrides()
	if err != nil {
		return 0, err
	}

	quoted := quoteTableName(catalogTable, cs.backend)
	var query string
	switch cs.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (app_id, category, source, updated_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE category = new.category, source = new.source, updated_at = new.updated_at`, quoted)
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (app_id, category, source, updated_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (app_id) DO UPDATE SET category = EXCLUDED.category, source = EXCLUDED.source, updated_at = EXCLUDED.updated_at`, quoted)
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (app_id, category, source, updated_at) VALUES (?, ?, ?, ?)`, quoted)
	}

	changed := 0
	now := time.Now().Unix()
	for appID, category := range entries {
		if prev, ok := existing[appID]; ok && prev == category {
			continue
		}
		if _, err := cs.db.Exec(query, appID, string(category), string(schema.OverrideSource), now); err != nil {
			return changed, fmt.Errorf("failed to save override entry %s: %w", appID, err)
		}
		changed++
	}
	return changed, nil
}

// GetStatus returns status information about the catalog store.
func (cs *CatalogStoreImpl) GetStatus() (schema.CatalogStatus, error) {
	status := schema.CatalogStatus{
		Backend:   string(cs.backend),
		Connected: cs.db != nil,
	}

	if cs.backend == schema.NoneBackend || cs.db == nil {
		return status, nil
	}

	quoted := quoteTableName(catalogTable, cs.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)
	if err := cs.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	bySource := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE source = %s", quoted, placeholderFor(cs.backend))
	if err := cs.db.QueryRow(bySource, string(schema.OverrideSource)).Scan(&status.OverrideCount); err != nil {
		return status, fmt.Errorf("failed to get override count: %w", err)
	}
	if err := cs.db.QueryRow(bySource, string(schema.ResolverSource)).Scan(&status.ResolverCount); err != nil {
		return status, fmt.Errorf("failed to get resolver count: %w", err)
	}

	lastQuery := fmt.Sprintf("SELECT MAX(updated_at) FROM %s", quoted)
	var lastTs int64
	if err := cs.db.QueryRow(lastQuery).Scan(&lastTs); err != nil {
		return status, fmt.Errorf("failed to get last entry time: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)

	if cs.backend == schema.SQLiteBackend {
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := cs.db.QueryRow(sizeQuery).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}
	} else {
		status.TableSizeBytes = int64(status.TotalEntries) * 100 // Rough estimate
	}

	return status, nil
}

// Close closes the underlying DB connection.
func (cs *CatalogStoreImpl) Close() error {
	if cs.db != nil {
		return cs.db.Close()
	}
	return nil
}
