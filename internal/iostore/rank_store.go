package iostore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// Table names for rank storage. One addressable unit per row: snapshots are
// keyed by the full RankKey, latest pointers by the triple, date indexes by
// country, baselines by triple+date, and reports by report name.
const (
	snapshotsTable = "rank_snapshots"
	latestTable    = "rank_latest"
	datesTable     = "rank_dates"
	baselinesTable = "meta_baselines"
	reportsTable   = "chart_reports"
)

// rankTables lists all tables managed by the rank store.
var rankTables = []string{snapshotsTable, latestTable, datesTable, baselinesTable, reportsTable}

// RankStoreImpl handles durable rank storage using various database backends.
type RankStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.RankStore = &RankStoreImpl{} // Compile-time check

// NewRankStore initializes and returns a new RankStore for the backend type.
func NewRankStore(backend schema.DatabaseBackend, connStr string) (contract.RankStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled persistence
		return &RankStoreImpl{backend: backend, connStr: connStr}, nil
	}

	db, driverName, err := openBackend(backend, connStr, contract.GetStoreDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rank store: %w", err)
	}

	for _, table := range rankTables {
		if err := validateTableName(table); err != nil {
			_ = db.Close()
			return nil, err
		}
		if _, err := db.Exec(getCreateUnitTableQuery(table, backend)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}

	return &RankStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// getCreateUnitTableQuery returns the CREATE TABLE query for a key/blob unit
// table on the given backend.
func getCreateUnitTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				unit_key VARCHAR(255) PRIMARY KEY,
				payload MEDIUMBLOB NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				unit_key TEXT PRIMARY KEY,
				payload BYTEA NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				unit_key TEXT PRIMARY KEY,
				payload BLOB NOT NULL,
				updated_at INTEGER NOT NULL
			);
		`, quoted)
	}
}

// getUnit retrieves one payload blob. ok is false when the unit is absent;
// absence is not an error.
func (rs *RankStoreImpl) getUnit(table, key string) ([]byte, bool, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, false, nil
	}

	quoted := quoteTableName(table, rs.backend)
	placeholder := placeholderFor(rs.backend)
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE unit_key = %s`, quoted, placeholder)

	var payload []byte
	if err := rs.db.QueryRow(query, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s/%s: %w", table, key, err)
	}
	return payload, true, nil
}

// setUnit inserts or replaces one payload blob.
func (rs *RankStoreImpl) setUnit(table, key string, payload []byte) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quoted := quoteTableName(table, rs.backend)
	var query string
	switch rs.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (unit_key, payload, updated_at) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE payload = new.payload, updated_at = new.updated_at`, quoted)
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (unit_key, payload, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (unit_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`, quoted)
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (unit_key, payload, updated_at) VALUES (?, ?, ?)`, quoted)
	}

	if _, err := rs.db.Exec(query, key, payload, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", table, key, err)
	}
	return nil
}

// PutSnapshot persists a snapshot, fully replacing any snapshot at the same
// key, and refreshes the latest pointer for the triple.
func (rs *RankStoreImpl) PutSnapshot(key schema.RankKey, snap *schema.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %s: %w", key, err)
	}
	if err := rs.setUnit(snapshotsTable, key.String(), payload); err != nil {
		return err
	}
	return rs.setUnit(latestTable, key.Triple(), payload)
}

// GetSnapshot retrieves the snapshot at key, if present.
func (rs *RankStoreImpl) GetSnapshot(key schema.RankKey) (*schema.Snapshot, bool, error) {
	return rs.readSnapshot(snapshotsTable, key.String())
}

// GetLatest retrieves the most recently put snapshot for a triple.
func (rs *RankStoreImpl) GetLatest(country string, platform schema.Platform, chart schema.Chart) (*schema.Snapshot, bool, error) {
	return rs.readSnapshot(latestTable, schema.TripleKey(country, platform, chart))
}

// readSnapshot loads and unmarshals a snapshot unit.
func (rs *RankStoreImpl) readSnapshot(table, key string) (*schema.Snapshot, bool, error) {
	payload, ok, err := rs.getUnit(table, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var snap schema.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		// Unparsable payloads count as missing data, not a run failure.
		return nil, false, nil
	}
	return &snap, true, nil
}

// ListDates returns the country's available dates, newest first.
func (rs *RankStoreImpl) ListDates(country string) ([]string, error) {
	payload, ok, err := rs.getUnit(datesTable, schema.NormalizeCountry(country))
	if err != nil || !ok {
		return nil, err
	}
	var dates []string
	if err := json.Unmarshal(payload, &dates); err != nil {
		return nil, nil
	}
	return dates, nil
}

// InsertDate registers a date for a country. Idempotent; keeps the list
// deduplicated, sorted descending and capped at schema.DateIndexCap.
func (rs *RankStoreImpl) InsertDate(country, date string) error {
	dates, err := rs.ListDates(country)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(dates)+1)
	merged := make([]string, 0, len(dates)+1)
	for _, d := range append(dates, date) {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		merged = append(merged, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(merged)))
	if len(merged) > schema.DateIndexCap {
		merged = merged[:schema.DateIndexCap]
	}

	payload, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to marshal dates for %s: %w", country, err)
	}
	return rs.setUnit(datesTable, schema.NormalizeCountry(country), payload)
}

// PutBaseline persists the metadata baseline for a key.
func (rs *RankStoreImpl) PutBaseline(key schema.RankKey, baseline schema.MetadataBaseline) error {
	payload, err := json.Marshal(baseline)
	if err != nil {
		return fmt.Errorf("failed to marshal baseline %s: %w", key, err)
	}
	return rs.setUnit(baselinesTable, schema.BaselineKey(key), payload)
}

// GetBaseline retrieves the metadata baseline for a key, if present.
func (rs *RankStoreImpl) GetBaseline(key schema.RankKey) (schema.MetadataBaseline, bool, error) {
	payload, ok, err := rs.getUnit(baselinesTable, schema.BaselineKey(key))
	if err != nil || !ok {
		return nil, false, err
	}
	var baseline schema.MetadataBaseline
	if err := json.Unmarshal(payload, &baseline); err != nil {
		return nil, false, nil
	}
	return baseline, true, nil
}

// PutReport persists a report unit (movers or updates) as a JSON blob.
func (rs *RankStoreImpl) PutReport(key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal report %s: %w", key, err)
	}
	return rs.setUnit(reportsTable, key, data)
}

// GetReport unmarshals a report unit into out, if present.
func (rs *RankStoreImpl) GetReport(key string, out any) (bool, error) {
	payload, ok, err := rs.getUnit(reportsTable, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, nil
	}
	return true, nil
}

// GetAllSnapshots retrieves every stored snapshot, for export.
func (rs *RankStoreImpl) GetAllSnapshots() ([]*schema.Snapshot, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quoted := quoteTableName(snapshotsTable, rs.backend)
	query := fmt.Sprintf("SELECT payload FROM %s ORDER BY unit_key", quoted)
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*schema.Snapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		var snap schema.Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			continue // skip unparsable payloads
		}
		results = append(results, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return results, nil
}

// Close closes the underlying DB connection.
func (rs *RankStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
