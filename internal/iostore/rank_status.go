package iostore

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/chartpulse/chartpulse/schema"
)

// GetStatus returns status information about the rank store.
func (rs *RankStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(rs.backend),
		Connected: rs.db != nil,
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedSnapshots := quoteTableName(snapshotsTable, rs.backend)
	quotedReports := quoteTableName(reportsTable, rs.backend)

	// Get total snapshots
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedSnapshots)
	row := rs.db.QueryRow(countQuery)
	if err := row.Scan(&status.TotalSnapshots); err != nil {
		return status, fmt.Errorf("failed to get total snapshots: %w", err)
	}

	// Get total reports
	countQuery = fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedReports)
	row = rs.db.QueryRow(countQuery)
	if err := row.Scan(&status.TotalReports); err != nil {
		return status, fmt.Errorf("failed to get total reports: %w", err)
	}

	if status.TotalSnapshots == 0 {
		return status, nil
	}

	// Get last entry time
	lastQuery := fmt.Sprintf("SELECT MAX(updated_at) FROM %s", quotedSnapshots)
	row = rs.db.QueryRow(lastQuery)
	var lastTs int64
	if err := row.Scan(&lastTs); err != nil {
		return status, fmt.Errorf("failed to get last entry time: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)

	// Get oldest entry time
	oldestQuery := fmt.Sprintf("SELECT MIN(updated_at) FROM %s", quotedSnapshots)
	row = rs.db.QueryRow(oldestQuery)
	var oldestTs int64
	if err := row.Scan(&oldestTs); err != nil {
		return status, fmt.Errorf("failed to get oldest entry time: %w", err)
	}
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	status.TableSizeBytes = rs.estimateTableSize(status.TotalSnapshots)
	return status, nil
}

// estimateTableSize approximates the snapshot table footprint. SQLite reports
// whole-file pages; MySQL and PostgreSQL report per-table sizes, with a rough
// row-count estimate as fallback.
func (rs *RankStoreImpl) estimateTableSize(totalSnapshots int) int64 {
	fallback := int64(totalSnapshots) * 1000

	switch rs.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		var size int64
		if err := rs.db.QueryRow(sizeQuery).Scan(&size); err != nil {
			return 0
		}
		return size
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(rs.connStr)
		if err != nil || cfg.DBName == "" {
			return fallback
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		var size int64
		if err := rs.db.QueryRow(sizeQuery, cfg.DBName, snapshotsTable).Scan(&size); err != nil {
			return fallback
		}
		return size
	case schema.PostgreSQLBackend:
		var size int64
		if err := rs.db.QueryRow("SELECT pg_total_relation_size($1)", snapshotsTable).Scan(&size); err != nil {
			return fallback
		}
		return size
	default:
		return fallback
	}
}
