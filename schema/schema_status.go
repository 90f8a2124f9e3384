package schema

import "time"

// StoreStatus represents the status of the rank store.
type StoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalSnapshots  int       `json:"total_snapshots"`
	TotalReports    int       `json:"total_reports"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// CatalogStatus represents the status of the category catalog store.
type CatalogStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	TotalEntries   int       `json:"total_entries"`
	OverrideCount  int       `json:"override_count"`
	ResolverCount  int       `json:"resolver_count"`
	LastEntryTime  time.Time `json:"last_entry_time"`
	TableSizeBytes int64     `json:"table_size_bytes"`
}

// RunSummary aggregates counts of produced vs skipped units across one run.
// Zero eligible date pairs everywhere is a non-fatal summary condition.
type RunSummary struct {
	SnapshotsWritten int
	PairsAnalyzed    int
	PairsSkipped     int
	MoversReports    int
	UpdatesReports   int
	NewCacheEntries  int
	WriteFailures    int
}
