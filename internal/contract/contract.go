// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/chartpulse/chartpulse/schema"
)

// RankStore defines persistence for snapshots, date indexes, metadata
// baselines and report units. Absence is not an error: Get* methods return
// (zero, false, nil) when the unit does not exist, and callers degrade
// gracefully. This allows the store layer to be mocked for testing.
type RankStore interface {
	// --- Snapshots ---

	// PutSnapshot persists a snapshot, fully replacing any existing snapshot
	// at the same key, and refreshes the latest pointer for the triple.
	PutSnapshot(key schema.RankKey, snap *schema.Snapshot) error

	// GetSnapshot retrieves the snapshot at key, if present.
	GetSnapshot(key schema.RankKey) (*schema.Snapshot, bool, error)

	// GetLatest retrieves the most recently put snapshot for a triple,
	// regardless of its date value.
	GetLatest(country string, platform schema.Platform, chart schema.Chart) (*schema.Snapshot, bool, error)

	// --- Date index ---

	// ListDates returns the country's available dates, newest first.
	ListDates(country string) ([]string, error)

	// InsertDate registers a date for a country. Idempotent; keeps the list
	// deduplicated, sorted descending and capped at schema.DateIndexCap.
	InsertDate(country, date string) error

	// --- Baselines ---

	// PutBaseline persists the metadata baseline for a key.
	PutBaseline(key schema.RankKey, baseline schema.MetadataBaseline) error

	// GetBaseline retrieves the metadata baseline for a key, if present.
	GetBaseline(key schema.RankKey) (schema.MetadataBaseline, bool, error)

	// --- Reports ---

	// PutReport persists a report unit (movers or updates) as a JSON blob.
	PutReport(key string, payload any) error

	// GetReport unmarshals a report unit into out, if present.
	GetReport(key string, out any) (bool, error)

	// GetAllSnapshots retrieves every stored snapshot, for export.
	GetAllSnapshots() ([]*schema.Snapshot, error)

	// GetStatus returns status information about the rank store.
	GetStatus() (schema.StoreStatus, error)

	Close() error
}

// CatalogStore defines persistence for the category cache. Override entries
// take precedence and are never overwritten by resolver writes.
type CatalogStore interface {
	// Load returns all category entries keyed by app_id.
	Load() (map[string]schema.Category, error)

	// LoadOverrides returns only the override entries keyed by app_id.
	LoadOverrides() (map[string]schema.Category, error)

	// SaveResolved persists resolver-written entries. Rows whose existing
	// source is override are left untouched.
	SaveResolved(entries map[string]schema.Category) error

	// SaveOverrides persists override entries, replacing prior values
	// regardless of source. Returns the number of changed rows.
	SaveOverrides(entries map[string]schema.Category) (int, error)

	// GetStatus returns status information about the catalog store.
	GetStatus() (schema.CatalogStatus, error)

	Close() error
}

// StoreManager defines the interface for reaching both stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetRankStore() RankStore
	GetCatalogStore() CatalogStore
}

// MetadataClient defines the external per-app version metadata lookup.
// A failed lookup returns an error and never aborts the batch; the app is
// simply excluded from that run's baseline.
type MetadataClient interface {
	Lookup(ctx context.Context, appID string) (*schema.AppMetadata, error)
}

// Classifier defines the external category classification capability.
// Implementations must return a label from the fixed category set or an error.
type Classifier interface {
	Classify(ctx context.Context, appName, genre string) (schema.Category, error)
}

// OverrideSource produces the full mapping of human-curated category
// overrides, pulled wholesale at run start. Read-only to the core.
type OverrideSource interface {
	FetchOverrides(ctx context.Context) (map[string]schema.Category, error)
}

// SheetSource produces parsed ranking rows from the tabular ingestion source.
type SheetSource interface {
	FetchRows(ctx context.Context) ([]schema.RawChartRow, error)
}
