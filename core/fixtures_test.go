package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/internal/iostore"
	"github.com/chartpulse/chartpulse/schema"
)

// newTestManager wires a mock manager to real sqlite stores in a temp dir.
func newTestManager(t *testing.T) *iostore.MockStoreManager {
	t.Helper()
	dir := t.TempDir()

	ranks, err := iostore.NewRankStore(schema.SQLiteBackend, filepath.Join(dir, "ranks.db"))
	require.NoError(t, err, "Failed to create rank store")
	t.Cleanup(func() { _ = ranks.Close() })

	catalog, err := iostore.NewCatalogStore(schema.SQLiteBackend, filepath.Join(dir, "catalog.db"))
	require.NoError(t, err, "Failed to create catalog store")
	t.Cleanup(func() { _ = catalog.Close() })

	mgr := &iostore.MockStoreManager{}
	mgr.On("GetRankStore").Return(ranks)
	mgr.On("GetCatalogStore").Return(catalog)
	return mgr
}

func testConfig() *contract.Config {
	return &contract.Config{
		Countries: []string{"TW"},
		Platforms: []schema.Platform{schema.IOSPlatform},
		Charts:    []schema.Chart{schema.TopGrossingChart},
		Workers:   2,
		Output:    schema.TextOut,
	}
}

// snapshotOf builds a TW ios top_grossing snapshot with the given ranked apps.
func snapshotOf(date string, apps ...schema.RankRow) *schema.Snapshot {
	return &schema.Snapshot{
		Date:     schema.ISODate(date),
		Platform: schema.IOSPlatform,
		Country:  "TW",
		Chart:    schema.TopGrossingChart,
		Rows:     apps,
	}
}

func app(id, name string, rank int) schema.RankRow {
	return schema.RankRow{AppID: id, AppName: name, Rank: rank, Genre: "Games"}
}

// stubSheet serves a fixed row set as the tabular ingestion source.
type stubSheet struct {
	rows []schema.RawChartRow
	err  error
}

func (s *stubSheet) FetchRows(ctx context.Context) ([]schema.RawChartRow, error) {
	return s.rows, s.err
}

// stubMetadata answers lookups from a canned map and records call counts.
type stubMetadata struct {
	metadata map[string]*schema.AppMetadata
	fail     map[string]bool
	calls    int
}

func (s *stubMetadata) Lookup(ctx context.Context, appID string) (*schema.AppMetadata, error) {
	s.calls++
	if s.fail[appID] {
		return nil, context.DeadlineExceeded
	}
	meta, ok := s.metadata[appID]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	cp := *meta
	return &cp, nil
}

// stubClassifier returns a fixed label or error and records call counts.
type stubClassifier struct {
	label schema.Category
	err   error
	calls int
}

func (s *stubClassifier) Classify(ctx context.Context, appName, genre string) (schema.Category, error) {
	s.calls++
	return s.label, s.err
}

// stubOverrides serves a fixed override map.
type stubOverrides struct {
	overrides map[string]schema.Category
	err       error
}

func (s *stubOverrides) FetchOverrides(ctx context.Context) (map[string]schema.Category, error) {
	return s.overrides, s.err
}
