package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/schema"
)

// TestRunMovers tests mover report generation across date pairs.
func TestRunMovers(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	t.Run("big swing produces a report", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		prev := snapshotOf("20250101", app("x", "X", 1), app("z", "Z", 15))
		require.NoError(t, store.PutSnapshot(prev.Key(), prev))
		require.NoError(t, store.InsertDate("TW", "20250101"))

		cur := snapshotOf("20250102", app("x", "X", 3), app("z", "Z", 25))
		require.NoError(t, store.PutSnapshot(cur.Key(), cur))
		require.NoError(t, store.InsertDate("TW", "20250102"))

		reports, summary, err := RunMovers(ctx, cfg, mgr)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.PairsAnalyzed)
		assert.Equal(t, 1, summary.MoversReports)

		report := reports["20250102"]
		require.NotNil(t, report)
		movers := report["TW"][schema.IOSPlatform][schema.TopGrossingChart]
		require.Len(t, movers, 1)
		assert.Equal(t, "Z", movers[0].Name)
		assert.Equal(t, -10, movers[0].Delta)
		assert.Equal(t, schema.FallDirection, movers[0].Direction)

		// Report is also persisted under its date key.
		var stored schema.MoversReport
		ok, err := store.GetReport(schema.MoversReportKey("20250102"), &stored)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, report, stored)
	})

	t.Run("all adjacent pairs are analyzed", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		for _, date := range []string{"20250101", "20250102", "20250103"} {
			snap := snapshotOf(date, app("x", "X", 1))
			require.NoError(t, store.PutSnapshot(snap.Key(), snap))
			require.NoError(t, store.InsertDate("TW", date))
		}

		_, summary, err := RunMovers(ctx, cfg, mgr)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.PairsAnalyzed)
		assert.Zero(t, summary.MoversReports, "no swings, no reports")
	})

	t.Run("missing snapshot skips the pair", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		// Dates registered but only one snapshot actually stored.
		snap := snapshotOf("20250102", app("x", "X", 1))
		require.NoError(t, store.PutSnapshot(snap.Key(), snap))
		require.NoError(t, store.InsertDate("TW", "20250101"))
		require.NoError(t, store.InsertDate("TW", "20250102"))

		_, summary, err := RunMovers(ctx, cfg, mgr)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.PairsSkipped)
		assert.Zero(t, summary.PairsAnalyzed)
	})

	t.Run("fewer than two dates is a non-fatal condition", func(t *testing.T) {
		mgr := newTestManager(t)
		_, summary, err := RunMovers(ctx, cfg, mgr)
		require.NoError(t, err)
		assert.Zero(t, summary.PairsAnalyzed)
		assert.Zero(t, summary.PairsSkipped)
	})
}

// TestRunUpdates tests update detection over the newest date pair.
func TestRunUpdates(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	t.Run("first run records baseline without events", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		for _, date := range []string{"20250101", "20250102"} {
			snap := snapshotOf(date, app("a", "Alpha", 1))
			require.NoError(t, store.PutSnapshot(snap.Key(), snap))
			require.NoError(t, store.InsertDate("TW", date))
		}
		client := &stubMetadata{metadata: map[string]*schema.AppMetadata{
			"a": {Version: "1.0", Updated: "2025-01-01T00:00:00Z"},
		}}

		reports, summary, err := RunUpdates(ctx, cfg, mgr, client)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.PairsAnalyzed)
		assert.Empty(t, reports, "first sighting emits no events")

		key := schema.RankKey{Country: "TW", Platform: schema.IOSPlatform, Chart: schema.TopGrossingChart, Date: "20250102"}
		baseline, ok, err := store.GetBaseline(key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "1.0", baseline["Alpha"].Version)
	})

	t.Run("version change against prior baseline emits event", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		for _, date := range []string{"20250101", "20250102"} {
			snap := snapshotOf(date, app("a", "Alpha", 1))
			require.NoError(t, store.PutSnapshot(snap.Key(), snap))
			require.NoError(t, store.InsertDate("TW", date))
		}
		prevKey := schema.RankKey{Country: "TW", Platform: schema.IOSPlatform, Chart: schema.TopGrossingChart, Date: "20250101"}
		require.NoError(t, store.PutBaseline(prevKey, schema.MetadataBaseline{
			"Alpha": {AppID: "a", Version: "1.0", Updated: "2025-01-01T00:00:00Z"},
		}))

		client := &stubMetadata{metadata: map[string]*schema.AppMetadata{
			"a": {Version: "1.1", Updated: "2025-01-02T00:00:00Z", ReleaseNotes: "fixes"},
		}}

		reports, summary, err := RunUpdates(ctx, cfg, mgr, client)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.UpdatesReports)

		report := reports["20250102"]
		require.NotNil(t, report)
		events := report["TW"][schema.IOSPlatform][schema.TopGrossingChart]
		require.Len(t, events, 1)
		assert.Equal(t, "1.1", events["Alpha"].Version)
		assert.Equal(t, schema.UpdateEventTag, events["Alpha"].Event)

		var stored schema.UpdatesReport
		ok, err := store.GetReport(schema.UpdatesReportKey("20250102"), &stored)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("only the newest pair is processed", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		for _, date := range []string{"20250101", "20250102", "20250103"} {
			snap := snapshotOf(date, app("a", "Alpha", 1))
			require.NoError(t, store.PutSnapshot(snap.Key(), snap))
			require.NoError(t, store.InsertDate("TW", date))
		}
		client := &stubMetadata{metadata: map[string]*schema.AppMetadata{
			"a": {Version: "1.0"},
		}}

		_, summary, err := RunUpdates(ctx, cfg, mgr, client)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.PairsAnalyzed)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("gp for CN is skipped entirely", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		gpCfg := testConfig()
		gpCfg.Countries = []string{"CN"}
		gpCfg.Platforms = []schema.Platform{schema.GPPlatform}

		for _, date := range []string{"20250101", "20250102"} {
			snap := &schema.Snapshot{
				Date: schema.ISODate(date), Platform: schema.GPPlatform,
				Country: "CN", Chart: schema.TopGrossingChart,
				Rows: []schema.RankRow{app("a", "Alpha", 1)},
			}
			require.NoError(t, store.PutSnapshot(snap.Key(), snap))
			require.NoError(t, store.InsertDate("CN", date))
		}
		client := &stubMetadata{}

		_, summary, err := RunUpdates(ctx, gpCfg, mgr, client)
		require.NoError(t, err)
		assert.Zero(t, summary.PairsAnalyzed)
		assert.Zero(t, client.calls)
	})

	t.Run("gp elsewhere counts as analyzed without lookups", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		gpCfg := testConfig()
		gpCfg.Platforms = []schema.Platform{schema.GPPlatform}

		for _, date := range []string{"20250101", "20250102"} {
			snap := &schema.Snapshot{
				Date: schema.ISODate(date), Platform: schema.GPPlatform,
				Country: "TW", Chart: schema.TopGrossingChart,
				Rows: []schema.RankRow{app("a", "Alpha", 1)},
			}
			require.NoError(t, store.PutSnapshot(snap.Key(), snap))
			require.NoError(t, store.InsertDate("TW", date))
		}
		client := &stubMetadata{}

		reports, summary, err := RunUpdates(ctx, gpCfg, mgr, client)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.PairsAnalyzed)
		assert.Zero(t, client.calls)
		assert.Empty(t, reports)
	})
}

// TestRunClassify tests category resolution over stored snapshots.
func TestRunClassify(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	t.Run("heuristic classification with stats", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		snap := snapshotOf("20250101",
			app("p", "Lucky Poker Night", 1),
			app("m", "Merge Mansion", 2),
			app("u", "Plain App", 3),
		)
		require.NoError(t, store.PutSnapshot(snap.Key(), snap))
		require.NoError(t, store.InsertDate("TW", "20250101"))

		summary, err := RunClassify(ctx, cfg, mgr, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.SnapshotsWritten)
		assert.Equal(t, 3, summary.NewCacheEntries)

		stored, ok, err := store.GetSnapshot(snap.Key())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, schema.SocialCasinoCategory, stored.Rows[0].AIType)
		assert.Equal(t, schema.CasualCategory, stored.Rows[1].AIType)
		assert.Equal(t, schema.CatchAllCategory, stored.Rows[2].AIType)
		assert.Equal(t, 1, stored.TypeCountsAI[schema.SocialCasinoCategory])
		assert.NotEmpty(t, stored.TypePercentagesAI)
	})

	t.Run("override beats cache and classifier", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()
		catalog := mgr.GetCatalogStore()

		_, err := catalog.SaveOverrides(map[string]schema.Category{"w": schema.CasualCategory})
		require.NoError(t, err)
		require.NoError(t, catalog.SaveResolved(map[string]schema.Category{"w": schema.StrategyCategory}))

		snap := snapshotOf("20250101", app("w", "W Game", 1))
		require.NoError(t, store.PutSnapshot(snap.Key(), snap))
		require.NoError(t, store.InsertDate("TW", "20250101"))

		classifier := &stubClassifier{label: schema.ActionCategory}
		_, err = RunClassify(ctx, cfg, mgr, classifier)
		require.NoError(t, err)

		stored, _, err := store.GetSnapshot(snap.Key())
		require.NoError(t, err)
		assert.Equal(t, schema.CasualCategory, stored.Rows[0].AIType)
		assert.Zero(t, classifier.calls)
	})

	t.Run("second run serves from cache and skips the save", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		snap := snapshotOf("20250101", app("m", "Merge Mansion", 1))
		require.NoError(t, store.PutSnapshot(snap.Key(), snap))
		require.NoError(t, store.InsertDate("TW", "20250101"))

		first, err := RunClassify(ctx, cfg, mgr, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, first.NewCacheEntries)

		second, err := RunClassify(ctx, cfg, mgr, nil)
		require.NoError(t, err)
		assert.Zero(t, second.NewCacheEntries, "cache already warm")
	})

	t.Run("unconfigured triples are left alone", func(t *testing.T) {
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		snap := &schema.Snapshot{
			Date: "2025-01-01", Platform: schema.IOSPlatform,
			Country: "US", Chart: schema.TopGrossingChart,
			Rows: []schema.RankRow{app("a", "Alpha", 1)},
		}
		require.NoError(t, store.PutSnapshot(snap.Key(), snap))
		require.NoError(t, store.InsertDate("US", "20250101"))

		summary, err := RunClassify(ctx, cfg, mgr, nil)
		require.NoError(t, err)
		assert.Zero(t, summary.SnapshotsWritten)
	})

	t.Run("only indexed dates are visited", func(t *testing.T) {
		// The date index decides what exists; a snapshot whose date was
		// never registered is invisible to classification.
		mgr := newTestManager(t)
		store := mgr.GetRankStore()

		indexed := snapshotOf("20250102", app("m", "Merge Mansion", 1))
		orphan := snapshotOf("20250101", app("p", "Lucky Poker Night", 1))
		require.NoError(t, store.PutSnapshot(indexed.Key(), indexed))
		require.NoError(t, store.PutSnapshot(orphan.Key(), orphan))
		require.NoError(t, store.InsertDate("TW", "20250102"))

		summary, err := RunClassify(ctx, cfg, mgr, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.SnapshotsWritten)

		stored, _, err := store.GetSnapshot(orphan.Key())
		require.NoError(t, err)
		assert.Empty(t, stored.Rows[0].AIType)
	})
}

// TestRunOverrideSync tests pulling overrides into the catalog.
func TestRunOverrideSync(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	t.Run("fetched overrides are persisted", func(t *testing.T) {
		mgr := newTestManager(t)
		src := &stubOverrides{overrides: map[string]schema.Category{
			"a": schema.CasualCategory,
			"b": schema.StrategyCategory,
		}}

		changed, err := RunOverrideSync(ctx, cfg, mgr, src)
		require.NoError(t, err)
		assert.Equal(t, 2, changed)

		overrides, err := mgr.GetCatalogStore().LoadOverrides()
		require.NoError(t, err)
		assert.Len(t, overrides, 2)

		// Unchanged re-sync writes nothing.
		changed, err = RunOverrideSync(ctx, cfg, mgr, src)
		require.NoError(t, err)
		assert.Zero(t, changed)
	})

	t.Run("fetch failure surfaces", func(t *testing.T) {
		mgr := newTestManager(t)
		src := &stubOverrides{err: assert.AnError}
		_, err := RunOverrideSync(ctx, cfg, mgr, src)
		assert.Error(t, err)
	})
}

// TestRunAll tests the full pipeline end to end.
func TestRunAll(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	mgr := newTestManager(t)

	source := &stubSheet{rows: []schema.RawChartRow{
		rawRow("20250101", "x", 1),
		rawRow("20250101", "z", 15),
		rawRow("20250102", "x", 3),
		rawRow("20250102", "z", 25),
	}}
	client := &stubMetadata{metadata: map[string]*schema.AppMetadata{
		"x": {Version: "1.0"},
		"z": {Version: "2.0"},
	}}

	summary, err := RunAll(ctx, cfg, mgr, source, nil, client)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, summary.SnapshotsWritten, 2)
	assert.GreaterOrEqual(t, summary.PairsAnalyzed, 2, "one movers pair plus one updates pair")
	assert.Equal(t, 1, summary.MoversReports, "Z fell 10 places")
	assert.Zero(t, summary.WriteFailures)

	var movers schema.MoversReport
	ok, err := mgr.GetRankStore().GetReport(schema.MoversReportKey("20250102"), &movers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, movers["TW"][schema.IOSPlatform][schema.TopGrossingChart], 1)
}
