package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// RunClassify resolves a category for every row of every snapshot reachable
// through the date index for the configured cross-product, and recomputes the
// derived histograms. The category cache is loaded once at the start and
// saved back once at the end, only when the run produced new entries.
// classifier may be nil; the keyword heuristic then becomes the terminal
// strategy.
func RunClassify(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, classifier contract.Classifier) (*schema.RunSummary, error) {
	catalog := mgr.GetCatalogStore()
	cache, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("category cache load failed: %w", err)
	}
	overrides, err := catalog.LoadOverrides()
	if err != nil {
		return nil, fmt.Errorf("override load failed: %w", err)
	}
	resolver := NewResolver(overrides, cache, classifier)

	store := mgr.GetRankStore()
	summary := &schema.RunSummary{}
	for _, country := range cfg.Countries {
		dates, err := store.ListDates(country)
		if err != nil {
			return nil, fmt.Errorf("date index read failed for %s: %w", country, err)
		}
		for _, date := range dates {
			for _, platform := range cfg.Platforms {
				for _, chart := range cfg.Charts {
					key := schema.RankKey{Country: country, Platform: platform, Chart: chart, Date: date}
					snap, found, err := store.GetSnapshot(key)
					if err != nil {
						contract.LogWarn("snapshot read failed for "+key.String(), err)
						continue
					}
					if !found {
						continue
					}
					for i := range snap.Rows {
						row := &snap.Rows[i]
						row.AIType = resolver.Resolve(ctx, row.AppID, row.AppName, row.Genre)
					}
					RecomputeStats(snap)
					if err := store.PutSnapshot(key, snap); err != nil {
						contract.LogWarn("snapshot write failed for "+key.String(), err)
						summary.WriteFailures++
						continue
					}
					summary.SnapshotsWritten++
				}
			}
		}
	}

	pending := resolver.Pending()
	if len(pending) > 0 {
		if err := catalog.SaveResolved(pending); err != nil {
			contract.LogWarn("category cache save failed", err)
			summary.WriteFailures++
		} else {
			summary.NewCacheEntries = len(pending)
		}
	}

	fmt.Printf("Classified %d snapshots (%d new cache entries)\n",
		summary.SnapshotsWritten, summary.NewCacheEntries)
	return summary, nil
}

// RunMovers analyzes every adjacent date pair of every configured country
// and extracts the significant movers per platform and chart. Results are
// grouped into one report per date and persisted; a pair with a missing
// snapshot on either side is counted as skipped, never as a failure.
func RunMovers(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (map[string]schema.MoversReport, *schema.RunSummary, error) {
	store := mgr.GetRankStore()
	summary := &schema.RunSummary{}
	var results []schema.PairResult

	for _, country := range cfg.Countries {
		dates, err := store.ListDates(country)
		if err != nil {
			return nil, nil, fmt.Errorf("date index read failed for %s: %w", country, err)
		}
		if len(dates) < 2 {
			fmt.Printf("%s: fewer than 2 available dates, skipping\n", country)
			continue
		}
		for i := 0; i+1 < len(dates); i++ {
			today, yday := dates[i], dates[i+1]
			for _, platform := range cfg.Platforms {
				for _, chart := range cfg.Charts {
					results = append(results, moversForPair(store, country, platform, chart, today, yday))
				}
			}
		}
	}

	reports := make(map[string]schema.MoversReport)
	for _, res := range results {
		if res.Skipped {
			summary.PairsSkipped++
			continue
		}
		summary.PairsAnalyzed++
		if len(res.Movers) == 0 {
			continue
		}
		if reports[res.Date] == nil {
			reports[res.Date] = make(schema.MoversReport)
		}
		reports[res.Date].Add(res.Country, res.Platform, res.Chart, res.Movers)
	}

	for _, date := range sortedKeys(reports) {
		if err := store.PutReport(schema.MoversReportKey(date), reports[date]); err != nil {
			contract.LogWarn("movers report write failed for "+date, err)
			summary.WriteFailures++
			continue
		}
		summary.MoversReports++
	}

	fmt.Printf("Movers: %d pairs analyzed, %d skipped, %d reports written\n",
		summary.PairsAnalyzed, summary.PairsSkipped, summary.MoversReports)
	return reports, summary, nil
}

// moversForPair analyzes one (country, platform, chart, date pair) unit.
func moversForPair(store contract.RankStore, country string, platform schema.Platform, chart schema.Chart, today, yday string) schema.PairResult {
	res := schema.PairResult{
		Country: country, Platform: platform, Chart: chart,
		Date: today, PrevDate: yday,
	}
	key := schema.RankKey{Country: country, Platform: platform, Chart: chart, Date: today}
	cur, ok, err := store.GetSnapshot(key)
	if err != nil || !ok {
		res.Skipped = true
		return res
	}
	prev, ok, err := store.GetSnapshot(key.WithDate(yday))
	if err != nil || !ok {
		res.Skipped = true
		return res
	}
	res.Movers = ExtractMovers(cur, prev)
	return res
}

// RunUpdates detects version updates for the newest adjacent date pair of
// every configured country. Only the newest pair is processed per run; older
// pairs have no usable baseline. Google Play version lookup is not supported,
// so gp units contribute empty baselines and no events, and gp is skipped
// outright for CN where no Play store exists.
func RunUpdates(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, meta contract.MetadataClient) (map[string]schema.UpdatesReport, *schema.RunSummary, error) {
	store := mgr.GetRankStore()
	summary := &schema.RunSummary{}
	reports := make(map[string]schema.UpdatesReport)

	for _, country := range cfg.Countries {
		dates, err := store.ListDates(country)
		if err != nil {
			return nil, nil, fmt.Errorf("date index read failed for %s: %w", country, err)
		}
		if len(dates) < 2 {
			fmt.Printf("%s: fewer than 2 available dates, skipping\n", country)
			continue
		}
		today, yday := dates[0], dates[1]

		for _, platform := range cfg.Platforms {
			if platform == schema.GPPlatform && country == "CN" {
				continue
			}
			for _, chart := range cfg.Charts {
				res := updatesForPair(ctx, cfg, store, meta, country, platform, chart, today, yday)
				if res.Skipped {
					summary.PairsSkipped++
					continue
				}
				summary.PairsAnalyzed++

				key := schema.RankKey{Country: country, Platform: platform, Chart: chart, Date: today}
				if len(res.Baseline) > 0 {
					if err := store.PutBaseline(key, res.Baseline); err != nil {
						contract.LogWarn("baseline write failed for "+key.String(), err)
						summary.WriteFailures++
					}
				}
				if len(res.Updates) == 0 {
					continue
				}
				if reports[today] == nil {
					reports[today] = make(schema.UpdatesReport)
				}
				reports[today].Add(country, platform, chart, res.Updates)
			}
		}
	}

	for _, date := range sortedKeys(reports) {
		if err := store.PutReport(schema.UpdatesReportKey(date), reports[date]); err != nil {
			contract.LogWarn("updates report write failed for "+date, err)
			summary.WriteFailures++
			continue
		}
		summary.UpdatesReports++
	}

	fmt.Printf("Updates: %d pairs analyzed, %d skipped, %d reports written\n",
		summary.PairsAnalyzed, summary.PairsSkipped, summary.UpdatesReports)
	return reports, summary, nil
}

// updatesForPair detects updates for one (country, platform, chart) unit on
// the newest date pair.
func updatesForPair(ctx context.Context, cfg *contract.Config, store contract.RankStore, meta contract.MetadataClient, country string, platform schema.Platform, chart schema.Chart, today, yday string) schema.PairResult {
	res := schema.PairResult{
		Country: country, Platform: platform, Chart: chart,
		Date: today, PrevDate: yday,
	}
	key := schema.RankKey{Country: country, Platform: platform, Chart: chart, Date: today}
	cur, ok, err := store.GetSnapshot(key)
	if err != nil || !ok {
		res.Skipped = true
		return res
	}
	if _, ok, err := store.GetSnapshot(key.WithDate(yday)); err != nil || !ok {
		res.Skipped = true
		return res
	}

	if platform != schema.IOSPlatform {
		// No Play version lookup. The unit still counts as analyzed so the
		// summary reflects the full cross-product.
		res.Updates = map[string]schema.UpdateEvent{}
		res.Baseline = schema.MetadataBaseline{}
		return res
	}

	res.Baseline = CollectMetadata(ctx, cfg, meta, cur)
	prior, ok, err := store.GetBaseline(key.WithDate(yday))
	if err != nil {
		contract.LogWarn("baseline read failed for "+key.WithDate(yday).String(), err)
	}
	if !ok {
		prior = schema.MetadataBaseline{}
	}
	res.Updates = DetectUpdates(res.Baseline, prior)
	return res
}

// RunOverrideSync pulls the human-curated override map wholesale and merges
// it into the catalog store. Only changed rows are counted.
func RunOverrideSync(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, src contract.OverrideSource) (int, error) {
	overrides, err := src.FetchOverrides(ctx)
	if err != nil {
		return 0, fmt.Errorf("override fetch failed: %w", err)
	}
	changed, err := mgr.GetCatalogStore().SaveOverrides(overrides)
	if err != nil {
		return 0, fmt.Errorf("override save failed: %w", err)
	}
	fmt.Printf("Override sync: %d entries fetched, %d changed\n", len(overrides), changed)
	return changed, nil
}

// RunAll executes the full pipeline in dependency order: ingest, classify,
// movers, updates. Each stage degrades gracefully; the merged summary
// reports produced vs skipped units across all stages.
func RunAll(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, source contract.SheetSource, classifier contract.Classifier, meta contract.MetadataClient) (*schema.RunSummary, error) {
	total := &schema.RunSummary{}

	ingest, err := RunIngest(ctx, cfg, source, mgr)
	if err != nil {
		return nil, err
	}
	mergeSummary(total, ingest)

	classify, err := RunClassify(ctx, cfg, mgr, classifier)
	if err != nil {
		return nil, err
	}
	mergeSummary(total, classify)

	_, movers, err := RunMovers(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	mergeSummary(total, movers)

	_, updates, err := RunUpdates(ctx, cfg, mgr, meta)
	if err != nil {
		return nil, err
	}
	mergeSummary(total, updates)

	return total, nil
}

func mergeSummary(dst, src *schema.RunSummary) {
	dst.SnapshotsWritten += src.SnapshotsWritten
	dst.PairsAnalyzed += src.PairsAnalyzed
	dst.PairsSkipped += src.PairsSkipped
	dst.MoversReports += src.MoversReports
	dst.UpdatesReports += src.UpdatesReports
	dst.NewCacheEntries += src.NewCacheEntries
	dst.WriteFailures += src.WriteFailures
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
