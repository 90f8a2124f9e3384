package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// rankFallback sorts rows without a usable rank to the end of the snapshot.
const rankFallback = 9999

// GroupRows partitions parsed source rows into snapshots, one per
// (country, platform, chart, date) key, with rows ordered by ascending rank
// and deduplicated on app id (first occurrence wins). Keys are returned in
// sorted order so ingestion is deterministic.
func GroupRows(rows []schema.RawChartRow) []*schema.Snapshot {
	grouped := make(map[schema.RankKey]*schema.Snapshot)
	seen := make(map[schema.RankKey]map[string]struct{})
	for _, row := range rows {
		key := row.GroupKey()
		snap := grouped[key]
		if snap == nil {
			snap = &schema.Snapshot{
				Date:     schema.ISODate(key.Date),
				Platform: key.Platform,
				Country:  key.Country,
				Chart:    key.Chart,
			}
			grouped[key] = snap
			seen[key] = make(map[string]struct{})
		}
		if _, dup := seen[key][row.AppID]; dup {
			continue
		}
		seen[key][row.AppID] = struct{}{}
		snap.Rows = append(snap.Rows, schema.RankRow{
			Rank:      row.Rank,
			AppID:     row.AppID,
			AppName:   row.AppName,
			Developer: row.Developer,
			Genre:     row.Genre,
		})
	}

	keys := make([]schema.RankKey, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	snaps := make([]*schema.Snapshot, 0, len(keys))
	for _, key := range keys {
		snap := grouped[key]
		sort.SliceStable(snap.Rows, func(i, j int) bool {
			return sortableRank(snap.Rows[i].Rank) < sortableRank(snap.Rows[j].Rank)
		})
		snaps = append(snaps, snap)
	}
	return snaps
}

func sortableRank(rank int) int {
	if rank <= 0 {
		return rankFallback
	}
	return rank
}

// RunIngest pulls the tabular source, groups rows into snapshots and
// persists them with day-over-day deltas applied. Deltas are computed before
// the snapshot's date is registered in the date index, so the predecessor
// lookup never matches the date being ingested. A persistence failure for one
// snapshot is logged and skips that snapshot only.
func RunIngest(ctx context.Context, cfg *contract.Config, source contract.SheetSource, mgr contract.StoreManager) (*schema.RunSummary, error) {
	rows, err := source.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheet fetch failed: %w", err)
	}

	store := mgr.GetRankStore()
	summary := &schema.RunSummary{}
	for _, snap := range GroupRows(rows) {
		key := snap.Key()
		if err := ApplyDeltas(store, snap); err != nil {
			contract.LogWarn("delta computation failed for "+key.String(), err)
		}
		RecomputeStats(snap)
		if err := store.PutSnapshot(key, snap); err != nil {
			contract.LogWarn("snapshot write failed for "+key.String(), err)
			summary.WriteFailures++
			continue
		}
		if err := store.InsertDate(key.Country, key.Date); err != nil {
			contract.LogWarn("date index update failed for "+key.Country, err)
			summary.WriteFailures++
			continue
		}
		summary.SnapshotsWritten++
	}

	fmt.Printf("Ingested %d snapshots from %d source rows\n", summary.SnapshotsWritten, len(rows))
	return summary, nil
}
