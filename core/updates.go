package core

import (
	"context"
	"sort"
	"sync"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// CollectMetadata fetches version metadata for the top ranked apps of a
// snapshot and returns the resulting baseline keyed by app name. Lookups are
// bounded to schema.MetadataTopLimit candidates and fan out over a worker
// pool; a failed lookup excludes that app from the baseline and never aborts
// the batch.
func CollectMetadata(ctx context.Context, cfg *contract.Config, client contract.MetadataClient, snap *schema.Snapshot) schema.MetadataBaseline {
	candidates := topRows(snap, schema.MetadataTopLimit)

	rowCh := make(chan schema.RankRow, len(candidates))
	resultCh := make(chan schema.AppMetadata, len(candidates))
	var wg sync.WaitGroup

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	for range workers {
		wg.Go(func() {
			for row := range rowCh {
				meta, err := client.Lookup(ctx, row.AppID)
				if err != nil {
					contract.LogWarn("metadata lookup failed for "+row.AppID, err)
					continue
				}
				meta.AppID = row.AppID
				resultCh <- *meta
			}
		})
	}

	baseline := make(schema.MetadataBaseline, len(candidates))
	names := make(map[string]string, len(candidates))
	for _, row := range candidates {
		names[row.AppID] = row.AppName
		rowCh <- row
	}
	close(rowCh)

	wg.Wait()
	close(resultCh)

	// Single aggregating loop keeps baseline writes on one goroutine.
	for meta := range resultCh {
		baseline[names[meta.AppID]] = meta
	}
	return baseline
}

// DetectUpdates compares today's freshly fetched baseline against the
// baseline persisted for the predecessor date and emits an event for every
// app whose version or release timestamp changed. An app with no prior
// baseline entry is a first sighting and produces no event.
//
// Comparison is keyed by app display name, matching the persisted baseline
// layout. A rename or name collision between runs goes undetected.
func DetectUpdates(today, prior schema.MetadataBaseline) map[string]schema.UpdateEvent {
	updates := make(map[string]schema.UpdateEvent)
	for name, meta := range today {
		old, seen := prior[name]
		if !seen {
			continue
		}
		if meta.Version == old.Version && meta.Updated == old.Updated {
			continue
		}
		updates[name] = schema.UpdateEvent{
			AppName:      name,
			AppID:        meta.AppID,
			Version:      meta.Version,
			Updated:      meta.Updated,
			ReleaseNotes: meta.ReleaseNotes,
			Event:        schema.UpdateEventTag,
		}
	}
	return updates
}

// topRows returns the snapshot's best-ranked rows, at most limit of them.
func topRows(snap *schema.Snapshot, limit int) []schema.RankRow {
	rows := make([]schema.RankRow, len(snap.Rows))
	copy(rows, snap.Rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
