package core

import (
	"sort"

	"github.com/chartpulse/chartpulse/schema"
)

// ExtractMovers returns the apps whose rank swung by at least
// schema.MoverThreshold positions between prev and cur, sorted by descending
// swing magnitude and capped at schema.MoverLimit. Only apps present in both
// snapshots qualify; newly charted or dropped apps are not movers. Ties on
// magnitude keep the current snapshot's rank order so output is deterministic.
func ExtractMovers(cur, prev *schema.Snapshot) []schema.MoverRecord {
	if cur == nil || prev == nil {
		return nil
	}

	prevRanks := prev.RankMap()
	type candidate struct {
		record  schema.MoverRecord
		curRank int
	}
	var candidates []candidate
	for _, row := range cur.Rows {
		prevRank, seen := prevRanks[row.AppID]
		if !seen {
			continue
		}
		delta := prevRank - row.Rank
		if abs(delta) < schema.MoverThreshold {
			continue
		}
		direction := schema.FallDirection
		if delta > 0 {
			direction = schema.RiseDirection
		}
		candidates = append(candidates, candidate{
			record:  schema.MoverRecord{Name: row.AppName, Delta: delta, Direction: direction},
			curRank: row.Rank,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := abs(candidates[i].record.Delta), abs(candidates[j].record.Delta)
		if di != dj {
			return di > dj
		}
		return candidates[i].curRank < candidates[j].curRank
	})
	if len(candidates) > schema.MoverLimit {
		candidates = candidates[:schema.MoverLimit]
	}

	movers := make([]schema.MoverRecord, 0, len(candidates))
	for _, c := range candidates {
		movers = append(movers, c.record)
	}
	return movers
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
