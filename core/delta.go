package core

import (
	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// FindPreviousDate returns the chronologically previous available date
// relative to date, given the country's date index newest first. If date is
// present, the entry immediately after it wins; otherwise the first entry
// lexicographically less than date wins. Compact dates are zero padded, so
// lexicographic order equals chronological order.
func FindPreviousDate(dates []string, date string) (string, bool) {
	for i, d := range dates {
		if d == date {
			if i+1 < len(dates) {
				return dates[i+1], true
			}
			return "", false
		}
	}
	for _, d := range dates {
		if d < date {
			return d, true
		}
	}
	return "", false
}

// ApplyDeltas mutates snap's rows in place, setting each Delta to the rank
// positions gained since the most recent earlier snapshot of the same triple.
// Rows absent from the predecessor keep Delta = 0, as does every row when no
// predecessor exists. The comparison is keyed by app id, not list position.
//
// The date index is read before the current date is registered, so a freshly
// ingested snapshot never matches itself.
func ApplyDeltas(store contract.RankStore, snap *schema.Snapshot) error {
	for i := range snap.Rows {
		snap.Rows[i].Delta = 0
	}

	key := snap.Key()
	dates, err := store.ListDates(key.Country)
	if err != nil {
		return err
	}
	prevDate, ok := FindPreviousDate(dates, key.Date)
	if !ok {
		return nil
	}

	prev, ok, err := store.GetSnapshot(key.WithDate(prevDate))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	prevRanks := prev.RankMap()
	for i := range snap.Rows {
		if prevRank, seen := prevRanks[snap.Rows[i].AppID]; seen {
			snap.Rows[i].Delta = prevRank - snap.Rows[i].Rank
		}
	}
	return nil
}
