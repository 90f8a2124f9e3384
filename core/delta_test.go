package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/schema"
)

// TestFindPreviousDate tests predecessor lookup over a descending date index.
func TestFindPreviousDate(t *testing.T) {
	dates := []string{"20250103", "20250102", "20250101"}

	tests := []struct {
		name string
		date string
		want string
		ok   bool
	}{
		{"present mid-list", "20250102", "20250101", true},
		{"present newest", "20250103", "20250102", true},
		{"present oldest", "20250101", "", false},
		{"absent between entries", "20250102x", "20250102", true},
		{"absent newer than all", "20250104", "20250103", true},
		{"absent older than all", "20241231", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FindPreviousDate(dates, tc.date)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("empty index", func(t *testing.T) {
		_, ok := FindPreviousDate(nil, "20250101")
		assert.False(t, ok)
	})
}

// TestApplyDeltas tests day-over-day delta computation against the store.
func TestApplyDeltas(t *testing.T) {
	mgr := newTestManager(t)
	store := mgr.GetRankStore()

	t.Run("no predecessor leaves deltas at zero", func(t *testing.T) {
		snap := snapshotOf("20250101", app("x", "X", 1), app("y", "Y", 2))
		require.NoError(t, ApplyDeltas(store, snap))
		for _, row := range snap.Rows {
			assert.Equal(t, 0, row.Delta)
		}
	})

	t.Run("deltas against previous snapshot", func(t *testing.T) {
		prev := snapshotOf("20250101", app("x", "X", 1), app("y", "Y", 2), app("z", "Z", 15))
		require.NoError(t, store.PutSnapshot(prev.Key(), prev))
		require.NoError(t, store.InsertDate("TW", "20250101"))

		cur := snapshotOf("20250102", app("x", "X", 3), app("y", "Y", 1), app("z", "Z", 20))
		require.NoError(t, ApplyDeltas(store, cur))

		assert.Equal(t, -2, cur.Rows[0].Delta, "X fell #1 to #3")
		assert.Equal(t, 1, cur.Rows[1].Delta, "Y rose #2 to #1")
		assert.Equal(t, -5, cur.Rows[2].Delta, "Z fell #15 to #20")
	})

	t.Run("newly charted app keeps zero delta", func(t *testing.T) {
		cur := snapshotOf("20250102", app("x", "X", 3), app("new", "Newcomer", 4))
		require.NoError(t, ApplyDeltas(store, cur))
		assert.Equal(t, -2, cur.Rows[0].Delta)
		assert.Equal(t, 0, cur.Rows[1].Delta)
	})

	t.Run("self date already registered is excluded", func(t *testing.T) {
		cur := snapshotOf("20250102", app("x", "X", 3))
		require.NoError(t, store.PutSnapshot(cur.Key(), cur))
		require.NoError(t, store.InsertDate("TW", "20250102"))

		// Re-running against its own registered date still compares with
		// 20250101, not with itself.
		rerun := snapshotOf("20250102", app("x", "X", 3))
		require.NoError(t, ApplyDeltas(store, rerun))
		assert.Equal(t, -2, rerun.Rows[0].Delta)
	})

	t.Run("idempotent recomputation", func(t *testing.T) {
		snap := snapshotOf("20250102", app("x", "X", 3), app("y", "Y", 1))
		require.NoError(t, ApplyDeltas(store, snap))
		first := append([]schema.RankRow(nil), snap.Rows...)
		require.NoError(t, ApplyDeltas(store, snap))
		assert.Equal(t, first, snap.Rows)
	})
}
