package outwriter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

func sampleSnapshot() *schema.Snapshot {
	return &schema.Snapshot{
		Date: "2025-01-02", Platform: schema.IOSPlatform,
		Country: "TW", Chart: schema.TopGrossingChart,
		Rows: []schema.RankRow{
			{Rank: 1, AppID: "a", AppName: "Alpha Quest", Developer: "Acme", Genre: "Games", Delta: 3, AIType: schema.RolePlayingCategory},
			{Rank: 2, AppID: "b", AppName: "Merge Mansion", Developer: "Beta Co", Genre: "Games", Delta: -1, AIType: schema.CasualCategory},
		},
		TypeCountsAI: map[schema.Category]int{
			schema.RolePlayingCategory: 1,
			schema.CasualCategory:      1,
		},
		TypePercentagesAI: map[schema.Category]int{
			schema.RolePlayingCategory: 50,
			schema.CasualCategory:      50,
		},
	}
}

func TestWriteSnapshotCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeSnapshotCSV(&buf, sampleSnapshot())
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Alpha Quest", records[1][1])
	assert.Equal(t, "3", records[1][4])
	assert.Equal(t, string(schema.CasualCategory), records[2][5])
}

func TestWriteSnapshotTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut}

	t.Run("renders header rows and breakdown", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeSnapshotTable(&buf, sampleSnapshot(), cfg)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "TW ios top_grossing (2025-01-02)")
		assert.Contains(t, out, "Alpha Quest")
		assert.Contains(t, out, "+3")
		assert.Contains(t, out, "Categories:")
		assert.Contains(t, out, "50%")
	})

	t.Run("breakdown honors configured precision", func(t *testing.T) {
		var buf bytes.Buffer
		snap := sampleSnapshot()
		snap.TypeCountsAI = map[schema.Category]int{
			schema.CasualCategory:   2,
			schema.StrategyCategory: 1,
		}
		precise := &contract.Config{Output: schema.TextOut, Precision: 1}
		err := writeSnapshotTable(&buf, snap, precise)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "66.7%")
		assert.Contains(t, out, "33.3%")
	})

	t.Run("empty snapshot", func(t *testing.T) {
		var buf bytes.Buffer
		snap := sampleSnapshot()
		snap.Rows = nil
		err := writeSnapshotTable(&buf, snap, cfg)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "No entries.")
	})
}

func TestWriteRunSummaryText(t *testing.T) {
	t.Run("counters and duration", func(t *testing.T) {
		var buf bytes.Buffer
		summary := &schema.RunSummary{SnapshotsWritten: 4, PairsAnalyzed: 2, MoversReports: 1}
		err := writeSummaryText(&buf, summary, 2*time.Second)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Snapshots written:  4")
		assert.Contains(t, out, "Pairs analyzed:     2")
		assert.NotContains(t, out, "No eligible date pairs")
	})

	t.Run("zero pairs condition", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeSummaryText(&buf, &schema.RunSummary{}, time.Second)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "No eligible date pairs found")
	})
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", truncateName("short", 10))
	assert.Equal(t, "a ve...", truncateName("a very long app name", 7))
	assert.Equal(t, "abc", truncateName("abcdef", 3))
}
