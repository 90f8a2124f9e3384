package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRankKeyString tests canonical key formatting.
func TestRankKeyString(t *testing.T) {
	key := RankKey{Country: "TW", Platform: IOSPlatform, Chart: TopGrossingChart, Date: "20250101"}

	t.Run("full key", func(t *testing.T) {
		assert.Equal(t, "ios_tw_top_grossing_20250101", key.String())
	})

	t.Run("triple key", func(t *testing.T) {
		assert.Equal(t, "ios_tw_top_grossing", key.Triple())
	})

	t.Run("with date", func(t *testing.T) {
		prev := key.WithDate("20241231")
		assert.Equal(t, "ios_tw_top_grossing_20241231", prev.String())
		assert.Equal(t, "20250101", key.Date, "original key is unchanged")
	})
}

// TestDateConversion tests compact/ISO date round trips.
func TestDateConversion(t *testing.T) {
	assert.Equal(t, "20250101", CompactDate("2025-01-01"))
	assert.Equal(t, "20250101", CompactDate("20250101"))
	assert.Equal(t, "2025-01-01", ISODate("20250101"))
	assert.Equal(t, "bogus", ISODate("bogus"))
}

// TestNormalizeChart tests chart label recognition across languages.
func TestNormalizeChart(t *testing.T) {
	cases := map[string]Chart{
		"免費榜":          TopFreeChart,
		"免费榜":          TopFreeChart,
		"Top Free":     TopFreeChart,
		"暢銷榜":          TopGrossingChart,
		"畅销榜":          TopGrossingChart,
		"Top Grossing": TopGrossingChart,
		"Revenue":      TopGrossingChart,
		"新上架":          TopOtherChart,
		"":             TopOtherChart,
	}
	for label, want := range cases {
		assert.Equal(t, want, NormalizeChart(label), "label %q", label)
	}
}

// TestNormalizePlatform tests platform label recognition.
func TestNormalizePlatform(t *testing.T) {
	assert.Equal(t, GPPlatform, NormalizePlatform("Google Play"))
	assert.Equal(t, GPPlatform, NormalizePlatform("gp"))
	assert.Equal(t, IOSPlatform, NormalizePlatform("iOS"))
	assert.Equal(t, IOSPlatform, NormalizePlatform("App Store"))
	assert.Equal(t, IOSPlatform, NormalizePlatform(""), "unknown labels default to ios")
}

// TestNormalizeCountry tests country code defaults.
func TestNormalizeCountry(t *testing.T) {
	assert.Equal(t, "TW", NormalizeCountry(" tw "))
	assert.Equal(t, "US", NormalizeCountry("us"))
	assert.Equal(t, "TW", NormalizeCountry(""))
}

// TestReportKeys tests report key builders.
func TestReportKeys(t *testing.T) {
	key := RankKey{Country: "US", Platform: GPPlatform, Chart: TopFreeChart, Date: "20250102"}
	assert.Equal(t, "baseline_gp_us_top_free_20250102", BaselineKey(key))
	assert.Equal(t, "movers_20250102", MoversReportKey("20250102"))
	assert.Equal(t, "updates_20250102", UpdatesReportKey("20250102"))
}

// TestReportCountryKeyCasing tests that both report types normalize the
// country key the same way, so persisted reports and filters agree.
func TestReportCountryKeyCasing(t *testing.T) {
	movers := MoversReport{}
	movers.Add("tw", IOSPlatform, TopGrossingChart, []MoverRecord{{Name: "A", Delta: 12, Direction: RiseDirection}})

	updates := UpdatesReport{}
	updates.Add("tw", IOSPlatform, TopGrossingChart, map[string]UpdateEvent{"A": {Event: UpdateEventTag}})

	assert.Contains(t, movers, "TW")
	assert.NotContains(t, movers, "tw")
	assert.Contains(t, updates, "TW")
	assert.NotContains(t, updates, "tw")
}
