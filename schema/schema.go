// Package schema has configs, models and global variables for all parts of chartpulse.
package schema

import "fmt"

// RankKey identifies exactly one snapshot. Immutable once created.
type RankKey struct {
	Country  string   // Upper-case ISO country code, e.g. "TW"
	Platform Platform // ios or gp
	Chart    Chart    // top_grossing, top_free or top_other
	Date     string   // Compact date, e.g. "20250101"
}

// String returns the canonical storage key for the snapshot,
// e.g. "ios_tw_top_grossing_20250101".
func (k RankKey) String() string {
	return fmt.Sprintf("%s_%s", k.Triple(), k.Date)
}

// Triple returns the date-independent part of the key,
// e.g. "ios_tw_top_grossing". Used for latest pointers.
func (k RankKey) Triple() string {
	return TripleKey(k.Country, k.Platform, k.Chart)
}

// WithDate returns a copy of the key pointing at another date.
func (k RankKey) WithDate(date string) RankKey {
	k.Date = date
	return k
}

// TripleKey builds the date-independent key for a (country, platform, chart).
func TripleKey(country string, platform Platform, chart Chart) string {
	return fmt.Sprintf("%s_%s_%s", platform, lower(country), chart)
}

// RankRow is one ranked app within a snapshot. App identity is AppID;
// AppID values are unique within a snapshot.
type RankRow struct {
	Rank      int      `json:"rank"`
	AppID     string   `json:"app_id"`
	AppName   string   `json:"app_name"`
	Developer string   `json:"developer"`
	Genre     string   `json:"genre"`   // Raw source-reported category
	Delta     int      `json:"delta"`   // Rank positions gained; positive = moved toward #1
	Alert     bool     `json:"alert"`
	AIType    Category `json:"ai_type,omitempty"` // Resolved category, empty until classified
}

// Snapshot is one ranked list for a (country, platform, chart, date).
// Rows are ordered by ascending rank. Analytics mutate row fields (Delta,
// AIType) and the derived count maps, but never rows membership or Rank.
type Snapshot struct {
	Date              string           `json:"date"` // ISO date, e.g. "2025-01-01"
	Platform          Platform         `json:"platform"`
	Country           string           `json:"country"`
	Chart             Chart            `json:"chart"`
	TypeCounts        map[string]int   `json:"type_counts,omitempty"`        // Raw genre histogram
	TypeCountsAI      map[Category]int `json:"type_counts_ai,omitempty"`     // Category histogram
	TypePercentagesAI map[Category]int `json:"type_percentages_ai,omitempty"` // Rounded integer percentages
	Rows              []RankRow        `json:"rows"`
}

// Key returns the RankKey identifying this snapshot.
func (s *Snapshot) Key() RankKey {
	return RankKey{
		Country:  s.Country,
		Platform: s.Platform,
		Chart:    s.Chart,
		Date:     CompactDate(s.Date),
	}
}

// RankMap builds an app_id to rank mapping from the snapshot rows.
func (s *Snapshot) RankMap() map[string]int {
	m := make(map[string]int, len(s.Rows))
	for _, r := range s.Rows {
		m[r.AppID] = r.Rank
	}
	return m
}

// RawChartRow is one parsed row from the tabular ingestion source, before
// grouping into snapshots.
type RawChartRow struct {
	Date      string // Compact date
	Platform  Platform
	Country   string
	Chart     Chart
	AppID     string
	AppName   string
	Developer string
	Genre     string
	Rank      int
}

// GroupKey returns the snapshot key this row belongs to.
func (r RawChartRow) GroupKey() RankKey {
	return RankKey{Country: r.Country, Platform: r.Platform, Chart: r.Chart, Date: r.Date}
}
