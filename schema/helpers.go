package schema

import "strings"

// lower is a thin alias so key builders stay on one line.
func lower(s string) string { return strings.ToLower(s) }

// CompactDate converts an ISO date ("2025-01-01") to the compact key form
// ("20250101"). Already-compact input passes through unchanged.
func CompactDate(date string) string {
	return strings.ReplaceAll(strings.TrimSpace(date), "-", "")
}

// ISODate converts a compact date ("20250101") to ISO form ("2025-01-01").
// Input that is not 8 digits passes through unchanged.
func ISODate(compact string) string {
	if len(compact) != 8 {
		return compact
	}
	return compact[:4] + "-" + compact[4:6] + "-" + compact[6:]
}

// BaselineKey builds the storage key for a metadata baseline unit,
// e.g. "baseline_ios_tw_top_grossing_20250101".
func BaselineKey(key RankKey) string {
	return "baseline_" + key.String()
}

// MoversReportKey builds the storage key for a movers report unit.
// One report per date aggregates all countries, platforms and charts.
func MoversReportKey(date string) string {
	return "movers_" + date
}

// UpdatesReportKey builds the storage key for an updates report unit.
func UpdatesReportKey(date string) string {
	return "updates_" + date
}

// NormalizeCountry upper-cases a country code, defaulting to TW when blank.
func NormalizeCountry(cc string) string {
	cc = strings.ToUpper(strings.TrimSpace(cc))
	if cc == "" {
		return "TW"
	}
	return cc
}

// NormalizeChart maps a free-form chart label (Traditional Chinese,
// Simplified Chinese or English) onto a Chart value.
func NormalizeChart(label string) Chart {
	name := strings.ToLower(strings.TrimSpace(label))
	switch {
	case containsAny(name, "免費", "免费", "free"):
		return TopFreeChart
	case containsAny(name, "暢銷", "畅销", "營收", "grossing", "revenue"):
		return TopGrossingChart
	default:
		return TopOtherChart
	}
}

// NormalizePlatform maps a free-form platform label onto a Platform value.
// Unrecognized labels default to ios for compatibility with older data.
func NormalizePlatform(label string) Platform {
	name := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.Contains(name, "google") || strings.Contains(name, "gp"):
		return GPPlatform
	default:
		return IOSPlatform
	}
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
