package core

import (
	"math"

	"github.com/chartpulse/chartpulse/schema"
)

// RecomputeStats rebuilds the snapshot's derived histograms from scratch:
// TypeCounts over raw genres, TypeCountsAI and TypePercentagesAI over the
// rows that received a category. Derived maps are recomputed, never
// incrementally updated, so re-running on the same rows is idempotent.
func RecomputeStats(snap *schema.Snapshot) {
	typeCounts := make(map[string]int)
	aiCounts := make(map[schema.Category]int)
	classified := 0
	for _, row := range snap.Rows {
		if row.Genre != "" {
			typeCounts[row.Genre]++
		}
		if row.AIType != "" {
			aiCounts[row.AIType]++
			classified++
		}
	}

	aiPercentages := make(map[schema.Category]int, len(aiCounts))
	if classified > 0 {
		for cat, count := range aiCounts {
			aiPercentages[cat] = int(math.Round(float64(count) / float64(classified) * 100))
		}
	}

	snap.TypeCounts = typeCounts
	snap.TypeCountsAI = aiCounts
	snap.TypePercentagesAI = aiPercentages
}
