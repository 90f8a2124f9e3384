// Package parquet provides data structures and functions for exporting
// chartpulse rank data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/chartpulse/chartpulse/schema"
)

// RankEntry is one ranked app in one snapshot, flattened for export.
type RankEntry struct {
	// Date is the snapshot date in ISO form, e.g. "2025-01-01"
	Date string `parquet:"date,snappy"`

	// Platform is the store platform, ios or gp
	Platform string `parquet:"platform,snappy"`

	// Country is the upper-case ISO country code
	Country string `parquet:"country,snappy"`

	// Chart is the ranking chart, e.g. top_grossing
	Chart string `parquet:"chart,snappy"`

	// Rank is the position within the chart, 1 is best
	Rank int32 `parquet:"rank,snappy"`

	// AppID is the store identifier of the app
	AppID string `parquet:"app_id,snappy"`

	// AppName is the display name of the app
	AppName string `parquet:"app_name,snappy"`

	// Developer is the publisher name (nullable)
	Developer *string `parquet:"developer,optional,snappy"`

	// Genre is the raw source-reported category (nullable)
	Genre *string `parquet:"genre,optional,snappy"`

	// Delta is the rank movement versus the previous snapshot
	Delta int32 `parquet:"delta,snappy"`

	// Category is the resolved category label (nullable, empty until classified)
	Category *string `parquet:"category,optional,snappy"`
}

// ConvertSnapshots flattens snapshots into per-row RankEntry records.
func ConvertSnapshots(snaps []*schema.Snapshot) []RankEntry {
	var entries []RankEntry
	for _, snap := range snaps {
		for _, row := range snap.Rows {
			entry := RankEntry{
				Date:     snap.Date,
				Platform: string(snap.Platform),
				Country:  snap.Country,
				Chart:    string(snap.Chart),
				Rank:     int32(row.Rank),
				AppID:    row.AppID,
				AppName:  row.AppName,
				Delta:    int32(row.Delta),
			}
			if row.Developer != "" {
				dev := row.Developer
				entry.Developer = &dev
			}
			if row.Genre != "" {
				genre := row.Genre
				entry.Genre = &genre
			}
			if row.AIType != "" {
				category := string(row.AIType)
				entry.Category = &category
			}
			entries = append(entries, entry)
		}
	}
	return entries
}

// WriteRankEntriesParquet writes a slice of RankEntry structs to a Parquet file.
func WriteRankEntriesParquet(data []RankEntry, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the RankEntry struct tags
	writer := parquet.NewGenericWriter[RankEntry](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
