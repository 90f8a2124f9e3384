package iostore

import (
	"errors"
	"fmt"

	"github.com/chartpulse/chartpulse/internal/parquet"
)

// ExecuteStoreExport exports all stored rank snapshots to a Parquet file.
func ExecuteStoreExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetRankStore()

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalSnapshots == 0 {
		return errors.New("no rank data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total snapshots: %d\n", status.TotalSnapshots)

	snapshots, err := store.GetAllSnapshots()
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshots: %w", err)
	}

	entries := parquet.ConvertSnapshots(snapshots)

	exportFile := outputFile + ".rank_entries.parquet"
	if err := parquet.WriteRankEntriesParquet(entries, exportFile); err != nil {
		return fmt.Errorf("failed to write rank entries: %w", err)
	}
	fmt.Printf("Exported %d rank entries to: %s\n", len(entries), exportFile)

	fmt.Println("\nExport complete! The Parquet file can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
