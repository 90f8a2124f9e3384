package iostore

import (
	"fmt"

	"github.com/chartpulse/chartpulse/schema"
)

// PrintStoreStatus prints rank store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Snapshots: %d\n", status.TotalSnapshots)
	fmt.Printf("Total Reports: %d\n", status.TotalReports)
	if status.TotalSnapshots > 0 {
		fmt.Printf("Last Entry: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintCatalogStatus prints catalog store status information.
func PrintCatalogStatus(status schema.CatalogStatus) {
	fmt.Printf("Catalog Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Override Entries: %d\n", status.OverrideCount)
		fmt.Printf("Resolver Entries: %d\n", status.ResolverCount)
		fmt.Printf("Last Entry: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}
