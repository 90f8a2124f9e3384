package cmd

import (
	"errors"

	"github.com/chartpulse/chartpulse/core"
	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/internal/sheet"
	"github.com/spf13/cobra"
)

// ingestCmd pulls daily chart rows and persists them as snapshots.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch daily chart rows and store them as rank snapshots.",
	Long: `Fetch the current chart export and persist one snapshot per
(country, platform, chart, date) group.

For every stored snapshot, rank deltas against the previous available date
are computed before the date is registered, so a re-run of the same day
never makes a snapshot its own predecessor.

Examples:
  # Ingest today's export
  chartpulse ingest --sheet-url "https://example.com/chart-export"

  # Ingest into a MySQL-backed store
  CHARTPULSE_STORE_BACKEND=mysql CHARTPULSE_STORE_DB_CONNECT="..." chartpulse ingest --sheet-url "..."`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.SheetURL == "" {
			contract.LogFatal("Cannot run ingest", errors.New("sheet-url is required"))
		}
		source := sheet.NewClient(cfg.SheetURL)
		if _, err := core.RunIngest(rootCtx, cfg, source, storeManager); err != nil {
			contract.LogFatal("Cannot run ingest", err)
		}
	},
}
