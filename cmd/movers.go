package cmd

import (
	"time"

	"github.com/chartpulse/chartpulse/core"
	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/internal/outwriter"
	"github.com/spf13/cobra"
)

// moversCmd extracts big rank movers from stored snapshots.
var moversCmd = &cobra.Command{
	Use:   "movers",
	Short: "Show apps with big rank swings between adjacent dates.",
	Long: `Compare every adjacent date pair in the stored history and report
apps whose rank moved by 10 or more positions.

Each report keeps at most the ten largest movers per (country, platform,
chart) pair, ordered by swing size. Reports are persisted per date and can
also be served over MCP.

Examples:
  # Movers for the default markets
  chartpulse movers

  # Movers for one market as JSON
  chartpulse movers --countries TW --output json

  # Export movers to CSV
  chartpulse movers --output csv --output-file movers.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		reports, _, err := core.RunMovers(rootCtx, cfg, storeManager)
		if err != nil {
			contract.LogFatal("Cannot run movers analysis", err)
		}
		ow := outwriter.NewOutWriter()
		if err := ow.WriteMovers(reports, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write movers output", err)
		}
	},
}
