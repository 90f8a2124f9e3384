package cmd

import (
	"fmt"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/internal/outwriter"
	"github.com/spf13/cobra"
)

// topCmd shows the latest stored snapshot for the configured markets.
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the latest stored chart snapshot.",
	Long: `Print the most recently stored snapshot for every configured
(country, platform, chart) combination, including rank deltas and
resolved categories.

Examples:
  # Latest Taiwan iOS top grossing chart
  chartpulse top --countries TW --platforms ios --charts top_grossing

  # Latest snapshots for all default markets as JSON
  chartpulse top --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ranks := storeManager.GetRankStore()
		ow := outwriter.NewOutWriter()
		for _, country := range cfg.Countries {
			for _, platform := range cfg.Platforms {
				for _, chart := range cfg.Charts {
					snap, found, err := ranks.GetLatest(country, platform, chart)
					if err != nil {
						contract.LogFatal("Cannot read latest snapshot", err)
					}
					if !found {
						fmt.Printf("No snapshot stored for %s %s %s.\n", country, platform, chart)
						continue
					}
					if err := ow.WriteSnapshot(snap, cfg); err != nil {
						contract.LogFatal("Cannot write snapshot output", err)
					}
				}
			}
		}
	},
}
