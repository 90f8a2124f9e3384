package cmd

import (
	"errors"
	"fmt"

	"github.com/chartpulse/chartpulse/core"
	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/internal/overrides"
	"github.com/spf13/cobra"
)

// overridesCmd syncs curated category overrides into the catalog.
var overridesCmd = &cobra.Command{
	Use:   "overrides",
	Short: "Sync curated category overrides into the catalog.",
	Long: `Pull the full set of human-curated category overrides and write
them into the category catalog.

Override entries always win over cached classifier results and are never
overwritten by the resolver. Rows with invalid category labels are dropped
during the sync.

Examples:
  # Sync overrides from a published sheet
  chartpulse overrides --override-url "https://example.com/override-export"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.OverrideURL == "" {
			contract.LogFatal("Cannot sync overrides", errors.New("override-url is required"))
		}
		src := overrides.NewClient(cfg.OverrideURL)
		changed, err := core.RunOverrideSync(rootCtx, cfg, storeManager, src)
		if err != nil {
			contract.LogFatal("Cannot sync overrides", err)
		}
		fmt.Printf("Synced overrides; %d entries changed.\n", changed)
	},
}
