package cmd

import (
	"time"

	"github.com/chartpulse/chartpulse/core"
	"github.com/chartpulse/chartpulse/internal/appmeta"
	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/internal/outwriter"
	"github.com/spf13/cobra"
)

// updatesCmd detects version updates among top-ranked apps.
var updatesCmd = &cobra.Command{
	Use:   "updates",
	Short: "Detect version updates among top-ranked apps.",
	Long: `Look up current version metadata for the top 50 apps of the newest
stored date and compare it against the previous date's baseline.

An update event is emitted when an app present in both baselines changed
its version string or release date. The first sighting of an app never
produces an event; it only seeds the baseline.

Metadata lookups fan out across workers; a failed lookup excludes that app
from the baseline without aborting the run. Google Play metadata is not
looked up, and the gp/CN pair is skipped entirely.

Examples:
  # Detect updates for the default markets
  chartpulse updates

  # Limit concurrency for a rate-limited endpoint
  chartpulse updates --workers 2

  # Updates for one market as JSON
  chartpulse updates --countries TW --platforms ios --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		meta := appmeta.NewClient(cfg.MetadataURL)
		reports, _, err := core.RunUpdates(rootCtx, cfg, storeManager, meta)
		if err != nil {
			contract.LogFatal("Cannot run updates analysis", err)
		}
		ow := outwriter.NewOutWriter()
		if err := ow.WriteUpdates(reports, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write updates output", err)
		}
	},
}
