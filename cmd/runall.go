package cmd

import (
	"errors"
	"time"

	"github.com/chartpulse/chartpulse/core"
	"github.com/chartpulse/chartpulse/internal/aiclass"
	"github.com/chartpulse/chartpulse/internal/appmeta"
	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/internal/outwriter"
	"github.com/chartpulse/chartpulse/internal/sheet"
	"github.com/spf13/cobra"
)

// runCmd executes the full daily batch: ingest, classify, movers, updates.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full daily batch: ingest, classify, movers, updates.",
	Long: `Execute all pipeline stages in order against the configured
markets and print a run summary.

Stages:
  1. Ingest the daily chart export into snapshots
  2. Resolve categories for every snapshot row
  3. Extract rank movers across adjacent date pairs
  4. Detect version updates for the newest date pair

Stages share one store connection; a per-snapshot write failure is logged
and counted without aborting the batch.

Examples:
  # Full batch for the default markets
  chartpulse run --sheet-url "https://example.com/chart-export"

  # Full batch with an external classifier
  CHARTPULSE_CLASSIFIER_KEY="..." chartpulse run --sheet-url "..." --classifier-url "..." --classifier-model gpt-4o-mini`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.SheetURL == "" {
			contract.LogFatal("Cannot run batch", errors.New("sheet-url is required"))
		}
		start := time.Now()
		source := sheet.NewClient(cfg.SheetURL)
		var classifier contract.Classifier
		if cfg.ClassifierConfigured() {
			classifier = aiclass.NewClient(cfg.ClassifierURL, cfg.ClassifierModel, cfg.ClassifierKey)
		}
		meta := appmeta.NewClient(cfg.MetadataURL)
		summary, err := core.RunAll(rootCtx, cfg, storeManager, source, classifier, meta)
		if err != nil {
			contract.LogFatal("Cannot run batch", err)
		}
		ow := outwriter.NewOutWriter()
		if err := ow.WriteSummary(summary, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write run summary", err)
		}
	},
}
