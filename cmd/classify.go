package cmd

import (
	"github.com/chartpulse/chartpulse/core"
	"github.com/chartpulse/chartpulse/internal/aiclass"
	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/spf13/cobra"
)

// classifyCmd assigns game categories to stored snapshot rows.
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Assign game categories to stored snapshot rows.",
	Long: `Resolve a category for every app in the configured snapshots.

Resolution order per app: curated override, cached result, external
classifier (when a classifier key is configured), keyword heuristic.
Newly resolved labels are written back to the category catalog so the
classifier is only consulted once per app.

A failed classifier call falls back to the catch-all category for this run
without caching it, so the app is retried on the next run.

Examples:
  # Heuristic-only classification
  chartpulse classify

  # With an external classifier
  CHARTPULSE_CLASSIFIER_KEY="..." chartpulse classify --classifier-url "https://api.example.com/v1/chat/completions" --classifier-model gpt-4o-mini`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		var classifier contract.Classifier
		if cfg.ClassifierConfigured() {
			classifier = aiclass.NewClient(cfg.ClassifierURL, cfg.ClassifierModel, cfg.ClassifierKey)
		}
		if _, err := core.RunClassify(rootCtx, cfg, storeManager, classifier); err != nil {
			contract.LogFatal("Cannot run classification", err)
		}
	},
}
