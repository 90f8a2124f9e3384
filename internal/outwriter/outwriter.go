// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the
// command layer.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteMovers prints mover reports using the configured output format.
func (ow *OutWriter) WriteMovers(reports map[string]schema.MoversReport, cfg *contract.Config, duration time.Duration) error {
	return WriteMoversReports(reports, cfg, duration)
}

// WriteUpdates prints update reports using the configured output format.
func (ow *OutWriter) WriteUpdates(reports map[string]schema.UpdatesReport, cfg *contract.Config, duration time.Duration) error {
	return WriteUpdatesReports(reports, cfg, duration)
}

// WriteSnapshot prints one ranked snapshot using the configured output format.
func (ow *OutWriter) WriteSnapshot(snap *schema.Snapshot, cfg *contract.Config) error {
	return WriteSnapshotResults(snap, cfg)
}

// WriteSummary prints the run summary using the configured output format.
func (ow *OutWriter) WriteSummary(summary *schema.RunSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteRunSummary(summary, cfg, duration)
}
