package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// WriteRunSummary outputs the run summary, dispatching based on the output format configured.
func WriteRunSummary(summary *schema.RunSummary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "summary JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, summary)
		}, "summary CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryText(w, summary, duration)
		}, "summary")
	}
}

// writeSummaryCSV writes the summary counters as one CSV record.
func writeSummaryCSV(w io.Writer, summary *schema.RunSummary) error {
	header := []string{"Snapshots", "PairsAnalyzed", "PairsSkipped", "MoversReports", "UpdatesReports", "NewCacheEntries", "WriteFailures"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		return cw.Write([]string{
			strconv.Itoa(summary.SnapshotsWritten),
			strconv.Itoa(summary.PairsAnalyzed),
			strconv.Itoa(summary.PairsSkipped),
			strconv.Itoa(summary.MoversReports),
			strconv.Itoa(summary.UpdatesReports),
			strconv.Itoa(summary.NewCacheEntries),
			strconv.Itoa(summary.WriteFailures),
		})
	})
}

// writeSummaryText writes the human-readable summary.
func writeSummaryText(w io.Writer, summary *schema.RunSummary, duration time.Duration) error {
	fmt.Fprintln(w, "=== Run Summary ===")
	fmt.Fprintf(w, "Snapshots written:  %d\n", summary.SnapshotsWritten)
	fmt.Fprintf(w, "Pairs analyzed:     %d\n", summary.PairsAnalyzed)
	fmt.Fprintf(w, "Pairs skipped:      %d\n", summary.PairsSkipped)
	fmt.Fprintf(w, "Movers reports:     %d\n", summary.MoversReports)
	fmt.Fprintf(w, "Updates reports:    %d\n", summary.UpdatesReports)
	fmt.Fprintf(w, "New cache entries:  %d\n", summary.NewCacheEntries)
	fmt.Fprintf(w, "Write failures:     %d\n", summary.WriteFailures)
	if summary.PairsAnalyzed == 0 && summary.PairsSkipped == 0 {
		fmt.Fprintln(w, "No eligible date pairs found; nothing to analyze.")
	}
	_, err := fmt.Fprintf(w, "Completed in %v.\n", duration)
	return err
}
