package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// WriteSnapshotResults outputs one ranked snapshot, dispatching based on the output format configured.
func WriteSnapshotResults(snap *schema.Snapshot, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, snap)
		}, "snapshot JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotCSV(w, snap)
		}, "snapshot CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotTable(w, snap, cfg)
		}, "snapshot table")
	}
	return nil
}

// writeSnapshotCSV writes snapshot rows in CSV format.
func writeSnapshotCSV(w io.Writer, snap *schema.Snapshot) error {
	header := []string{"Rank", "App", "Developer", "Genre", "Delta", "Category"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range snap.Rows {
			record := []string{
				strconv.Itoa(r.Rank),
				r.AppName,
				r.Developer,
				r.Genre,
				strconv.Itoa(r.Delta),
				string(r.AIType),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeSnapshotTable generates and writes the human-readable table with a
// category breakdown footer.
func writeSnapshotTable(w io.Writer, snap *schema.Snapshot, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s %s %s (%s)\n",
		snap.Country, snap.Platform, snap.Chart, snap.Date); err != nil {
		return err
	}
	if len(snap.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No entries.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "App", "Developer", "Delta", "Category"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	nameWidth := getMaxTableNameWidth()
	var data [][]string
	for _, r := range snap.Rows {
		delta := contract.FormatDelta(r.Delta)
		if cfg.UseColors && r.Delta != 0 {
			if r.Delta > 0 {
				delta = contract.RiseColor.Sprint(delta)
			} else {
				delta = contract.FallColor.Sprint(delta)
			}
		}
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			truncateName(r.AppName, nameWidth),
			truncateName(r.Developer, 20),
			delta,
			string(r.AIType),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	return writeCategoryBreakdown(w, snap, cfg.Precision)
}

// writeCategoryBreakdown prints the category shares, largest first. Shares
// are recomputed from the classified counts so the configured precision
// applies; the stored percentages stay rounded integers for JSON consumers.
func writeCategoryBreakdown(w io.Writer, snap *schema.Snapshot, precision int) error {
	classified := 0
	for _, n := range snap.TypeCountsAI {
		classified += n
	}
	if classified == 0 {
		return nil
	}
	type share struct {
		category schema.Category
		percent  float64
	}
	shares := make([]share, 0, len(snap.TypeCountsAI))
	for cat, n := range snap.TypeCountsAI {
		shares = append(shares, share{cat, float64(n) / float64(classified) * 100})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].percent != shares[j].percent {
			return shares[i].percent > shares[j].percent
		}
		return shares[i].category < shares[j].category
	})

	if _, err := fmt.Fprint(w, "Categories:"); err != nil {
		return err
	}
	for _, s := range shares {
		if _, err := fmt.Fprintf(w, " %s %.*f%%", s.category, precision, s.percent); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
