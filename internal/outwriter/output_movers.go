package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// moverRow is one flattened mover record for rendering.
type moverRow struct {
	Date      string           `json:"date"`
	Country   string           `json:"country"`
	Platform  schema.Platform  `json:"platform"`
	Chart     schema.Chart     `json:"chart"`
	Name      string           `json:"name"`
	Delta     int              `json:"delta"`
	Direction schema.Direction `json:"direction"`
}

// WriteMoversReports outputs the mover reports, dispatching based on the output format configured.
func WriteMoversReports(reports map[string]schema.MoversReport, cfg *contract.Config, duration time.Duration) error {
	rows := flattenMovers(reports)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "movers JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMoversCSV(w, rows)
		}, "movers CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMoversTable(w, rows, cfg, duration)
		}, "movers table")
	}
	return nil
}

// flattenMovers turns the nested report maps into a deterministic row list.
func flattenMovers(reports map[string]schema.MoversReport) []moverRow {
	var rows []moverRow
	for _, date := range sortedDates(reports) {
		report := reports[date]
		for _, country := range sortedCountries(report) {
			for _, platform := range sortedPlatforms(report[country]) {
				for _, chart := range sortedCharts(report[country][platform]) {
					for _, m := range report[country][platform][chart] {
						rows = append(rows, moverRow{
							Date:      date,
							Country:   country,
							Platform:  platform,
							Chart:     chart,
							Name:      m.Name,
							Delta:     m.Delta,
							Direction: m.Direction,
						})
					}
				}
			}
		}
	}
	return rows
}

// writeMoversCSV writes flattened mover rows in CSV format.
func writeMoversCSV(w io.Writer, rows []moverRow) error {
	header := []string{"Date", "Country", "Platform", "Chart", "Name", "Delta", "Direction"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			record := []string{
				r.Date,
				r.Country,
				string(r.Platform),
				string(r.Chart),
				r.Name,
				strconv.Itoa(r.Delta),
				contract.GetPlainDirectionLabel(r.Direction),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeMoversTable generates and writes the human-readable table.
func writeMoversTable(w io.Writer, rows []moverRow, cfg *contract.Config, duration time.Duration) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No movers detected.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Country", "Platform", "Chart", "Name", "Delta", "Direction"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	nameWidth := getMaxTableNameWidth()
	var data [][]string
	for _, r := range rows {
		direction := contract.GetPlainDirectionLabel(r.Direction)
		if cfg.UseColors {
			direction = contract.GetColorDirectionLabel(r.Direction)
		}
		data = append(data, []string{
			schema.ISODate(r.Date),
			r.Country,
			string(r.Platform),
			string(r.Chart),
			truncateName(r.Name, nameWidth),
			contract.FormatDelta(r.Delta),
			direction,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d movers across %d reports. Completed in %v.\n",
		len(rows), countDistinctDates(rows), duration)
	return err
}

func countDistinctDates(rows []moverRow) int {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.Date] = struct{}{}
	}
	return len(seen)
}
