package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// updateRow is one flattened update event for rendering.
type updateRow struct {
	Date     string          `json:"date"`
	Country  string          `json:"country"`
	Platform schema.Platform `json:"platform"`
	Chart    schema.Chart    `json:"chart"`
	AppName  string          `json:"app_name"`
	AppID    string          `json:"app_id"`
	Version  string          `json:"version"`
	Updated  string          `json:"updated"`
}

// WriteUpdatesReports outputs the update reports, dispatching based on the output format configured.
func WriteUpdatesReports(reports map[string]schema.UpdatesReport, cfg *contract.Config, duration time.Duration) error {
	rows := flattenUpdates(reports)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "updates JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeUpdatesCSV(w, rows)
		}, "updates CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeUpdatesTable(w, rows, cfg, duration)
		}, "updates table")
	}
	return nil
}

// flattenUpdates turns the nested report maps into a deterministic row list.
func flattenUpdates(reports map[string]schema.UpdatesReport) []updateRow {
	var rows []updateRow
	for _, date := range sortedDates(reports) {
		report := reports[date]
		for _, country := range sortedCountries(report) {
			for _, platform := range sortedPlatforms(report[country]) {
				for _, chart := range sortedCharts(report[country][platform]) {
					events := report[country][platform][chart]
					names := make([]string, 0, len(events))
					for name := range events {
						names = append(names, name)
					}
					sort.Strings(names)
					for _, name := range names {
						e := events[name]
						rows = append(rows, updateRow{
							Date:     date,
							Country:  country,
							Platform: platform,
							Chart:    chart,
							AppName:  e.AppName,
							AppID:    e.AppID,
							Version:  e.Version,
							Updated:  e.Updated,
						})
					}
				}
			}
		}
	}
	return rows
}

// writeUpdatesCSV writes flattened update rows in CSV format.
func writeUpdatesCSV(w io.Writer, rows []updateRow) error {
	header := []string{"Date", "Country", "Platform", "Chart", "App", "AppID", "Version", "Updated"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			record := []string{
				r.Date,
				r.Country,
				string(r.Platform),
				string(r.Chart),
				r.AppName,
				r.AppID,
				r.Version,
				r.Updated,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeUpdatesTable generates and writes the human-readable table.
func writeUpdatesTable(w io.Writer, rows []updateRow, cfg *contract.Config, duration time.Duration) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No version updates detected.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Country", "Platform", "Chart", "App", "Version", "Updated"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	nameWidth := getMaxTableNameWidth()
	var data [][]string
	for _, r := range rows {
		name := truncateName(r.AppName, nameWidth)
		if cfg.UseColors {
			name = contract.EventColor.Sprint(name)
		}
		data = append(data, []string{
			schema.ISODate(r.Date),
			r.Country,
			string(r.Platform),
			string(r.Chart),
			name,
			r.Version,
			r.Updated,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d version updates. Completed in %v.\n", len(rows), duration)
	return err
}
