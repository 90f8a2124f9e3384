package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/term"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "Wrote %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// getMaxTableNameWidth calculates the maximum width for app names in table
// output based on terminal width.
func getMaxTableNameWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		// Conservative default for narrow terminals and CI
		termWidth = 80
	}

	// Reserve space for the fixed columns (date, country, platform, chart,
	// delta, direction) plus borders and padding.
	available := termWidth - 52
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}

// truncateName shortens an app name to fit a table column.
func truncateName(name string, width int) string {
	runes := []rune(name)
	if len(runes) <= width {
		return name
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// sortedDates returns map keys in ascending date order.
func sortedDates[V any](m map[string]V) []string {
	dates := make([]string, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// sortedCountries returns report country keys in ascending order.
func sortedCountries[V any](m map[string]V) []string {
	return sortedDates(m)
}

// sortedPlatforms returns platform keys in ascending order.
func sortedPlatforms[V any](m map[schema.Platform]V) []schema.Platform {
	platforms := make([]schema.Platform, 0, len(m))
	for p := range m {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	return platforms
}

// sortedCharts returns chart keys in ascending order.
func sortedCharts[V any](m map[schema.Chart]V) []schema.Chart {
	charts := make([]schema.Chart, 0, len(m))
	for c := range m {
		charts = append(charts, c)
	}
	sort.Slice(charts, func(i, j int) bool { return charts[i] < charts[j] })
	return charts
}
