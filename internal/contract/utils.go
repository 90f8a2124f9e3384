package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chartpulse/chartpulse/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	RiseColor  = color.New(color.FgGreen, color.Bold) // Improved ranks
	FallColor  = color.New(color.FgRed, color.Bold)   // Dropped ranks
	EventColor = color.New(color.FgYellow)            // Version-update events
)

// GetPlainDirectionLabel returns a plain text label for a mover direction.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainDirectionLabel(d schema.Direction) string {
	if d == schema.RiseDirection {
		return "Rise"
	}
	return "Fall"
}

// GetColorDirectionLabel returns a colored label for console output (table).
func GetColorDirectionLabel(d schema.Direction) string {
	text := GetPlainDirectionLabel(d)
	if d == schema.RiseDirection {
		return RiseColor.Sprint(text)
	}
	return FallColor.Sprint(text)
}

// FormatDelta renders a signed delta with an explicit plus for gains.
func FormatDelta(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("+%d", delta)
	}
	return fmt.Sprintf("%d", delta)
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for rank storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".chartpulse_ranks.db"
	}
	return filepath.Join(homeDir, ".chartpulse_ranks.db")
}

// GetCatalogDBFilePath returns the path to the SQLite DB file for the
// category catalog.
func GetCatalogDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".chartpulse_catalog.db"
	}
	return filepath.Join(homeDir, ".chartpulse_catalog.db")
}
