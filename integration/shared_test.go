//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedChartpulsePath holds the path to a shared chartpulse binary built once for all tests.
	sharedChartpulsePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getChartpulseBinary returns the path to the chartpulse binary, building it once if needed.
func getChartpulseBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "chartpulse-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		chartpulsePath := filepath.Join(tempDir, "chartpulse")
		buildCmd := exec.Command("go", "build", "-o", chartpulsePath, "./cmd/chartpulse")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build chartpulse: %v", err))
		}

		sharedChartpulsePath = chartpulsePath
	})

	return sharedChartpulsePath
}

// runChartpulseCommand runs the shared binary with args from the project root.
func runChartpulseCommand(t *testing.T, args ...string) error {
	chartpulsePath := getChartpulseBinary()
	cmd := exec.Command(chartpulsePath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
