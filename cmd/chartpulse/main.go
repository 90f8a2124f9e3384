// main is the entry point for the chartpulse CLI.
package main

import (
	"fmt"
	"os"

	"github.com/chartpulse/chartpulse/cmd"
	"github.com/chartpulse/chartpulse/internal/iostore"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present so secrets stay out of flags and config files.
	_ = godotenv.Load()

	cmd.SetStoreManager(iostore.Manager)

	err := cmd.Execute()
	iostore.CloseStores()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
