// =============================================================================
// Inventory Message Parser - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Inventory Message Parser CLI. It
// initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   invparse parse    - Parse a stock message into ledger rows
//   invparse serve    - Start the browser review API
//   invparse config   - Manage the vocabulary configuration
//   invparse version  - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//
// =============================================================================

package main

import (
	"inventory-parser/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
