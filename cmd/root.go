// =============================================================================
// Inventory Message Parser - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'parse', 'serve') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (invparse)
//   ├── parseCmd   (invparse parse)
//   ├── serveCmd   (invparse serve)
//   ├── configCmd  (invparse config init|alias|convert)
//   └── versionCmd (invparse version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inventory-parser/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the vocabulary configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose output when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "invparse",
	Short: "Inventory Message Parser - Turn chat shorthand into ledger rows",

	Long: `Inventory Message Parser turns free-form stock messages (WhatsApp-style
shorthand, mixed Hebrew/English, inconsistent punctuation) into structured
double-entry inventory ledger rows.

Key Features:
  - Multi-stage extraction with fuzzy and alias resolution
  - Multi-line merging and message-level context broadcasting
  - Double-entry transfer rows with batch numbering
  - Vocabulary learning: aliases and unit conversions persist to the config
  - TSV and XLSX ledger export

Example Usage:
  invparse parse "passed 2x17 spaghetti to L"   # Parse one message
  invparse parse --tsv < message.txt            # TSV for spreadsheet paste
  invparse serve --addr :8080                   # Browser review API
  invparse config init                          # Write a starter vocabulary`,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the vocabulary configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig reads the vocabulary file named by --config. A missing file is
// not an error: parsing works with an empty vocabulary, it just resolves
// nothing, so commands stay usable before 'config init' has run.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if verbose {
			fmt.Fprintf(os.Stderr, "config file %s not found, using empty vocabulary\n", cfgFile)
		}
		return (&config.Config{}).Normalized(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
