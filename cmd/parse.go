// =============================================================================
// Inventory Message Parser - Parse Command
// =============================================================================
//
// This file defines the 'parse' command: the main terminal workflow. It
// reads a message from the arguments or stdin, runs the parsing pipeline,
// and prints the resulting ledger rows together with any notes and
// unparseable leftovers.
//
// COMMAND USAGE:
//   invparse parse "passed 2x17 spaghetti to L"
//   invparse parse --tsv < message.txt
//   invparse parse --xlsx out/ "eaten by L 15.3.25\n4 cucumbers"
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"inventory-parser/internal/config"
	"inventory-parser/internal/export"
	"inventory-parser/internal/parser"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// tsvOutput switches the row output to tab-separated values with no
// decoration, ready for pasting into a spreadsheet.
var tsvOutput bool

// xlsxDir, when set, writes the rows to a ledger workbook in that directory.
var xlsxDir string

// =============================================================================
// PARSE COMMAND DEFINITION
// =============================================================================

var parseCmd = &cobra.Command{
	Use:   "parse [message]",
	Short: "Parse a stock message into ledger rows",
	Long: `Parse a free-form stock message into structured ledger rows.

The message is taken from the first argument, or from stdin when no
argument is given. Rows that are missing a required field are marked
with a warning; notes and unparseable lines are listed separately so
nothing in the input is silently dropped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := messageText(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no message text given")
	}

	result := parser.Parse(text, cfg, time.Time{})

	if tsvOutput {
		if out := export.TSV(result.Rows, cfg); out != "" {
			fmt.Println(out)
		}
	} else {
		printResult(result, cfg)
	}

	if xlsxDir != "" && len(result.Rows) > 0 {
		path := filepath.Join(xlsxDir, export.OutputFilename(cfg, time.Now()))
		if err := export.WriteXLSX(result.Rows, cfg, path); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		fmt.Printf("Workbook written to %s\n", path)
	}

	return nil
}

// messageText returns the message from the argument list or stdin.
func messageText(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// =============================================================================
// TERMINAL RENDERING
// =============================================================================

// printResult renders the parse outcome as a numbered table followed by the
// notes and unparseable sections. Rows missing a required field get a
// leading warning marker.
func printResult(result parser.Result, cfg *config.Config) {
	if len(result.Rows) > 0 {
		fmt.Println(strings.Join(cfg.UI.TableHeaders, "\t"))
		for i, row := range result.Rows {
			marker := "  "
			if export.RowHasWarning(row, cfg) {
				marker = "! "
			}
			cells := make([]string, 0, len(cfg.UI.FieldOrder))
			for _, field := range cfg.UI.FieldOrder {
				cells = append(cells, export.FormatCell(row, field))
			}
			fmt.Printf("%s%d\t%s\n", marker, i+1, strings.Join(cells, "\t"))
		}
	} else {
		fmt.Println("No rows.")
	}

	if len(result.Notes) > 0 {
		fmt.Println("\nNotes:")
		for _, note := range result.Notes {
			fmt.Printf("  %s\n", note)
		}
	}

	if len(result.Unparseable) > 0 {
		fmt.Println("\nCould not parse:")
		for _, line := range result.Unparseable {
			fmt.Printf("  %s\n", line)
		}
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	parseCmd.Flags().BoolVar(
		&tsvOutput,
		"tsv",
		false,
		"Print rows as tab-separated values with no decoration",
	)
	parseCmd.Flags().StringVar(
		&xlsxDir,
		"xlsx",
		"",
		"Also write the rows to a ledger workbook in this directory",
	)

	rootCmd.AddCommand(parseCmd)
}
