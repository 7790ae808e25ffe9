// =============================================================================
// Inventory Message Parser - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which starts the browser-facing
// review API. The server keeps one shared review session (the one-operator
// workflow the tool is built for) and persists learned vocabulary back to
// the config file.
//
// COMMAND USAGE:
//   invparse serve
//   invparse serve --addr :9000 --export-dir ./ledgers
//
// =============================================================================

package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"inventory-parser/internal/server"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// serveAddr is the listen address for the HTTP API.
var serveAddr string

// serveExportDir is where exported ledger workbooks are written.
var serveExportDir string

// =============================================================================
// SERVE COMMAND DEFINITION
// =============================================================================

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser review API",
	Long: `Start the HTTP API used by the browser review page: parse messages,
edit rows with double-entry mirroring, learn aliases and unit conversions,
and export the confirmed rows as TSV or an XLSX ledger workbook.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srv := server.New(cfg, cfgFile, serveExportDir)

	httpServer := &http.Server{
		Addr:              serveAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("Listening on %s (config: %s)\n", serveAddr, cfgFile)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	serveCmd.Flags().StringVar(
		&serveAddr,
		"addr",
		":8080",
		"Listen address for the HTTP API",
	)
	serveCmd.Flags().StringVar(
		&serveExportDir,
		"export-dir",
		".",
		"Directory exported ledger workbooks are written to",
	)

	rootCmd.AddCommand(serveCmd)
}
