// =============================================================================
// Inventory Message Parser - XLSX Ledger Export
// =============================================================================

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"inventory-parser/internal/config"
	"inventory-parser/internal/parser"
)

// WriteXLSX writes confirmed rows to a ledger workbook: one header row from
// the configured table headers, then one line per transaction in the
// configured field order.
func WriteXLSX(rows []parser.Row, cfg *config.Config, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := cfg.Export.SheetName
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	for col, header := range cfg.UI.TableHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		for col, field := range cfg.UI.FieldOrder {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell for row %d: %w", i+1, err)
			}
			if err := f.SetCellValue(sheet, cell, cellValue(row, field)); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// cellValue keeps numbers numeric in the workbook; everything else goes
// through the shared cell renderer.
func cellValue(row parser.Row, field string) interface{} {
	switch field {
	case "qty":
		if row.PendingContainer == "" {
			return row.Qty
		}
		return FormatCell(row, field)
	case "batch":
		return row.Batch
	default:
		return FormatCell(row, field)
	}
}

// OutputFilename expands the configured filename format. Supported
// placeholders: {uuid} and {timestamp}.
func OutputFilename(cfg *config.Config, now time.Time) string {
	name := cfg.Export.FilenameFormat
	name = strings.ReplaceAll(name, "{uuid}", uuid.New().String())
	name = strings.ReplaceAll(name, "{timestamp}", now.Format("20060102_150405"))
	return name
}
