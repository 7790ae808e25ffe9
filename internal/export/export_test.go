package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"inventory-parser/internal/config"
	"inventory-parser/internal/parser"
)

var exportDate = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

func exportConfig() *config.Config {
	return (&config.Config{}).Normalized()
}

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "34", FormatQty(34))
	assert.Equal(t, "-34", FormatQty(-34))
	assert.Equal(t, "0", FormatQty(0))
	assert.Equal(t, "2.5", FormatQty(2.5))
	assert.Equal(t, "1980", FormatQty(1980.0))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025-03-15", FormatDate(exportDate))
	assert.Equal(t, Placeholder, FormatDate(time.Time{}))
}

func TestFormatCell(t *testing.T) {
	row := parser.Row{
		Date:  exportDate,
		Item:  "spaghetti",
		Qty:   -34,
		Batch: 1,
		Notes: "from Green Farm",
	}

	assert.Equal(t, "2025-03-15", FormatCell(row, "date"))
	assert.Equal(t, "spaghetti", FormatCell(row, "item"))
	assert.Equal(t, "-34", FormatCell(row, "qty"))
	assert.Equal(t, Placeholder, FormatCell(row, "trans_type"))
	assert.Equal(t, Placeholder, FormatCell(row, "location"))
	assert.Equal(t, "1", FormatCell(row, "batch"))
	assert.Equal(t, "from Green Farm", FormatCell(row, "notes"))
}

func TestFormatCellPendingContainer(t *testing.T) {
	row := parser.Row{Qty: 2, RawQty: 2, PendingContainer: "box"}
	assert.Equal(t, "2 [box?]", FormatCell(row, "qty"))
}

func TestRowHasWarning(t *testing.T) {
	cfg := exportConfig()

	complete := parser.Row{Date: exportDate, Item: "spaghetti", Qty: 1, TransType: "eaten", Location: "L", Batch: 1}
	assert.False(t, RowHasWarning(complete, cfg))

	missingType := complete
	missingType.TransType = ""
	assert.True(t, RowHasWarning(missingType, cfg))

	missingLocation := complete
	missingLocation.Location = ""
	assert.True(t, RowHasWarning(missingLocation, cfg))
}

func TestTSV(t *testing.T) {
	cfg := exportConfig()
	rows := []parser.Row{
		{Date: exportDate, Item: "spaghetti", Qty: -34, TransType: "warehouse_to_branch", Location: "warehouse", Batch: 1},
		{Date: exportDate, Item: "spaghetti", Qty: 34, TransType: "warehouse_to_branch", Location: "L", Batch: 1},
	}

	got := TSV(rows, cfg)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2025-03-15\tspaghetti\t-34\twarehouse_to_branch\twarehouse\t1\t", lines[0])
	assert.Equal(t, "2025-03-15\tspaghetti\t34\twarehouse_to_branch\tL\t1\t", lines[1])
}

func TestTSVEmpty(t *testing.T) {
	assert.Empty(t, TSV(nil, exportConfig()))
}

func TestWriteXLSX(t *testing.T) {
	cfg := exportConfig()
	rows := []parser.Row{
		{Date: exportDate, Item: "cucumbers", Qty: 4, TransType: "eaten", Location: "L", Batch: 1},
	}
	path := filepath.Join(t.TempDir(), "ledger.xlsx")

	require.NoError(t, WriteXLSX(rows, cfg, path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(cfg.Export.SheetName)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, cfg.UI.TableHeaders, got[0])
	assert.Equal(t, "cucumbers", got[1][1])
	assert.Equal(t, "4", got[1][2])
}

func TestOutputFilename(t *testing.T) {
	now := time.Date(2025, time.March, 15, 9, 30, 0, 0, time.UTC)

	cfg := exportConfig()
	name := OutputFilename(cfg, now)
	assert.True(t, strings.HasSuffix(name, ".xlsx"))
	assert.NotEqual(t, OutputFilename(cfg, now), name, "uuid names never repeat")

	cfg.Export.FilenameFormat = "ledger_{timestamp}.xlsx"
	assert.Equal(t, "ledger_20250315_093000.xlsx", OutputFilename(cfg, now))
}
