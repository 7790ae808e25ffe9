// =============================================================================
// Inventory Message Parser - TSV Export
// =============================================================================

package export

import (
	"strings"

	"inventory-parser/internal/config"
	"inventory-parser/internal/parser"
)

// TSV renders rows as tab-separated values in the configured field order,
// one line per row, no header. Meant for pasting into a spreadsheet. An
// empty row list yields an empty string.
func TSV(rows []parser.Row, cfg *config.Config) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, field := range cfg.UI.FieldOrder {
			if j > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(FormatCell(row, field))
		}
	}
	return b.String()
}
