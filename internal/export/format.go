// =============================================================================
// Inventory Message Parser - Row Formatting
// =============================================================================
//
// Shared cell rendering for the TSV exporter, the XLSX ledger writer, and the
// review table. Unresolved fields render as the literal "???" placeholder and
// whole-number quantities drop the decimal point, so a pasted row looks the
// same as a hand-typed one.
//
// =============================================================================

package export

import (
	"strconv"
	"time"

	"inventory-parser/internal/config"
	"inventory-parser/internal/parser"
)

// Placeholder marks an unresolved field in rendered output.
const Placeholder = "???"

// FormatDate renders a date as YYYY-MM-DD, or the placeholder when unset.
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return Placeholder
	}
	return d.Format("2006-01-02")
}

// FormatQty renders a quantity, dropping the decimal point for whole values.
func FormatQty(q float64) string {
	if q == float64(int64(q)) {
		return strconv.FormatInt(int64(q), 10)
	}
	return strconv.FormatFloat(q, 'g', -1, 64)
}

// FormatCell renders one row field for tabular output.
func FormatCell(row parser.Row, field string) string {
	switch field {
	case "date":
		return FormatDate(row.Date)
	case "item":
		if row.Item == "" {
			return Placeholder
		}
		return row.Item
	case "qty":
		s := FormatQty(row.Qty)
		if row.PendingContainer != "" {
			s += " [" + row.PendingContainer + "?]"
		}
		return s
	case "trans_type":
		if row.TransType == "" {
			return Placeholder
		}
		return row.TransType
	case "location":
		if row.Location == "" {
			return Placeholder
		}
		return row.Location
	case "batch":
		return strconv.Itoa(row.Batch)
	case "notes":
		return row.Notes
	default:
		return Placeholder
	}
}

// RowHasWarning reports whether any of the config's required fields is still
// unresolved on the row.
func RowHasWarning(row parser.Row, cfg *config.Config) bool {
	for _, field := range cfg.RequiredFields {
		switch field {
		case "date":
			if row.Date.IsZero() {
				return true
			}
		case "item":
			if row.Item == "" || row.Item == parser.ItemUnknown {
				return true
			}
		case "trans_type":
			if row.TransType == "" {
				return true
			}
		case "location":
			if row.Location == "" {
				return true
			}
		}
	}
	return false
}
