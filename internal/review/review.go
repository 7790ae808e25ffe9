// =============================================================================
// Inventory Message Parser - Review Utilities
// =============================================================================
//
// Helpers for the interactive review loop: double-entry partner lookup and
// edit mirroring, quantity/date input evaluation, and the prompts that turn
// manual corrections into learned vocabulary (aliases and unit conversions).
//
// =============================================================================

package review

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"inventory-parser/internal/config"
	"inventory-parser/internal/parser"
)

// =============================================================================
// DOUBLE-ENTRY PARTNER
// =============================================================================

// FindPartner locates the double-entry partner of rows[idx]: the row sharing
// its batch and item whose quantity has the opposite sign. Returns false for
// out-of-range indexes, zero quantities, and unpaired rows.
func FindPartner(rows []parser.Row, idx int) (int, bool) {
	if idx < 0 || idx >= len(rows) {
		return 0, false
	}
	row := rows[idx]
	if row.Qty == 0 || row.Item == "" {
		return 0, false
	}

	for i, other := range rows {
		if i == idx {
			continue
		}
		if other.Batch == row.Batch && other.Item == row.Item && other.Qty*row.Qty < 0 {
			return i, true
		}
	}
	return 0, false
}

// UpdatePartner applies an edit's new value to the double-entry partner of
// rows[idx] so the pair stays consistent: item, date, type, and batch are
// copied; a quantity is negated. Location edits are deliberately not
// mirrored. The partner is located from rows[idx]'s current state, so call
// this before overwriting the edited field on rows[idx] itself.
// Reports whether a partner was updated.
func UpdatePartner(rows []parser.Row, idx int, field string, value interface{}) bool {
	pi, ok := FindPartner(rows, idx)
	if !ok {
		return false
	}

	switch field {
	case "item":
		if v, ok := value.(string); ok {
			rows[pi].Item = v
			return true
		}
	case "date":
		if v, ok := value.(time.Time); ok {
			rows[pi].Date = v
			return true
		}
	case "trans_type":
		if v, ok := value.(string); ok {
			rows[pi].TransType = v
			return true
		}
	case "batch":
		if v, ok := value.(int); ok {
			rows[pi].Batch = v
			return true
		}
	case "qty":
		if v, ok := value.(float64); ok {
			rows[pi].Qty = -v
			return true
		}
	}
	return false
}

// =============================================================================
// INPUT EVALUATION
// =============================================================================

var qtyExprRe = regexp.MustCompile(`^(\d+)\s*[x×*]\s*(\d+)$`)

// EvalQty evaluates a quantity edit: a plain number, or a NxN / N*N product.
func EvalQty(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if m := qtyExprRe.FindStringSubmatch(text); m != nil {
		a, _ := strconv.ParseFloat(m[1], 64)
		b, _ := strconv.ParseFloat(m[2], 64)
		return a * b, true
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var (
	dotDateRe   = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2,4})$`)
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	sixDigitRe  = regexp.MustCompile(`^(\d{6})$`)
)

// ParseDate parses a date edit. Supports DD.MM.YY(YY), MM/DD/YY(YY),
// DDMMYY, and ISO YYYY-MM-DD.
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)

	if m := dotDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(expandYear(atoi(m[3])), atoi(m[2]), atoi(m[1])); ok {
			return d, true
		}
	}
	if m := slashDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(expandYear(atoi(m[3])), atoi(m[1]), atoi(m[2])); ok {
			return d, true
		}
	}
	if m := sixDigitRe.FindStringSubmatch(text); m != nil {
		s := m[1]
		if d, ok := makeDate(2000+atoi(s[4:6]), atoi(s[2:4]), atoi(s[0:2])); ok {
			return d, true
		}
	}
	if d, err := time.Parse("2006-01-02", text); err == nil {
		return d, true
	}
	return time.Time{}, false
}

func expandYear(year int) int {
	if year < 100 {
		return year + 2000
	}
	return year
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// =============================================================================
// VOCABULARY LEARNING PROMPTS
// =============================================================================

// AliasPrompt proposes saving a raw token as an alias for a canonical item.
type AliasPrompt struct {
	Alias     string
	Canonical string
}

// AliasOpportunities compares each row's item against the raw token the
// parser originally matched (keyed by row index) and proposes aliases for
// tokens the config does not know yet.
func AliasOpportunities(rows []parser.Row, originalTokens map[int]string, cfg *config.Config) []AliasPrompt {
	known := map[string]bool{}
	for alias := range cfg.Aliases {
		known[strings.ToLower(alias)] = true
	}
	for _, item := range cfg.Items {
		known[strings.ToLower(item)] = true
	}

	var prompts []AliasPrompt
	for idx, row := range rows {
		original := originalTokens[idx]
		if original == "" || row.Item == "" {
			continue
		}
		if original == parser.ItemUnknown || row.Item == parser.ItemUnknown {
			continue
		}
		origLower := strings.ToLower(original)
		if origLower == strings.ToLower(row.Item) || known[origLower] {
			continue
		}
		known[origLower] = true
		prompts = append(prompts, AliasPrompt{Alias: original, Canonical: row.Item})
	}
	return prompts
}

// ConversionPrompt proposes saving a container conversion factor.
type ConversionPrompt struct {
	Item      string
	Container string
}

// ConversionOpportunities finds rows left with a pending container and no
// configured factor, deduplicated per item/container pair.
func ConversionOpportunities(rows []parser.Row, cfg *config.Config) []ConversionPrompt {
	seen := map[string]bool{}
	var prompts []ConversionPrompt

	for _, row := range rows {
		if row.PendingContainer == "" || row.Item == parser.ItemUnknown || row.Item == "" {
			continue
		}
		key := row.Item + "\x00" + row.PendingContainer
		if seen[key] {
			continue
		}
		seen[key] = true

		if table, ok := cfg.UnitConversions[row.Item]; ok {
			if _, ok := table.Factor(row.PendingContainer); ok {
				continue
			}
		}
		prompts = append(prompts, ConversionPrompt{Item: row.Item, Container: row.PendingContainer})
	}
	return prompts
}

// =============================================================================
// ROW EDITING
// =============================================================================

// EmptyRow returns a blank row for manual addition during review.
func EmptyRow(today time.Time) parser.Row {
	return parser.Row{
		Date:  today,
		Item:  parser.ItemUnknown,
		Batch: 1,
	}
}

// ApplyConversion resolves a row's pending container with a learned factor.
func ApplyConversion(row parser.Row, factor float64) parser.Row {
	if row.PendingContainer == "" {
		return row
	}
	sign := 1.0
	if row.Qty < 0 {
		sign = -1
	}
	row.Qty = sign * abs(row.RawQty) * factor
	row.PendingContainer = ""
	row.RawQty = 0
	return row
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
