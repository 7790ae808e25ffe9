// =============================================================================
// Inventory Message Parser - Classification, Batches, Row Generation
// =============================================================================

package parser

import (
	"math"
	"time"
	"unicode"

	"inventory-parser/internal/config"
)

// =============================================================================
// CLASSIFIER
// =============================================================================

// generateResult splits the merged records three ways: records with a
// resolved item become ledger rows, numbers without a name become
// unparseable, pure header lines are dropped (their content already spread
// via broadcasting), and mostly-alphabetic leftovers become notes.
func generateResult(records []*record, cfg *config.Config, today time.Time) Result {
	var result Result
	var transactions []*record

	for _, r := range records {
		switch {
		case r.hasItem:
			transactions = append(transactions, r)
		case r.hasQty:
			result.Unparseable = append(result.Unparseable, r.raw)
		case isHeaderLine(r):
			// Context-setting line (verb+destination, destination+date, or
			// a standalone destination); nothing left to emit.
		case isNote(r.raw):
			result.Notes = append(result.Notes, r.raw)
		default:
			result.Unparseable = append(result.Unparseable, r.raw)
		}
	}

	assignBatches(transactions)

	for _, r := range transactions {
		result.Rows = append(result.Rows, recordToRows(r, cfg, today)...)
	}

	return result
}

func isHeaderLine(r *record) bool {
	if r.transType != "" && (r.location != "" || !r.date.IsZero()) {
		return true
	}
	if r.location != "" && !r.date.IsZero() {
		return true
	}
	return r.location != "" && r.unmatched == ""
}

// isNote accepts raw text whose alphabetic-character ratio exceeds 30%.
func isNote(raw string) bool {
	if raw == "" {
		return false
	}
	letters, total := 0, 0
	for _, r := range raw {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(letters)/float64(total) > 0.3
}

// =============================================================================
// BATCH ASSIGNMENT
// =============================================================================

// assignBatches numbers contiguous runs of records sharing destination and
// date, starting at 1. A location change starts a new batch; with the
// location unchanged, a date change does. Null fields never force a split.
func assignBatches(records []*record) {
	if len(records) == 0 {
		return
	}
	batch := 1
	prevLoc := records[0].location
	prevDate := records[0].date
	records[0].batch = batch

	for _, r := range records[1:] {
		switch {
		case r.location != "" && prevLoc != "" && r.location != prevLoc:
			batch++
		case r.location == "" || prevLoc == "" || r.location == prevLoc:
			if !r.date.IsZero() && !prevDate.IsZero() && !r.date.Equal(prevDate) {
				batch++
			}
		}
		r.batch = batch
		if r.location != "" {
			prevLoc = r.location
		}
		if !r.date.IsZero() {
			prevDate = r.date
		}
	}
}

// =============================================================================
// ROW GENERATION
// =============================================================================

// recordToRows emits the ledger rows for one classified record:
//
//   - non-zero-sum type → one row, quantity as extracted
//   - known location ≠ default source → double-entry transfer pair
//   - known location = default source → one positive receiving row
//   - no location → one raw row for the caller to resolve
func recordToRows(r *record, cfg *config.Config, today time.Time) []Row {
	date := r.date
	if date.IsZero() {
		date = today
	}
	item := r.item
	if item == "" {
		item = ItemUnknown
	}
	qty := r.qty
	if !r.hasQty {
		qty = 1
	}
	batch := r.batch
	if batch == 0 {
		batch = 1
	}

	base := Row{Date: date, Item: item, Batch: batch, Notes: r.notes}
	if r.container != "" {
		// Conversion factor unknown; leave quantity in container units and
		// flag the row for human resolution.
		base.PendingContainer = r.container
		base.RawQty = qty
	}

	transType := r.transType

	if transType != "" && cfg.IsNonZeroSum(transType) {
		row := base
		row.Qty = qty
		row.TransType = transType
		row.Location = r.location
		if row.Location == "" {
			row.Location = cfg.DefaultSource
		}
		return []Row{row}
	}

	if r.location != "" && r.location != cfg.DefaultSource {
		if transType == "" {
			transType = cfg.DefaultTransferType
		}
		out, in := base, base
		out.Qty = -math.Abs(qty)
		in.Qty = math.Abs(qty)
		out.TransType, in.TransType = transType, transType
		if r.direction == "from" {
			// The named location loses stock; it arrives at the source.
			out.Location = r.location
			in.Location = cfg.DefaultSource
		} else {
			out.Location = cfg.DefaultSource
			in.Location = r.location
		}
		return []Row{out, in}
	}

	if r.location != "" {
		row := base
		row.Qty = math.Abs(qty)
		row.TransType = transType
		row.Location = cfg.DefaultSource
		return []Row{row}
	}

	row := base
	row.Qty = qty
	row.TransType = transType
	return []Row{row}
}
