// =============================================================================
// Inventory Message Parser - Parse Pipeline
// =============================================================================
//
// This package turns free-form, multi-line stock messages (WhatsApp-style
// shorthand, mixed Hebrew/English, inconsistent punctuation) into structured
// ledger transaction rows.
//
// PIPELINE:
//   1. Strip chat metadata, split into lines
//   2. Parse each line into a partial record (date, location, verb,
//      quantity, container, item, each with fallback resolution tiers)
//   3. Merge adjacent records (qty-only + item-only, trailing context lines)
//   4. Broadcast location/direction/type/date context across the sequence
//   5. Partition into batches on destination/date change
//   6. Generate ledger rows (double-entry pairs for transfers)
//   7. Classify leftovers into notes and unparseable text
//
// Parse is a pure synchronous function: no I/O, no shared state, and no
// failure mode for malformed input. Bad text degrades to notes or
// unparseable entries, never an error.
//
// =============================================================================

package parser

import (
	"regexp"
	"strings"
	"time"

	"inventory-parser/internal/config"
)

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// ItemUnknown is the placeholder written when a row's item could not be
// resolved. Review surfaces render and edit it directly.
const ItemUnknown = "???"

// Row is a single ledger transaction row. A transfer produces two rows with
// equal batch and item and exactly opposite quantities.
type Row struct {
	// Date the movement happened. Never zero; defaults to "today".
	Date time.Time

	// Item is the canonical item name, or ItemUnknown.
	Item string

	// Qty is the signed quantity in base units (negative = stock leaving).
	Qty float64

	// TransType is the canonical transaction type; empty when unresolved.
	TransType string

	// Location the row applies to; empty when unresolved.
	Location string

	// Batch groups consecutive rows sharing destination and date. Positive,
	// 1-based, contiguous within one parse call.
	Batch int

	// Notes carries free-text fragments ("from supplier", "had 9 total").
	Notes string

	// PendingContainer is set when a container was recognized but no
	// conversion factor is configured for the item. Qty then remains in
	// container units (RawQty) until a human resolves it; callers strip
	// both fields before persistence.
	PendingContainer string

	// RawQty is the pre-conversion quantity, set only with PendingContainer.
	RawQty float64
}

// Result is the outcome of one Parse call. Every input line is accounted
// for in exactly one of the three lists (directly, or folded into a row via
// merging/broadcasting).
type Result struct {
	Rows        []Row
	Notes       []string
	Unparseable []string
}

// =============================================================================
// PARTIAL RECORD
// =============================================================================

// record is the per-line working state, progressively populated by the
// extractors and then adjusted by merging, broadcasting, and batching.
type record struct {
	raw string

	qty    float64
	hasQty bool

	item    string // canonical
	itemRaw string // token as matched in the text
	hasItem bool

	container string
	transType string
	location  string
	direction string // "to", "by", or "from"

	date time.Time // zero = unset

	notes     string // notes fragment picked up during extraction
	unmatched string // leftover text that failed item matching

	batch int
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Parse converts a raw message into ledger rows, notes, and unparseable
// strings. cfg may be nil or minimal; today defaults to the current date.
// Identical (text, cfg, today) inputs always yield an identical Result.
func Parse(text string, cfg *config.Config, today time.Time) Result {
	if cfg == nil {
		cfg = &config.Config{}
	}
	c := cfg.Normalized()
	if today.IsZero() {
		now := time.Now()
		today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	ex := newExtractors(c)

	var records []*record
	for _, line := range strings.Split(stripMetadata(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		records = append(records, ex.parseLine(line))
	}

	merged := mergeLines(records, ex)
	broadcastContext(merged)
	return generateResult(merged, c, today)
}

// =============================================================================
// PREPROCESSING
// =============================================================================

// Chat export artifacts that carry no inventory meaning.
var metadataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<This message was edited>`),
	regexp.MustCompile(`(?i)<Media omitted>`),
}

func stripMetadata(text string) string {
	for _, re := range metadataPatterns {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}
