// =============================================================================
// Inventory Message Parser - Line Parser
// =============================================================================
//
// Converts one raw line into a partial record by running the extraction
// cascade in a fixed order: special patterns, date, location, verb,
// supplier, quantity + container, filler removal, item matching, and
// finally the multi-number disambiguation retry.
//
// =============================================================================

package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingSignRe = regexp.MustCompile(`^\s*[+\-]\s*`)

	// "took X out of Y <item>" is a partial withdrawal. Quantity is X, the
	// total Y goes to notes, and type/location stay deliberately unset so
	// the ambiguity surfaces instead of being guessed.
	tookOutOfRe = regexp.MustCompile(`(?i)^took\s+(\d+)\s+out\s+of\s+(\d+)\s+(.+)$`)
)

func (ex *extractors) parseLine(text string) *record {
	r := &record{raw: text}

	remaining := strings.TrimSpace(leadingSignRe.ReplaceAllString(text, ""))

	if m := tookOutOfRe.FindStringSubmatch(remaining); m != nil {
		r.qty, _ = strconv.ParseFloat(m[1], 64)
		r.hasQty = true
		r.notes = "had " + m[2] + " total"
		if item, raw := ex.matchItem(strings.TrimSpace(m[3])); item != "" {
			r.item, r.itemRaw, r.hasItem = item, raw, true
		}
		return r
	}

	if d, rest, ok := extractDate(remaining); ok {
		r.date = d
		remaining = rest
	}

	if loc, dir, rest := ex.extractLocation(remaining); loc != "" {
		r.location, r.direction = loc, dir
		remaining = rest
	}

	if tt, rest := ex.extractVerb(remaining); tt != "" {
		r.transType = tt
		remaining = rest
	}

	if ex.containsFromWord(remaining) {
		if supplier, rest := ex.extractSupplier(remaining); supplier != "" {
			r.notes = "from " + supplier
			remaining = rest
		}
	}

	remainingBeforeQty := remaining
	qty, hasQty, container, rest := ex.extractQty(remaining)
	remaining = rest
	if hasQty {
		r.qty, r.hasQty = qty, true
	}
	if container != "" {
		r.container = container
	}

	remaining = ex.removeFiller(remaining)
	if remaining != "" {
		if item, raw := ex.matchItem(remaining); item != "" {
			r.item, r.itemRaw, r.hasItem = item, raw, true
		} else {
			r.unmatched = remaining
		}
	}

	if !r.hasItem && r.hasQty {
		ex.retryAlternateNumbers(r, remainingBeforeQty)
	}

	if r.hasItem && r.container != "" && r.hasQty {
		if converted, ok := ex.convertContainer(r.item, r.container, r.qty); ok {
			r.qty = converted
			r.container = ""
		}
	}

	return r
}

// =============================================================================
// MULTI-NUMBER DISAMBIGUATION
// =============================================================================

// retryAlternateNumbers handles lines like "2 17 spaghetti" where the first
// integer grabbed as quantity left no resolvable item. Each other integer
// is tried as the quantity instead: remove it from the pre-quantity text,
// strip filler, re-attempt container and item matching. The first alternate
// that yields an item wins.
func (ex *extractors) retryAlternateNumbers(r *record, beforeQty string) {
	numbers := intRe.FindAllString(beforeQty, -1)
	if len(numbers) <= 1 {
		return
	}
	for _, numStr := range numbers {
		val, err := strconv.ParseFloat(numStr, 64)
		if err != nil || val == r.qty {
			continue
		}
		trial := ex.removeFiller(strings.TrimSpace(strings.Replace(beforeQty, numStr, "", 1)))
		container, afterContainer := ex.extractContainer(trial)
		target := trial
		if container != "" {
			target = afterContainer
		}
		item, raw := ex.matchItem(target)
		if item == "" {
			continue
		}
		r.qty, r.hasQty = val, true
		r.item, r.itemRaw, r.hasItem = item, raw, true
		r.unmatched = ""
		if container != "" {
			r.container = container
		}
		return
	}
}

// =============================================================================
// SUPPLIER EXTRACTION
// =============================================================================

func (ex *extractors) containsFromWord(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range ex.cfg.FromWords {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// extractSupplier captures "from <name>" when the name is not a known
// location. The supplier lands in the notes fragment; stock bookkeeping
// only tracks configured locations.
func (ex *extractors) extractSupplier(text string) (supplier, remaining string) {
	for _, re := range ex.fromRules {
		if re == nil {
			continue
		}
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(text[m[2]:m[3]])
		if name == "" || ex.supplierLocs[strings.ToLower(name)] {
			continue
		}
		return name, strings.TrimSpace(text[:m[0]])
	}
	return "", text
}
