// =============================================================================
// Inventory Message Parser - Line Merger
// =============================================================================

package parser

// mergeLines combines adjacent partial records. Each line is fully resolved
// on its own before any cross-line merging happens.
//
// Rule A: a quantity-only record (no leftover unmatched text) followed by
// an item-only record becomes one record; container conversion is
// re-attempted now that both halves are known.
//
// Rule B: a trailing record carrying only a transaction type or a notes
// fragment (no quantity, item, or location header) folds onto the
// previously emitted record.
func mergeLines(records []*record, ex *extractors) []*record {
	var merged []*record

	i := 0
	for i < len(records) {
		cur := records[i]

		if cur.hasQty && !cur.hasItem && cur.unmatched == "" && i+1 < len(records) {
			next := records[i+1]
			if next.hasItem && !next.hasQty {
				combined := *cur
				combined.item = next.item
				combined.itemRaw = next.itemRaw
				combined.hasItem = true
				combined.raw = cur.raw + "\n" + next.raw
				if combined.container != "" && combined.item != "" {
					if converted, ok := ex.convertContainer(combined.item, combined.container, combined.qty); ok {
						combined.qty = converted
						combined.container = ""
					}
				}
				merged = append(merged, &combined)
				i += 2
				continue
			}
		}

		if !cur.hasQty && !cur.hasItem &&
			(cur.transType != "" || cur.notes != "") &&
			cur.location == "" && len(merged) > 0 {
			prev := merged[len(merged)-1]
			if cur.transType != "" && prev.transType == "" {
				prev.transType = cur.transType
			}
			if cur.notes != "" {
				prev.notes = cur.notes
			}
			i++
			continue
		}

		merged = append(merged, cur)
		i++
	}

	return merged
}
