// =============================================================================
// Inventory Message Parser - Context Broadcasting
// =============================================================================

package parser

import "time"

// broadcastContext propagates message-level attributes from lines that
// state them to lines that omit them.
//
// Pass one folds left-to-right: each record that states a location, type,
// or date updates the running value, and each record missing one inherits
// it. Pass two computes the last-seen value of each field anywhere in the
// sequence and fills whatever is still missing, so a destination or verb
// stated only at the end of a message reaches the records before it.
func broadcastContext(records []*record) {
	if len(records) == 0 {
		return
	}

	var (
		ctxLoc, ctxDir, ctxType string
		ctxDate                 time.Time
	)
	for _, r := range records {
		if r.location != "" {
			ctxLoc, ctxDir = r.location, r.direction
		}
		if r.transType != "" {
			ctxType = r.transType
		}
		if !r.date.IsZero() {
			ctxDate = r.date
		}

		if r.location == "" && ctxLoc != "" {
			r.location, r.direction = ctxLoc, ctxDir
		}
		if r.transType == "" && ctxType != "" {
			r.transType = ctxType
		}
		if r.date.IsZero() && !ctxDate.IsZero() {
			r.date = ctxDate
		}
	}

	var (
		lastLoc, lastDir, lastType string
		lastDate                   time.Time
	)
	for _, r := range records {
		if r.location != "" {
			lastLoc, lastDir = r.location, r.direction
		}
		if !r.date.IsZero() {
			lastDate = r.date
		}
		if r.transType != "" {
			lastType = r.transType
		}
	}

	for _, r := range records {
		if r.location == "" && lastLoc != "" {
			r.location, r.direction = lastLoc, lastDir
		}
		if r.date.IsZero() && !lastDate.IsZero() {
			r.date = lastDate
		}
		if r.transType == "" && lastType != "" {
			r.transType = lastType
		}
	}
}
