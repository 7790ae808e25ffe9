// =============================================================================
// Inventory Message Parser - Quantity + Container Extraction
// =============================================================================

package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	halfRe = regexp.MustCompile(`(?i)\bhalf\s+a\s+`)
	multRe = regexp.MustCompile(`\b(\d+)\s*[x×*]\s*(\d+)\b`)
	intRe  = regexp.MustCompile(`\b(\d+)\b`)
)

// extractQty resolves the quantity in priority order: "half a <container>",
// a multiplication expression (2x17, 11*920), a plain integer, and finally
// a bare container with quantity defaulting to 1. After a quantity is
// found, an adjoining container is searched for.
func (ex *extractors) extractQty(text string) (qty float64, hasQty bool, container, remaining string) {
	if m := halfRe.FindStringIndex(text); m != nil {
		after := text[m[1]:]
		if cont, afterCont := ex.extractContainer(after); cont != "" {
			remaining = strings.TrimSpace(text[:m[0]] + " " + afterCont)
			return 0.5, true, cont, remaining
		}
	}

	if m := multRe.FindStringSubmatchIndex(text); m != nil {
		a, _ := strconv.ParseFloat(text[m[2]:m[3]], 64)
		b, _ := strconv.ParseFloat(text[m[4]:m[5]], 64)
		remaining = cutSpan(text, m[0], m[1])
		cont, rest := ex.extractContainer(remaining)
		return a * b, true, cont, rest
	}

	if m := intRe.FindStringSubmatchIndex(text); m != nil {
		n, _ := strconv.ParseFloat(text[m[2]:m[3]], 64)
		remaining = cutSpan(text, m[0], m[1])
		cont, rest := ex.extractContainer(remaining)
		return n, true, cont, rest
	}

	// No integer anywhere: a bare container still implies one of it.
	if cont, rest := ex.extractContainer(text); cont != "" {
		return 1, true, cont, rest
	}

	return 0, false, "", text
}

// extractContainer searches the precompiled container rules longest-first,
// each with its plural variant, anchored at the start of the text (right
// after the number) before anywhere in the line.
func (ex *extractors) extractContainer(text string) (canonical, remaining string) {
	trimmed := strings.TrimSpace(text)
	for _, rule := range ex.containers {
		for i := range rule.anchored {
			if _, e, ok := findCore(rule.anchored[i], trimmed); ok {
				return rule.canonical, strings.TrimSpace(trimmed[e:])
			}
			if s, e, ok := findCore(rule.anywhere[i], text); ok {
				return rule.canonical, cutSpan(text, s, e)
			}
		}
	}
	return "", text
}

// convertContainer applies the configured item/container factor. Missing
// factors leave the quantity raw; the caller marks the row pending instead.
func (ex *extractors) convertContainer(item, container string, qty float64) (float64, bool) {
	table, ok := ex.cfg.UnitConversions[item]
	if !ok {
		return 0, false
	}
	factor, ok := table.Factor(container)
	if !ok {
		return 0, false
	}
	return qty * factor, true
}
