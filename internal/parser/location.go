// =============================================================================
// Inventory Message Parser - Location + Direction Extraction
// =============================================================================

package parser

import "strings"

// extractLocation matches the precompiled (preposition, location) rules in
// order, then falls back to per-word fuzzy matching against location names
// longer than two characters. The fuzzy fallback defaults direction to "to".
func (ex *extractors) extractLocation(text string) (location, direction, remaining string) {
	for _, rule := range ex.locRules {
		if s, e, ok := findCore(rule.re, text); ok {
			return rule.canonical, rule.direction, cutSpan(text, s, e)
		}
	}

	// Fuzzy fallback. Location false positives consume words from the
	// line, so short words are skipped and the cutoff is escalated.
	if len(ex.fuzzyLocs) > 0 {
		lowered := make([]string, len(ex.fuzzyLocs))
		for i, l := range ex.fuzzyLocs {
			lowered[i] = strings.ToLower(l)
		}
		words := strings.Fields(text)
		for i, word := range words {
			if len([]rune(word)) <= 2 {
				continue
			}
			match, ok := closeMatch(strings.ToLower(word), lowered, escalatedCutoff(word))
			if !ok {
				continue
			}
			canonical := ex.locCanon[match]
			rest := make([]string, 0, len(words)-1)
			rest = append(rest, words[:i]...)
			rest = append(rest, words[i+1:]...)
			return canonical, "to", strings.Join(rest, " ")
		}
	}

	return "", "", text
}
