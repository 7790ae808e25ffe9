// =============================================================================
// Inventory Message Parser - Item Matching
// =============================================================================

package parser

import "strings"

// matchItem resolves an item name from whatever text survived the other
// extractors. Item names are multi-word, so the cascade starts with
// substring matching and ends with a sliding word-span scan that can pull a
// name out from between filler words:
//
//  1. longest-candidate-first substring match against items
//  2. longest-alias-first substring match
//  3. whole-text resolution (plural, prefix, fuzzy)
//  4. word spans of length 4 down to 1: exact alias, exact item, fuzzy
//
// Returns the canonical name and the raw token that matched.
func (ex *extractors) matchItem(text string) (canonical, raw string) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return "", ""
	}
	lower := strings.ToLower(clean)

	for _, item := range ex.items {
		if item != "" && strings.Contains(lower, strings.ToLower(item)) {
			return item, item
		}
	}

	for _, alias := range ex.aliasKeys {
		if alias != "" && strings.Contains(lower, strings.ToLower(alias)) {
			return ex.cfg.Aliases[alias], alias
		}
	}

	if c, kind := Resolve(clean, ex.cfg.Items, ex.cfg.Aliases, ResolveOptions{
		TryPlural: true,
		TryPrefix: true,
	}); kind != MatchNone {
		return c, clean
	}

	words := strings.Fields(lower)
	maxSpan := len(words)
	if maxSpan > 4 {
		maxSpan = 4
	}
	for spanLen := maxSpan; spanLen >= 1; spanLen-- {
		for start := 0; start+spanLen <= len(words); start++ {
			span := strings.Join(words[start:start+spanLen], " ")
			if c, ok := ex.aliasLower[span]; ok {
				return c, span
			}
			if c, ok := ex.itemLower[span]; ok {
				return c, span
			}
			if match, ok := closeMatch(span, ex.allTargets, shortTokenCutoff(span, 0.6)); ok {
				if c := ex.resolveTarget(match); c != "" {
					return c, span
				}
			}
		}
	}

	return "", ""
}

// resolveTarget maps a lowered fuzzy hit back to its canonical item,
// resolving through the alias map first.
func (ex *extractors) resolveTarget(matchLower string) string {
	if c, ok := ex.aliasLower[matchLower]; ok {
		return c
	}
	if c, ok := ex.itemLower[matchLower]; ok {
		return c
	}
	return ""
}
