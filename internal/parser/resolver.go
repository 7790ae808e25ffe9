// =============================================================================
// Inventory Message Parser - Canonical Name Resolver
// =============================================================================
//
// Generic lookup of raw user text against a candidate vocabulary with
// configurable match tiers. Reused by every extractor, and exported as a
// standalone utility for alias-learning flows in the review surfaces.
//
// =============================================================================

package parser

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// =============================================================================
// MATCH TIERS
// =============================================================================

// MatchKind reports which resolution tier produced a match.
type MatchKind string

const (
	MatchNone      MatchKind = ""
	MatchExact     MatchKind = "exact"
	MatchAlias     MatchKind = "alias"
	MatchSeparator MatchKind = "separator"
	MatchPlural    MatchKind = "plural"
	MatchPrefix    MatchKind = "prefix"
	MatchFuzzy     MatchKind = "fuzzy"
)

// ResolveOptions selects the optional tiers. The zero value runs only
// exact, alias, and fuzzy matching.
type ResolveOptions struct {
	// NormalizeSeparators treats spaces, dashes, and underscores as
	// interchangeable for equality.
	NormalizeSeparators bool

	// TryPlural strips a trailing "s" from both sides before comparing.
	TryPlural bool

	// TryPrefix matches a candidate that starts with the input.
	TryPrefix bool

	// FuzzyCutoff is the minimum similarity ratio for the fuzzy tier.
	// Zero means 0.6. Inputs of length <= 4 are always held to at least
	// 0.8 to suppress short-token false positives.
	FuzzyCutoff float64
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve matches text against candidates and aliases, first hit wins:
// exact, alias, separator-normalized (optional), plural-insensitive
// (optional), prefix (optional), then fuzzy. It never fails; no match
// returns ("", MatchNone).
func Resolve(text string, candidates []string, aliases map[string]string, opts ResolveOptions) (string, MatchKind) {
	textLower := strings.ToLower(strings.TrimSpace(text))
	if textLower == "" {
		return "", MatchNone
	}

	// 1. Exact case-insensitive match against candidates.
	for _, c := range candidates {
		if strings.ToLower(c) == textLower {
			return c, MatchExact
		}
	}

	// 2. Exact alias match, resolved to its target.
	aliasKeys := sortedKeys(aliases)
	for _, a := range aliasKeys {
		if strings.ToLower(a) == textLower {
			return aliases[a], MatchAlias
		}
	}

	// 3. Separator-normalized equality.
	if opts.NormalizeSeparators {
		norm := normalizeSeparators(textLower)
		for _, c := range candidates {
			if normalizeSeparators(strings.ToLower(c)) == norm {
				return c, MatchSeparator
			}
		}
		for _, a := range aliasKeys {
			if normalizeSeparators(strings.ToLower(a)) == norm {
				return aliases[a], MatchSeparator
			}
		}
	}

	// 4. Plural-insensitive equality.
	if opts.TryPlural {
		tl := strings.TrimSuffix(textLower, "s")
		for _, c := range candidates {
			cl := strings.ToLower(c)
			if tl == cl || tl == strings.TrimSuffix(cl, "s") {
				return c, MatchPlural
			}
		}
	}

	// 5. Prefix match: a candidate starts with the input.
	if opts.TryPrefix {
		for _, c := range candidates {
			if strings.HasPrefix(strings.ToLower(c), textLower) {
				return c, MatchPrefix
			}
		}
	}

	// 6. Fuzzy match against the lower-cased union of candidates and alias
	// keys, resolving through the alias map first.
	cutoff := opts.FuzzyCutoff
	if cutoff == 0 {
		cutoff = 0.6
	}
	targets := make([]string, 0, len(candidates)+len(aliases))
	for _, c := range candidates {
		targets = append(targets, strings.ToLower(c))
	}
	for _, a := range aliasKeys {
		targets = append(targets, strings.ToLower(a))
	}
	if match, ok := closeMatch(textLower, targets, shortTokenCutoff(textLower, cutoff)); ok {
		for _, a := range aliasKeys {
			if strings.ToLower(a) == match {
				return aliases[a], MatchFuzzy
			}
		}
		for _, c := range candidates {
			if strings.ToLower(c) == match {
				return c, MatchFuzzy
			}
		}
	}

	return "", MatchNone
}

// =============================================================================
// SIMILARITY
// =============================================================================

// similarity is difflib's sequence ratio over runes, matching the behavior
// the vocabulary was tuned against.
func similarity(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// closeMatch returns the best-scoring target with ratio >= cutoff. Ties
// keep the earliest target, so target order must be deterministic.
func closeMatch(word string, targets []string, cutoff float64) (string, bool) {
	best := ""
	bestRatio := 0.0
	found := false
	for _, t := range targets {
		r := similarity(word, t)
		if r >= cutoff && r > bestRatio {
			best, bestRatio, found = t, r, true
		}
	}
	return best, found
}

// shortTokenCutoff raises the cutoff for tokens of length <= 4; short-token
// fuzzy hits are mostly noise.
func shortTokenCutoff(text string, cutoff float64) float64 {
	if len([]rune(text)) <= 4 && cutoff < 0.8 {
		return 0.8
	}
	return cutoff
}

// escalatedCutoff is the stricter per-word variant used by the location and
// verb fallbacks, where a false positive consumes words from the line.
func escalatedCutoff(word string) float64 {
	if len([]rune(word)) <= 4 {
		return 0.85
	}
	return 0.75
}

// =============================================================================
// HELPERS
// =============================================================================

var separatorNormalizer = strings.NewReplacer("-", " ", "_", " ")

func normalizeSeparators(s string) string {
	return strings.Join(strings.Fields(separatorNormalizer.Replace(s)), " ")
}

// sortedKeys gives a stable iteration order for alias maps.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// byLengthDesc sorts longest-first, breaking ties lexicographically so the
// scan order never depends on map iteration.
func byLengthDesc(values []string) []string {
	out := append([]string{}, values...)
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
