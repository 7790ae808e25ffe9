// =============================================================================
// Inventory Message Parser - Extractor Rule Tables
// =============================================================================
//
// The extractors are driven by rule tables compiled once per Parse call
// from the config, not per input line. Every table is built in a
// deterministic order (longest-first, lexicographic tie-break) so identical
// inputs always resolve identically regardless of map iteration order.
//
// =============================================================================

package parser

import (
	"regexp"
	"sort"
	"strings"

	"inventory-parser/internal/config"
)

// =============================================================================
// RULE TYPES
// =============================================================================

// locationRule matches one (preposition, location) combination with its
// boundary pattern. Rules are ordered: locations longest-first, then
// prepositions longest-first.
type locationRule struct {
	canonical string
	direction string
	re        *regexp.Regexp
}

// verbTrigger matches one transaction-type trigger: a configured verb, a
// type name mentioned directly, or an alias pointing at a type.
type verbTrigger struct {
	text       string // lower-cased trigger
	normalized string // separator-normalized form for span matching
	transType  string
	re         *regexp.Regexp
}

// containerRule matches one container name (or alias) and its plural
// variants, anchored right after a number first, then anywhere.
type containerRule struct {
	canonical string
	anchored  []*regexp.Regexp
	anywhere  []*regexp.Regexp
}

// fillerRule is either a precompiled pattern or a plain word removed with
// unicode-aware boundaries.
type fillerRule struct {
	re   *regexp.Regexp
	word string
}

// =============================================================================
// EXTRACTOR SET
// =============================================================================

// extractors bundles the compiled rule tables for one parse call.
type extractors struct {
	cfg *config.Config

	locRules  []locationRule
	fuzzyLocs []string          // location names longer than two chars
	locCanon  map[string]string // lowered location name → canonical

	triggers []verbTrigger

	containers []containerRule

	filler []fillerRule

	fromRules    []*regexp.Regexp // parallel to cfg.FromWords; nil = skipped
	supplierLocs map[string]bool  // lowered names a supplier must not collide with

	items      []string          // longest-first
	aliasKeys  []string          // longest-first
	allTargets []string          // lowered items + alias keys, fuzzy search order
	itemLower  map[string]string // lowered item → canonical
	aliasLower map[string]string // lowered alias → canonical target
}

func newExtractors(cfg *config.Config) *extractors {
	ex := &extractors{cfg: cfg}
	ex.buildLocationRules()
	ex.buildVerbTriggers()
	ex.buildContainerRules()
	ex.buildFillerRules()
	ex.buildItemTables()
	ex.buildSupplierRules()
	return ex
}

// =============================================================================
// LOCATION RULES
// =============================================================================

// buildLocationRules expands the working location set (configured locations
// ∪ default source ∪ aliases targeting a location) into ordered boundary
// patterns per preposition.
func (ex *extractors) buildLocationRules() {
	cfg := ex.cfg

	allLocs := append([]string{}, cfg.Locations...)
	seen := map[string]bool{}
	for _, l := range cfg.Locations {
		seen[l] = true
	}
	if !seen[cfg.DefaultSource] {
		allLocs = append(allLocs, cfg.DefaultSource)
		seen[cfg.DefaultSource] = true
	}

	locSet := map[string]bool{}
	for _, l := range allLocs {
		locSet[strings.ToLower(l)] = true
	}

	ex.locCanon = map[string]string{}
	for _, l := range allLocs {
		ex.locCanon[strings.ToLower(l)] = l
	}
	for _, alias := range sortedKeys(cfg.Aliases) {
		target := cfg.Aliases[alias]
		if !locSet[strings.ToLower(target)] {
			continue
		}
		ex.locCanon[strings.ToLower(alias)] = target
		if !seen[alias] {
			allLocs = append(allLocs, alias)
			seen[alias] = true
		}
	}

	// Flatten prepositions across directions, longest-first.
	type prepEntry struct{ word, direction string }
	var preps []prepEntry
	for _, dir := range sortedKeys2(cfg.Prepositions) {
		for _, w := range cfg.Prepositions[dir] {
			preps = append(preps, prepEntry{w, dir})
		}
	}
	sort.Slice(preps, func(i, j int) bool {
		if len(preps[i].word) != len(preps[j].word) {
			return len(preps[i].word) > len(preps[j].word)
		}
		if preps[i].word != preps[j].word {
			return preps[i].word < preps[j].word
		}
		return preps[i].direction < preps[j].direction
	})

	for _, loc := range byLengthDesc(allLocs) {
		if loc == "" {
			continue
		}
		canonical := ex.locCanon[strings.ToLower(loc)]
		locEsc := regexp.QuoteMeta(loc)
		for _, p := range preps {
			var pattern string
			if len([]rune(p.word)) <= 2 && !isASCII(p.word) {
				// Single-letter Hebrew prepositions may be glued directly
				// to the location.
				pattern = spaceBoundedPattern(regexp.QuoteMeta(p.word) + `[-\s]*` + locEsc)
			} else {
				pattern = boundedPattern(regexp.QuoteMeta(p.word) + `\s+(?:the\s+)?` + locEsc)
			}
			re, err := regexp.Compile(`(?i)` + pattern)
			if err != nil {
				continue
			}
			ex.locRules = append(ex.locRules, locationRule{
				canonical: canonical,
				direction: p.direction,
				re:        re,
			})
		}
		if len([]rune(loc)) > 2 {
			ex.fuzzyLocs = append(ex.fuzzyLocs, loc)
		}
	}
}

// =============================================================================
// VERB TRIGGERS
// =============================================================================

// buildVerbTriggers assembles the trigger → transaction-type table from
// configured verb lists, the type names themselves, and aliases whose
// target is a type. Verbs outrank direct type mentions, which outrank
// aliases, for triggers spelled identically.
func (ex *extractors) buildVerbTriggers() {
	cfg := ex.cfg

	type cand struct {
		text      string
		transType string
	}
	var cands []cand
	for _, tt := range sortedKeys2(cfg.ActionVerbs) {
		for _, verb := range cfg.ActionVerbs[tt] {
			cands = append(cands, cand{verb, tt})
		}
	}
	for _, tt := range cfg.TransactionTypes {
		cands = append(cands, cand{tt, tt})
	}
	ttSet := map[string]bool{}
	for _, tt := range cfg.TransactionTypes {
		ttSet[strings.ToLower(tt)] = true
	}
	for _, alias := range sortedKeys(cfg.Aliases) {
		target := cfg.Aliases[alias]
		if ttSet[strings.ToLower(target)] {
			cands = append(cands, cand{alias, target})
		}
	}

	taken := map[string]bool{}
	var uniq []cand
	for _, c := range cands {
		key := strings.ToLower(c.text)
		if key == "" || taken[key] {
			continue
		}
		taken[key] = true
		uniq = append(uniq, cand{key, c.transType})
	}
	sort.SliceStable(uniq, func(i, j int) bool {
		return len(uniq[i].text) > len(uniq[j].text)
	})

	for _, c := range uniq {
		core := flexSeparators(c.text)
		var pattern string
		if len([]rune(c.text)) <= 2 && !isASCII(c.text) {
			pattern = spaceBoundedPattern(core)
		} else {
			pattern = boundedPattern(core)
		}
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			continue
		}
		ex.triggers = append(ex.triggers, verbTrigger{
			text:       c.text,
			normalized: normalizeSeparators(c.text),
			transType:  c.transType,
			re:         re,
		})
	}
}

// =============================================================================
// CONTAINER RULES
// =============================================================================

// buildContainerRules collects container names from the unit-conversion
// tables plus aliases targeting a container, with English plural variants.
func (ex *extractors) buildContainerRules() {
	cfg := ex.cfg

	contSet := map[string]bool{}
	var names []string
	for _, item := range sortedKeys3(cfg.UnitConversions) {
		for _, cont := range sortedKeys4(cfg.UnitConversions[item].Factors) {
			if !contSet[cont] {
				contSet[cont] = true
				names = append(names, cont)
			}
		}
	}

	contLower := map[string]bool{}
	for _, c := range names {
		contLower[strings.ToLower(c)] = true
	}
	canonOf := map[string]string{}
	for _, alias := range sortedKeys(cfg.Aliases) {
		target := cfg.Aliases[alias]
		if contLower[strings.ToLower(target)] && !contSet[alias] {
			contSet[alias] = true
			names = append(names, alias)
			canonOf[alias] = target
		}
	}

	for _, name := range byLengthDesc(names) {
		canonical := name
		if c, ok := canonOf[name]; ok {
			canonical = c
		}
		rule := containerRule{canonical: canonical}
		for _, variant := range containerVariants(name) {
			core := regexp.QuoteMeta(variant)
			anchored, err := regexp.Compile(`(?i)^(` + core + `)(?:$|[^\pL\pN_])`)
			if err != nil {
				continue
			}
			anywhere, err := regexp.Compile(`(?i)` + boundedPattern(core))
			if err != nil {
				continue
			}
			rule.anchored = append(rule.anchored, anchored)
			rule.anywhere = append(rule.anywhere, anywhere)
		}
		ex.containers = append(ex.containers, rule)
	}
}

// containerVariants returns the name plus a simple English plural. Only the
// last word of a multi-word container is pluralized, and only when ASCII.
func containerVariants(container string) []string {
	words := strings.Fields(container)
	if len(words) == 0 {
		return nil
	}
	last := words[len(words)-1]
	variants := []string{container}
	if isASCII(last) {
		var plural string
		switch {
		case strings.HasSuffix(last, "x"), strings.HasSuffix(last, "s"),
			strings.HasSuffix(last, "sh"), strings.HasSuffix(last, "ch"):
			plural = last + "es"
		default:
			plural = last + "s"
		}
		words[len(words)-1] = plural
		variants = append(variants, strings.Join(words, " "))
	}
	return variants
}

// =============================================================================
// FILLER RULES
// =============================================================================

// buildFillerRules splits the configured filler list into regex patterns
// (entries starting with a backslash) and plain words. Invalid patterns are
// skipped rather than failing the parse.
func (ex *extractors) buildFillerRules() {
	for _, entry := range ex.cfg.FillerWords {
		if strings.HasPrefix(entry, `\`) {
			if re, err := regexp.Compile(`(?i)` + entry); err == nil {
				ex.filler = append(ex.filler, fillerRule{re: re})
			}
			continue
		}
		ex.filler = append(ex.filler, fillerRule{word: entry})
	}
}

// removeFiller strips filler words and collapses whitespace.
func (ex *extractors) removeFiller(text string) string {
	for _, rule := range ex.filler {
		if rule.re != nil {
			text = rule.re.ReplaceAllString(text, "")
		} else {
			text = removeWordAll(text, rule.word)
		}
	}
	return collapseSpaces(text)
}

// =============================================================================
// ITEM TABLES
// =============================================================================

func (ex *extractors) buildItemTables() {
	cfg := ex.cfg

	ex.items = append([]string{}, cfg.Items...)
	sort.SliceStable(ex.items, func(i, j int) bool {
		return len(ex.items[i]) > len(ex.items[j])
	})

	ex.aliasKeys = byLengthDesc(sortedKeys(cfg.Aliases))

	ex.itemLower = map[string]string{}
	ex.aliasLower = map[string]string{}
	for _, item := range cfg.Items {
		ex.allTargets = append(ex.allTargets, strings.ToLower(item))
		ex.itemLower[strings.ToLower(item)] = item
	}
	for _, alias := range sortedKeys(cfg.Aliases) {
		ex.allTargets = append(ex.allTargets, strings.ToLower(alias))
		ex.aliasLower[strings.ToLower(alias)] = cfg.Aliases[alias]
	}
}

// =============================================================================
// SUPPLIER RULES
// =============================================================================

// buildSupplierRules precompiles one capture pattern per from-word. The
// captured name is only treated as a supplier when it is not a known
// location (that case belongs to the location extractor).
func (ex *extractors) buildSupplierRules() {
	cfg := ex.cfg

	ex.supplierLocs = map[string]bool{}
	for _, l := range cfg.Locations {
		ex.supplierLocs[strings.ToLower(l)] = true
	}
	ex.supplierLocs[strings.ToLower(cfg.DefaultSource)] = true

	for _, word := range cfg.FromWords {
		var pattern string
		if len([]rune(word)) <= 2 && !isASCII(word) {
			pattern = `(?i)` + regexp.QuoteMeta(word) + `[-\s]*(.+?)\s*$`
		} else {
			pattern = `(?i)(?:^|[^\pL\pN_])` + regexp.QuoteMeta(word) + `\s+(.+?)\s*$`
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			re = nil
		}
		ex.fromRules = append(ex.fromRules, re)
	}
}

// =============================================================================
// SMALL KEY SORTERS
// =============================================================================
//
// Typed variants of sortedKeys for the other config map shapes.

func sortedKeys2(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys3(m map[string]config.ConversionTable) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys4(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
