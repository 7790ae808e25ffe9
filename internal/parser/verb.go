// =============================================================================
// Inventory Message Parser - Verb / Transaction-Type Extraction
// =============================================================================

package parser

import "strings"

// extractVerb resolves the transaction type from the line. Tiers:
//
//	(a) boundary-aware search over all triggers, longest first, with
//	    underscore/dash/space treated as interchangeable
//	(b) 2-3 word spans compared separator-normalized, for multi-word
//	    triggers written with a different separator than configured
//	(c) per-word fuzzy match, escalated cutoff, words of length <= 2
//	    excluded entirely
func (ex *extractors) extractVerb(text string) (transType, remaining string) {
	for _, tr := range ex.triggers {
		if s, e, ok := findCore(tr.re, text); ok {
			return tr.transType, cutSpan(text, s, e)
		}
	}

	words := strings.Fields(text)

	for spanLen := 3; spanLen >= 2; spanLen-- {
		for start := 0; start+spanLen <= len(words); start++ {
			span := normalizeSeparators(strings.ToLower(strings.Join(words[start:start+spanLen], " ")))
			for _, tr := range ex.triggers {
				if !strings.Contains(tr.normalized, " ") || tr.normalized != span {
					continue
				}
				rest := make([]string, 0, len(words)-spanLen)
				rest = append(rest, words[:start]...)
				rest = append(rest, words[start+spanLen:]...)
				return tr.transType, strings.Join(rest, " ")
			}
		}
	}

	if len(ex.triggers) > 0 {
		targets := make([]string, len(ex.triggers))
		for i, tr := range ex.triggers {
			targets[i] = tr.text
		}
		for i, word := range words {
			if len([]rune(word)) <= 2 {
				continue
			}
			match, ok := closeMatch(strings.ToLower(word), targets, escalatedCutoff(word))
			if !ok {
				continue
			}
			for _, tr := range ex.triggers {
				if tr.text != match {
					continue
				}
				rest := make([]string, 0, len(words)-1)
				rest = append(rest, words[:i]...)
				rest = append(rest, words[i+1:]...)
				return tr.transType, strings.Join(rest, " ")
			}
		}
	}

	return "", text
}
