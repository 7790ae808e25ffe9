// =============================================================================
// Inventory Message Parser - Boundary-Aware Text Matching
// =============================================================================
//
// Locale-sensitive boundary rules shared by the extractors. RE2's \b is
// ASCII-only, so Hebrew tokens get explicit boundary classes: a word
// character is any letter, digit, or underscore; everything else (or the
// string edge) is a boundary.
//
// =============================================================================

package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// boundedPattern wraps a pattern core so it only matches between word
// boundaries. The boundary characters are consumed by the match but stay
// outside capture group 1, which holds the core's span.
func boundedPattern(core string) string {
	return `(?:^|[^\pL\pN_])(` + core + `)(?:$|[^\pL\pN_])`
}

// spaceBoundedPattern is the stricter variant for short non-ASCII tokens:
// only whitespace (or the string edge) counts as a boundary.
func spaceBoundedPattern(core string) string {
	return `(?:^|\s)(` + core + `)(?:$|\s)`
}

// findCore runs a bounded pattern and returns the span of capture group 1.
func findCore(re *regexp.Regexp, text string) (start, end int, ok bool) {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil || loc[2] < 0 {
		return 0, 0, false
	}
	return loc[2], loc[3], true
}

// cutSpan removes [start, end) from text. No space is inserted at the seam;
// whitespace runs left behind are collapsed so multi-word vocabulary still
// matches the remainder.
func cutSpan(text string, start, end int) string {
	return collapseSpaces(text[:start] + text[end:])
}

// flexSeparators escapes a vocabulary term into a pattern fragment where
// spaces, dashes, and underscores are interchangeable ("warehouse_to_branch"
// matches "warehouse-to-branch" and "warehouse to branch").
func flexSeparators(term string) string {
	var b strings.Builder
	for _, r := range term {
		switch r {
		case ' ', '_', '-':
			b.WriteString(`[\s_-]+`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// removeWordAll deletes every boundary-delimited, case-insensitive
// occurrence of a plain word. Unlike a regexp replace, the boundary
// characters themselves are never consumed, so adjacent occurrences
// ("of the") are all removed.
func removeWordAll(text, word string) string {
	wordLower := strings.ToLower(word)
	textLower := strings.ToLower(text)
	if len(textLower) != len(text) {
		// Case folding changed byte offsets (exotic scripts); fall back to
		// case-sensitive matching rather than mis-slicing.
		textLower = text
		wordLower = word
	}
	var b strings.Builder
	for {
		i := strings.Index(textLower, wordLower)
		if i < 0 {
			break
		}
		end := i + len(wordLower)
		before, _ := utf8.DecodeLastRuneInString(textLower[:i])
		after, _ := utf8.DecodeRuneInString(textLower[end:])
		boundaryBefore := i == 0 || !isWordRune(before)
		boundaryAfter := end == len(textLower) || !isWordRune(after)
		if boundaryBefore && boundaryAfter {
			b.WriteString(text[:i])
			text = text[end:]
			textLower = textLower[end:]
			continue
		}
		b.WriteString(text[:end])
		text = text[end:]
		textLower = textLower[end:]
	}
	b.WriteString(text)
	return b.String()
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseSpaces squashes whitespace runs to single spaces and trims.
func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
