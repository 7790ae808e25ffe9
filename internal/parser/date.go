// =============================================================================
// Inventory Message Parser - Date Extraction
// =============================================================================

package parser

import (
	"regexp"
	"strconv"
	"time"
)

// Date patterns tried in order. Two-digit years are 2000-based.
var (
	dotDateRe   = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{2,4})\b`) // DD.MM.YY(YY)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)   // MM/DD/YY(YY)
	sixDigitRe  = regexp.MustCompile(`\b(\d{6})\b`)                         // DDMMYY
	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)         // YYYY-MM-DD
)

// extractDate finds the first valid date in the line and removes its span.
// Invalid calendar values (month 13, day 32) are non-matches: extraction
// falls through to the next pattern.
func extractDate(text string) (time.Time, string, bool) {
	if m := dotDateRe.FindStringSubmatchIndex(text); m != nil {
		day := atoi(text[m[2]:m[3]])
		month := atoi(text[m[4]:m[5]])
		year := expandYear(atoi(text[m[6]:m[7]]))
		if d, ok := makeDate(year, month, day); ok {
			return d, cutSpan(text, m[0], m[1]), true
		}
	}
	if m := slashDateRe.FindStringSubmatchIndex(text); m != nil {
		month := atoi(text[m[2]:m[3]])
		day := atoi(text[m[4]:m[5]])
		year := expandYear(atoi(text[m[6]:m[7]]))
		if d, ok := makeDate(year, month, day); ok {
			return d, cutSpan(text, m[0], m[1]), true
		}
	}
	if m := sixDigitRe.FindStringSubmatchIndex(text); m != nil {
		s := text[m[2]:m[3]]
		day := atoi(s[0:2])
		month := atoi(s[2:4])
		year := 2000 + atoi(s[4:6])
		if d, ok := makeDate(year, month, day); ok {
			return d, cutSpan(text, m[0], m[1]), true
		}
	}
	if m := isoDateRe.FindStringSubmatchIndex(text); m != nil {
		year := atoi(text[m[2]:m[3]])
		month := atoi(text[m[4]:m[5]])
		day := atoi(text[m[6]:m[7]])
		if d, ok := makeDate(year, month, day); ok {
			return d, cutSpan(text, m[0], m[1]), true
		}
	}
	return time.Time{}, text, false
}

func expandYear(year int) int {
	if year < 100 {
		return year + 2000
	}
	return year
}

// makeDate builds a UTC midnight date, rejecting values time.Date would
// silently normalize (Feb 30 → Mar 2).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
