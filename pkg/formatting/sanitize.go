package formatting

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Sanitization limits.
const (
	MaxTextLength = 120_000
	MaxListItems  = 128
)

var (
	nonNumeric   = regexp.MustCompile(`[^\d.-]`)
	leadingFloat = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
	listSplit    = regexp.MustCompile(`[;,\n]`)
)

func isControl(r rune) bool {
	return (r >= 0x00 && r <= 0x08) ||
		r == 0x0B || r == 0x0C ||
		(r >= 0x0E && r <= 0x1F) ||
		(r >= 0x7F && r <= 0x9F)
}

// StripControl replaces control characters other than tab, newline, and carriage return
// with a space.
func StripControl(s string) string {
	if strings.IndexFunc(s, isControl) == -1 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return ' '
		}
		return r
	}, s)
}

// CollapseWhitespace replaces every run of three or more whitespace characters with a
// single space. Shorter runs are left intact.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	run := make([]rune, 0, 4)
	flush := func() {
		if len(run) >= 3 {
			b.WriteRune(' ')
		} else {
			for _, r := range run {
				b.WriteRune(r)
			}
		}
		run = run[:0]
	}

	for _, r := range s {
		if unicode.IsSpace(r) {
			run = append(run, r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()

	return b.String()
}

// SanitizeString cleans model-provided text: control characters become spaces, long
// whitespace runs collapse, the result is capped at maxLen runes and trimmed. Empty
// results are reported as nil. A non-positive maxLen uses MaxTextLength.
func SanitizeString(s string, maxLen int) *string {
	if maxLen <= 0 {
		maxLen = MaxTextLength
	}

	s = CollapseWhitespace(StripControl(s))
	if r := []rune(s); len(r) > maxLen {
		s = string(r[:maxLen])
	}
	s = strings.TrimSpace(s)

	if s == "" {
		return nil
	}
	return &s
}

// SanitizeList sanitizes each item, drops empties and duplicates while preserving
// first-seen order, and caps the result at MaxListItems. Returns nil when nothing remains.
func SanitizeList(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))

	for _, item := range items {
		v := SanitizeString(item, 0)
		if v == nil {
			continue
		}
		if _, dup := seen[*v]; dup {
			continue
		}
		seen[*v] = struct{}{}
		out = append(out, *v)
		if len(out) == MaxListItems {
			break
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// SplitList splits a delimited string on semicolons, commas, and newlines.
func SplitList(s string) []string {
	return listSplit.Split(s, -1)
}

// CoerceInt reads a whole number from loosely formatted text such as "7+ years" or
// "5.9". Everything except digits, '.', and '-' is removed, the leading number is
// parsed and floored. Returns nil when no number can be read.
func CoerceInt(s string) *int {
	cleaned := nonNumeric.ReplaceAllString(s, "")

	match := leadingFloat.FindString(cleaned)
	if match == "" {
		return nil
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	n := int(math.Floor(f))
	return &n
}
