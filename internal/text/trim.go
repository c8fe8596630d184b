package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ellipsis marks text shortened by Trim.
const Ellipsis = "…"

// DefaultMaxChars is the longest message, in runes, sent to the model.
const DefaultMaxChars = 2000

// Trim strips surrounding whitespace and caps s at maxChars runes.
// Text over the cap is cut at the cap, right-trimmed again so the
// marker never follows a space, and suffixed with Ellipsis.
func Trim(s string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	head := string([]rune(s)[:maxChars])
	return strings.TrimRightFunc(head, unicode.IsSpace) + Ellipsis
}
