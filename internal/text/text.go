package text

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Normalize prepares user input for storage: markup is stripped, whitespace
// runs collapse to single spaces and the result is trimmed.
func Normalize(s string) string {
	s = strict.Sanitize(s)
	return strings.Join(strings.Fields(s), " ")
}

// Length counts characters the way the validation bounds mean them,
// by rune rather than by byte.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate cuts s to at most n runes, used for notification previews.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
