package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanToValidUTF8 strips invalid byte sequences so captured process
// output can be stored and serialized safely.
func CleanToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// Truncate shortens s to at most max runes, appending an ellipsis when it
// was cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
