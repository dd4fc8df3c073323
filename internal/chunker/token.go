package chunker

import (
	"strings"
	"unicode/utf8"
)

// CountWords returns the number of whitespace-separated tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// lastRunes returns the trailing n runes of s.
func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	total := utf8.RuneCountInString(s)
	if total <= n {
		return s
	}
	skip := total - n
	for i := range s {
		if skip == 0 {
			return s[i:]
		}
		skip--
	}
	return ""
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
