package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var spaceRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims the string and folds runs of whitespace into
// single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Clip shortens a string to at most maxBytes bytes, backing the cut off to
// a rune boundary so multi-byte characters are never split. No ellipsis.
func Clip(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}
	return s[:maxBytes]
}

// Truncate shortens a string to maxLength runes and appends "..." when it
// was cut. Multi-byte characters are never split.
func Truncate(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength]) + "..."
}
