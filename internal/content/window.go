// Package content holds the windowing heuristic and small text utilities
// shared across the pipeline.
package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// sectionMarkers are the headings (or plain words) that signal the start of
// the actual recipe section on a page. The earliest occurrence wins, even
// when a marker shows up in navigation chrome first.
var sectionMarkers = []string{
	"ingredients",
	"directions",
	"instructions",
	"steps",
	"recipe instructions",
	"how to make",
}

// case-insensitive match directly over the raw text, so every offset is a
// valid byte index into it; lowercasing a copy first shifts offsets for
// characters whose case pair differs in UTF-8 length
var sectionMarkerRe = regexp.MustCompile("(?i)" + strings.Join(sectionMarkers, "|"))

// SelectRecipeSection returns a window of at most maxChars from raw, chosen
// to contain the recipe. Short input is returned unchanged; this is a pure
// windowing step and never rewrites characters inside the window.
func SelectRecipeSection(raw string, maxChars int) string {
	if len(raw) <= maxChars {
		return raw
	}

	loc := sectionMarkerRe.FindStringIndex(raw)
	if loc == nil {
		return Clip(raw, maxChars)
	}
	marker := loc[0]

	start := marker - WindowLeadIn
	if start < 0 {
		start = 0
	}
	end := marker + maxChars
	if end > len(raw) {
		end = len(raw)
	}
	return raw[runeBoundaryAtOrBelow(raw, start):runeBoundaryAtOrBelow(raw, end)]
}

// runeBoundaryAtOrBelow backs i off until it no longer points into the
// middle of a multi-byte rune.
func runeBoundaryAtOrBelow(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
