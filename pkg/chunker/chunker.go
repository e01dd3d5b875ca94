// Package chunker splits long text into pieces small enough for a single
// vendor request. Splitting is lossless: joining the pieces yields the input.
package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var separators = []string{"\n\n", "\n", ". ", " "}

// Split breaks text into pieces of at most maxRunes runes, preferring
// paragraph, line, sentence and word boundaries in that order.
func Split(text string, maxRunes int) []string {
	if text == "" {
		return nil
	}
	if maxRunes <= 0 {
		return []string{text}
	}
	return split(text, separators, maxRunes)
}

func split(text string, seps []string, maxRunes int) []string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return []string{text}
	}

	if len(seps) == 0 {
		var result []string
		runes := []rune(text)
		for i := 0; i < len(runes); i += maxRunes {
			end := min(i+maxRunes, len(runes))
			result = append(result, string(runes[i:end]))
		}
		return result
	}

	var result []string
	var current strings.Builder
	n := 0
	for _, part := range strings.SplitAfter(text, seps[0]) {
		pn := utf8.RuneCountInString(part)
		if n > 0 && n+pn > maxRunes {
			result = append(result, split(current.String(), seps[1:], maxRunes)...)
			current.Reset()
			n = 0
		}
		current.WriteString(part)
		n += pn
	}
	if current.Len() > 0 {
		result = append(result, split(current.String(), seps[1:], maxRunes)...)
	}
	return result
}

// TrailingSpace returns the whitespace suffix of s.
func TrailingSpace(s string) string {
	return s[len(strings.TrimRightFunc(s, unicode.IsSpace)):]
}
