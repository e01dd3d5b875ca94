// Package command matches recognised utterances against an ordered voice
// command grammar. Commands are tried in registration order and the first
// match wins.
package command

import (
	"regexp"
	"strings"
	"unicode"
)

type Match struct {
	Name string
	// Arg is the text captured by a trailing wildcard, if any. It is taken
	// from the utterance as spoken, less trailing sentence punctuation.
	Arg string
}

// matcher sees the normalised utterance and the raw one it came from.
type matcher func(norm, raw string) (string, bool)

type entry struct {
	name  string
	match matcher
}

type Set struct {
	entries []entry
}

func NewSet() *Set {
	return &Set{}
}

// Pattern registers a phrase. A trailing " *" captures the rest of the
// utterance, which must be non-empty; otherwise the whole utterance must
// equal the phrase.
func (s *Set) Pattern(name, pattern string) *Set {
	if head, ok := strings.CutSuffix(strings.TrimSpace(pattern), " *"); ok {
		prefix := Normalize(head) + " "
		words := len(strings.Fields(prefix))
		s.entries = append(s.entries, entry{name: name, match: func(u, raw string) (string, bool) {
			rest, found := strings.CutPrefix(u, prefix)
			if !found || rest == "" {
				return "", false
			}
			return rawTail(raw, words), true
		}})
		return s
	}
	p := Normalize(pattern)
	s.entries = append(s.entries, entry{name: name, match: func(u, _ string) (string, bool) {
		return "", u == p
	}})
	return s
}

// rawTail returns raw after its first n words, counting only words that
// survive normalisation, with trailing sentence punctuation removed.
func rawTail(raw string, n int) string {
	fields := strings.Fields(raw)
	i := 0
	for ; i < len(fields) && n > 0; i++ {
		if Normalize(fields[i]) != "" {
			n--
		}
	}
	for i < len(fields) && Normalize(fields[i]) == "" {
		i++
	}
	return strings.TrimRight(strings.Join(fields[i:], " "), ".!?,;:")
}

// Regexp registers a command matched by re against the normalised utterance.
// The first submatch, when present, becomes the argument.
func (s *Set) Regexp(name string, re *regexp.Regexp) *Set {
	s.entries = append(s.entries, entry{name: name, match: func(u, _ string) (string, bool) {
		m := re.FindStringSubmatch(u)
		if m == nil {
			return "", false
		}
		if len(m) > 1 {
			return m[1], true
		}
		return "", true
	}})
	return s
}

func (s *Set) Match(utterance string) (Match, bool) {
	u := Normalize(utterance)
	if u == "" {
		return Match{}, false
	}
	for _, e := range s.entries {
		if arg, ok := e.match(u, utterance); ok {
			return Match{Name: e.name, Arg: arg}, true
		}
	}
	return Match{}, false
}

func (s *Set) Len() int { return len(s.entries) }

// Normalize lower-cases an utterance, trims punctuation from the edges of
// each word, collapses whitespace and spells "color" as "colour".
func Normalize(s string) string {
	words := strings.Fields(strings.ToLower(s))
	out := words[:0]
	for _, w := range words {
		w = strings.TrimFunc(w, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		switch w {
		case "":
			continue
		case "color":
			w = "colour"
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}
