package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_Lossless(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
	}{
		{"short", "hello world", 100},
		{"paragraphs", "first paragraph here.\n\nsecond paragraph here.\n\nthird one.", 30},
		{"sentences", "One. Two three. Four five six. Seven.", 12},
		{"no separators", strings.Repeat("x", 25), 10},
		{"multibyte", strings.Repeat("నమస్కారం ", 20), 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := Split(tt.text, tt.max)
			if got := strings.Join(parts, ""); got != tt.text {
				t.Fatalf("joined = %q, want %q", got, tt.text)
			}
			for i, p := range parts {
				if n := utf8.RuneCountInString(p); n > tt.max {
					t.Errorf("part %d has %d runes, max %d", i, n, tt.max)
				}
				if p == "" {
					t.Errorf("part %d is empty", i)
				}
			}
		})
	}
}

func TestSplit_PrefersSentenceBoundaries(t *testing.T) {
	parts := Split("Alpha beta. Gamma delta.", 14)
	if len(parts) != 2 || parts[0] != "Alpha beta. " || parts[1] != "Gamma delta." {
		t.Errorf("Split() = %q", parts)
	}
}

func TestSplit_Edges(t *testing.T) {
	if parts := Split("", 10); parts != nil {
		t.Errorf("Split(empty) = %q, want nil", parts)
	}
	if parts := Split("abc", 0); len(parts) != 1 {
		t.Errorf("Split(max 0) = %q, want input unchanged", parts)
	}
}

func TestTrailingSpace(t *testing.T) {
	if got := TrailingSpace("a b. \n"); got != " \n" {
		t.Errorf("TrailingSpace() = %q", got)
	}
	if got := TrailingSpace("abc"); got != "" {
		t.Errorf("TrailingSpace() = %q, want empty", got)
	}
}
