// Package translate adapts text translation and language detection
// backends.
package translate

import (
	"context"
	"strings"

	"github.com/nikhilbhutani/lingua/pkg/chunker"
)

// Translator translates text between language codes and detects the
// language of a text. An empty from code asks the backend to detect the
// source language itself.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
	Detect(ctx context.Context, text string) (string, error)
}

// maxChunk keeps single requests well inside vendor size limits.
const maxChunk = 5000

// translateChunks runs fn over each chunk of text and joins the results,
// keeping the whitespace that separated the source chunks.
func translateChunks(ctx context.Context, text string, fn func(ctx context.Context, chunk string) (string, error)) (string, error) {
	parts := chunker.Split(text, maxChunk)
	if len(parts) == 1 {
		return fn(ctx, parts[0])
	}

	var sb strings.Builder
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			sb.WriteString(p)
			continue
		}
		out, err := fn(ctx, p)
		if err != nil {
			return "", err
		}
		sb.WriteString(strings.TrimSpace(out))
		sb.WriteString(chunker.TrailingSpace(p))
	}
	return sb.String(), nil
}
