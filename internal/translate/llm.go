package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikhilbhutani/lingua/internal/llm"
)

// LLM translates with a chat model behind the LLM gateway.
type LLM struct {
	gw llm.Gateway
}

func NewLLM(gw llm.Gateway) *LLM {
	return &LLM{gw: gw}
}

func (l *LLM) Translate(ctx context.Context, text, from, to string) (string, error) {
	source := "the detected source language"
	if from != "" {
		source = fmt.Sprintf("language code %q", from)
	}
	system := fmt.Sprintf(
		"You translate text from %s into language code %q. Reply with the translation only, without quotes or commentary.",
		source, to)

	return translateChunks(ctx, text, func(ctx context.Context, chunk string) (string, error) {
		resp, err := l.gw.Complete(ctx, llm.CompletionRequest{
			Messages: []llm.Message{
				{Role: "system", Content: system},
				{Role: "user", Content: chunk},
			},
		})
		if err != nil {
			return "", fmt.Errorf("llm translate: %w", err)
		}
		return strings.TrimSpace(resp.Content), nil
	})
}

func (l *LLM) Detect(ctx context.Context, text string) (string, error) {
	resp, err := l.gw.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "Identify the language of the user's text. Reply with its ISO 639-1 code only, for example en or te."},
			{Role: "user", Content: text},
		},
		MaxTokens: 8,
	})
	if err != nil {
		return "", fmt.Errorf("llm detect: %w", err)
	}

	code := strings.ToLower(strings.Trim(strings.TrimSpace(resp.Content), ".\"'`"))
	if code == "" || len(code) > 12 || strings.ContainsAny(code, " \n") {
		return "", fmt.Errorf("llm detect: unexpected reply %q", resp.Content)
	}
	return code, nil
}
