package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikhilbhutani/lingua/internal/config"
)

type gateway struct {
	providers        map[string]Provider
	defaultProvider  string
	fallbackProvider string
	defaultModel     string
	maxRetries       int
	backoff          func(attempt int) time.Duration
}

func NewGateway(cfg config.LLMConfig) Gateway {
	g := newGateway(cfg.Provider, cfg.FallbackProvider, cfg.Model, cfg.MaxRetries)

	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey)
	}
	if cfg.OllamaURL != "" {
		g.providers["ollama"] = NewOllamaProvider(cfg.OllamaURL)
	}

	return g
}

func newGateway(primary, fallback, model string, maxRetries int) *gateway {
	return &gateway{
		providers:        make(map[string]Provider),
		defaultProvider:  primary,
		fallbackProvider: fallback,
		defaultModel:     model,
		maxRetries:       maxRetries,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt*attempt) * 500 * time.Millisecond
		},
	}
}

func (g *gateway) provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *gateway) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	name := req.Provider
	if name == "" {
		name = g.defaultProvider
	}

	resp, err := g.completeWithRetry(ctx, name, req)
	if err != nil && g.fallbackProvider != "" && g.fallbackProvider != name {
		slog.Warn("primary provider failed, trying fallback",
			"primary", name,
			"fallback", g.fallbackProvider,
			"error", err,
		)
		// The configured model belongs to the primary provider.
		req.Model = ""
		return g.completeWithRetry(ctx, g.fallbackProvider, req)
	}
	return resp, err
}

func (g *gateway) completeWithRetry(ctx context.Context, name string, req CompletionRequest) (*Completion, error) {
	p, err := g.provider(name)
	if err != nil {
		return nil, err
	}
	if req.Model == "" && name == g.defaultProvider {
		req.Model = g.defaultModel
	}
	if req.Model == "" {
		req.Model = p.DefaultModel()
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.backoff(attempt)):
			}
			slog.Debug("retrying LLM call", "provider", name, "attempt", attempt)
		}

		resp, err := p.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all retries exhausted for %s: %w", name, lastErr)
}
