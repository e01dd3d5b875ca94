package llm

import (
	"context"
	"time"
)

// Provider is a single chat-completion backend.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
	Name() string
	DefaultModel() string
}

// Gateway routes completions to the configured provider with retry and
// fallback.
type Gateway interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

type CompletionRequest struct {
	Provider    string
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

type Completion struct {
	Provider     string
	Model        string
	Content      string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Latency      time.Duration
}

func splitSystem(msgs []Message) (string, []Message) {
	var system string
	rest := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == "system" {
			system = m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
