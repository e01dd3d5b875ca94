package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeProvider struct {
	name   string
	fails  int
	calls  int
	models []string
}

func (f *fakeProvider) Name() string         { return f.name }
func (f *fakeProvider) DefaultModel() string { return f.name + "-default" }

func (f *fakeProvider) Complete(_ context.Context, req CompletionRequest) (*Completion, error) {
	f.calls++
	f.models = append(f.models, req.Model)
	if f.calls <= f.fails {
		return nil, errors.New("unavailable")
	}
	return &Completion{Provider: f.name, Model: req.Model, Content: "ok"}, nil
}

func testGateway(primary, fallback string, retries int, ps ...*fakeProvider) *gateway {
	g := newGateway(primary, fallback, "", retries)
	g.backoff = func(int) time.Duration { return 0 }
	for _, p := range ps {
		g.providers[p.name] = p
	}
	return g
}

func TestGateway_RetriesThenSucceeds(t *testing.T) {
	p := &fakeProvider{name: "a", fails: 2}
	g := testGateway("a", "", 2, p)

	resp, err := g.Complete(context.Background(), CompletionRequest{})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if p.calls != 3 {
		t.Errorf("calls = %d, want 3", p.calls)
	}
	if resp.Model != "a-default" {
		t.Errorf("Model = %q, want provider default", resp.Model)
	}
}

func TestGateway_FallsBack(t *testing.T) {
	primary := &fakeProvider{name: "a", fails: 10}
	fallback := &fakeProvider{name: "b"}
	g := testGateway("a", "b", 1, primary, fallback)
	g.defaultModel = "a-large"

	resp, err := g.Complete(context.Background(), CompletionRequest{})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Provider != "b" {
		t.Errorf("Provider = %q, want b", resp.Provider)
	}
	if primary.models[0] != "a-large" {
		t.Errorf("primary model = %q, want configured model", primary.models[0])
	}
	if fallback.models[0] != "b-default" {
		t.Errorf("fallback model = %q, want b-default", fallback.models[0])
	}
}

func TestGateway_UnknownProvider(t *testing.T) {
	g := testGateway("missing", "", 0)
	if _, err := g.Complete(context.Background(), CompletionRequest{}); err == nil {
		t.Error("Complete() error = nil, want provider not configured")
	}
}

func TestOllamaProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		var req ollamaChatReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		if req.Stream {
			t.Error("stream = true, want false")
		}
		_ = json.NewEncoder(w).Encode(ollamaChatResp{
			Message:   ollamaMessage{Role: "assistant", Content: "hola"},
			EvalCount: 3,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL + "/")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Model:    "llama3",
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "hola" || resp.OutputTokens != 3 {
		t.Errorf("Complete() = %+v", resp)
	}
}

func TestCalculateCost(t *testing.T) {
	if got := CalculateCost("unknown", 1000, 1000); got != 0 {
		t.Errorf("CalculateCost(unknown) = %v, want 0", got)
	}
	if got := CalculateCost("gpt-4o", 1000, 1000); math.Abs(got-0.02) > 1e-12 {
		t.Errorf("CalculateCost(gpt-4o) = %v, want 0.02", got)
	}
}
