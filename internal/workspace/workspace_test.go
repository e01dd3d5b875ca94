package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/nikhilbhutani/lingua/internal/artifact"
	"github.com/nikhilbhutani/lingua/internal/multimodal/stt"
	"github.com/nikhilbhutani/lingua/internal/multimodal/tts"
	"github.com/nikhilbhutani/lingua/internal/storage"
)

type fakeSynth struct{}

func (fakeSynth) Name() string { return "fake" }

func (fakeSynth) Synthesize(_ context.Context, req tts.SynthesisRequest) (*tts.SynthesisResult, error) {
	return &tts.SynthesisResult{Audio: []byte(req.Input), ContentType: "audio/wav"}, nil
}

type echoRecognizer struct{}

func (echoRecognizer) Name() string { return "echo" }

func (echoRecognizer) Recognize(_ context.Context, req stt.Request) (*stt.Result, error) {
	return &stt.Result{Text: string(req.Audio)}, nil
}

func TestRegistry_GetReusesWorkspace(t *testing.T) {
	r := NewRegistry(Deps{}, time.Minute)
	a := r.Get("one")
	if r.Get("one") != a {
		t.Error("Get() built a second workspace for the same client")
	}
	if r.Get("two") == a {
		t.Error("clients share a workspace")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistry_SweepReleasesArtifacts(t *testing.T) {
	ctx := context.Background()
	arts := artifact.NewRegistry(storage.NewMemoryStorage(), "audio", nil)
	r := NewRegistry(Deps{Synthesizer: fakeSynth{}, Artifacts: arts}, time.Minute)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	ws := r.Get("idle")
	ws.TextSpeech.SetText("hello")
	if err := ws.TextSpeech.Speak(ctx); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	if arts.Live("idle") != 1 {
		t.Fatalf("live artifacts = %d, want 1", arts.Live("idle"))
	}

	now = now.Add(30 * time.Second)
	r.Get("active")
	if n := r.Sweep(ctx); n != 0 {
		t.Errorf("Sweep() closed %d workspaces too early", n)
	}

	now = now.Add(45 * time.Second)
	if n := r.Sweep(ctx); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if arts.Live("idle") != 0 {
		t.Errorf("live artifacts after sweep = %d", arts.Live("idle"))
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry(Deps{}, time.Minute)
	r.Get("a")
	r.Get("b")
	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after Close", r.Len())
	}
}

func TestRegistry_LeaseOutlivesIdleTimeout(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(Deps{Recognizer: echoRecognizer{}}, 30*time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	lease := r.Acquire("client")
	ws := lease.Workspace()
	defer ws.SpeechText.Close()
	if err := ws.SpeechText.SetLanguage("en-US"); err != nil {
		t.Fatal(err)
	}
	if err := ws.SpeechText.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for i := 0; i < 31; i++ {
		now = now.Add(time.Minute)
		if err := ws.SpeechText.Feed(ctx, []byte("word")); err != nil {
			t.Fatalf("Feed() error = %v", err)
		}
		lease.Touch()
		if n := r.Sweep(ctx); n != 0 {
			t.Fatalf("Sweep() closed %d workspaces during a live session", n)
		}
	}
	// Held without frames for longer than the timeout: still in use.
	now = now.Add(2 * time.Hour)
	if n := r.Sweep(ctx); n != 0 {
		t.Fatalf("Sweep() closed a leased workspace")
	}
	if !ws.SpeechText.State().Listening {
		t.Error("listening stopped while the lease was held")
	}
	if r.Get("client") != ws {
		t.Error("Get() returned a different workspace while the lease was held")
	}

	lease.Release()
	lease.Release()
	now = now.Add(29 * time.Minute)
	if n := r.Sweep(ctx); n != 0 {
		t.Errorf("Sweep() = %d right after release, want 0", n)
	}
	now = now.Add(2 * time.Minute)
	if n := r.Sweep(ctx); n != 1 {
		t.Errorf("Sweep() = %d after release and timeout, want 1", n)
	}
	if ws.SpeechText.State().Listening {
		t.Error("swept workspace still listening")
	}
}
