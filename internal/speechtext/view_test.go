package speechtext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nikhilbhutani/lingua/internal/multimodal/stt"
)

// echoRecognizer "recognises" audio by reading it as text.
type echoRecognizer struct {
	release chan struct{}
}

func (e *echoRecognizer) Name() string { return "echo" }

func (e *echoRecognizer) Recognize(ctx context.Context, req stt.Request) (*stt.Result, error) {
	if e.release != nil {
		<-e.release
	}
	return &stt.Result{Text: string(req.Audio), Language: req.Language}, nil
}

func waitFor(t *testing.T, v *View, cond func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		st := v.State()
		if cond(st) {
			return st
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met, state = %+v", st)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStart_WithoutLanguageOpensPrompt(t *testing.T) {
	v := NewView(&echoRecognizer{})
	defer v.Close()

	if err := v.Start(context.Background()); !errors.Is(err, ErrLanguageRequired) {
		t.Fatalf("Start() error = %v, want ErrLanguageRequired", err)
	}
	st := v.State()
	if !st.PromptOpen || st.Prompt != MsgSelectLanguage {
		t.Errorf("prompt = %v %q", st.PromptOpen, st.Prompt)
	}
	if st.Listening {
		t.Error("listening without a language")
	}

	v.ClosePrompt()
	if v.State().PromptOpen {
		t.Error("prompt still open after ClosePrompt")
	}
}

func TestStart_ListensAndDisablesStart(t *testing.T) {
	v := NewView(&echoRecognizer{})
	defer v.Close()

	if err := v.SetLanguage("en-US"); err != nil {
		t.Fatal(err)
	}
	if err := v.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	st := v.State()
	if !st.Listening || !st.StartDisabled {
		t.Errorf("Listening = %v, StartDisabled = %v", st.Listening, st.StartDisabled)
	}
	if err := v.Start(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start() error = %v, want ErrBusy", err)
	}

	_ = v.Feed(context.Background(), []byte("hello"))
	_ = v.Feed(context.Background(), []byte("world"))
	waitFor(t, v, func(s State) bool { return s.Transcript == "hello world" })

	v.Stop()
	if v.State().Listening {
		t.Error("still listening after Stop")
	}
	if got := v.State().Transcript; got != "hello world" {
		t.Errorf("Stop cleared transcript: %q", got)
	}

	v.Reset()
	if got := v.State().Transcript; got != "" {
		t.Errorf("Transcript after Reset = %q", got)
	}
}

func TestStop_SuppressesLateResults(t *testing.T) {
	rec := &echoRecognizer{release: make(chan struct{})}
	v := NewView(rec)

	_ = v.SetLanguage("en-US")
	if err := v.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	_ = v.Feed(context.Background(), []byte("too late"))
	v.Stop()
	close(rec.release)
	v.Close()

	if got := v.State().Transcript; got != "" {
		t.Errorf("Transcript = %q, want empty", got)
	}
}

func TestUnsupported(t *testing.T) {
	v := NewView(nil)
	st := v.State()
	if st.Supported || st.Notice != MsgUnsupported {
		t.Errorf("State() = %+v", st)
	}
	_ = v.SetLanguage("en-US")
	if err := v.Start(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Start() error = %v, want ErrUnsupported", err)
	}
}

func TestSetLanguage_Unknown(t *testing.T) {
	v := NewView(nil)
	if err := v.SetLanguage("xx-XX"); !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("SetLanguage() error = %v", err)
	}
}

func TestVoiceCommands(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		check     func(State) bool
	}{
		{"open", "Open example dot com", func(s State) bool { return s.OpenURL == "http://exampledotcom" }},
		{"background", "change background color to red", func(s State) bool { return s.Background == "red" && s.Transcript == "seed" }},
		{"hex background", "change background colour to #ff0000", func(s State) bool { return s.Background == "#ff0000" }},
		{"reset background", "reset background colour", func(s State) bool { return s.Background == DefaultBackground && s.Transcript == "seed" }},
		{"reset", "reset everything", func(s State) bool { return s.Transcript == "" }},
		{"clear", "clear screen.", func(s State) bool { return s.Transcript == "" }},
		{"change language", "change language to Hindi", func(s State) bool { return s.Language == "hi-IN" }},
		{"unknown language", "change language to klingon", func(s State) bool { return s.Language == "" }},
		{"dictation", "good morning", func(s State) bool { return s.Transcript == "seed good morning" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(&echoRecognizer{})
			_ = v.SetLanguage("en-US")
			v.HandleUtterance("seed")
			v.HandleUtterance("change background colour to blue")

			v.HandleUtterance(tt.utterance)
			if st := v.State(); !tt.check(st) {
				t.Errorf("after %q state = %+v", tt.utterance, st)
			}
		})
	}
}

func TestVoiceReset_StopsListening(t *testing.T) {
	v := NewView(&echoRecognizer{})
	defer v.Close()
	_ = v.SetLanguage("en-US")
	if err := v.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	_ = v.Feed(context.Background(), []byte("note"))
	waitFor(t, v, func(s State) bool { return s.Transcript == "note" })

	_ = v.Feed(context.Background(), []byte("reset"))
	waitFor(t, v, func(s State) bool { return !s.Listening && s.Transcript == "" })
}
