// Package speechtext is the speech-to-text view: continuous recognition in
// a chosen language with a small voice command grammar on top.
package speechtext

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nikhilbhutani/lingua/internal/command"
	"github.com/nikhilbhutani/lingua/internal/lang"
	"github.com/nikhilbhutani/lingua/internal/multimodal/stt"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/task"
)

const (
	MsgSelectLanguage = "Please select a language before starting the recording."
	MsgUnsupported    = "Speech recognition is not supported."
	MsgRecognition    = "Speech recognition failed."

	DefaultBackground = "rgba(0, 0, 0, 0.8)"
)

var (
	ErrLanguageRequired = errors.New("speechtext: language required")
	ErrBusy             = errors.New("speechtext: already listening")
	ErrUnsupported      = errors.New("speechtext: speech recognition unsupported")
	ErrUnknownLanguage  = errors.New("speechtext: unknown language")
)

const (
	cmdOpen             = "open"
	cmdChangeBackground = "change-background"
	cmdResetBackground  = "reset-background"
	cmdReset            = "reset"
	cmdClearScreen      = "clear-screen"
	cmdChangeLanguage   = "change-language"
)

// Commands is the voice grammar, in priority order. "reset background
// colour" sits ahead of the generic reset so it can match at all.
func Commands() *command.Set {
	return command.NewSet().
		Pattern(cmdOpen, "open *").
		Pattern(cmdChangeBackground, "change background colour to *").
		Pattern(cmdResetBackground, "reset background colour").
		Regexp(cmdReset, regexp.MustCompile(`^reset`)).
		Pattern(cmdClearScreen, "clear screen").
		Pattern(cmdChangeLanguage, "change language to *")
}

type State struct {
	Supported     bool            `json:"supported"`
	Notice        string          `json:"notice,omitempty"`
	Languages     []lang.Language `json:"languages"`
	Language      string          `json:"language"`
	Listening     bool            `json:"listening"`
	StartDisabled bool            `json:"startDisabled"`
	Transcript    string          `json:"transcript"`
	Background    string          `json:"background"`
	PromptOpen    bool            `json:"promptOpen"`
	Prompt        string          `json:"prompt,omitempty"`
	// OpenURL is the last page a voice command asked the client to open.
	OpenURL string `json:"openUrl,omitempty"`
	Error   string `json:"error,omitempty"`
}

type View struct {
	rec      stt.Recognizer
	commands *command.Set
	scope    *task.Scope

	language   string
	listening  bool
	transcript []string
	background string
	prompt     bool
	openURL    string
	lastErr    string
	stream     *stt.Stream
}

// NewView builds the view. A nil recognizer marks the feature unsupported.
func NewView(rec stt.Recognizer) *View {
	return &View{
		rec:        rec,
		commands:   Commands(),
		scope:      task.NewScope(),
		background: DefaultBackground,
	}
}

func (v *View) Subscribe() (<-chan struct{}, func()) {
	return v.scope.Subscribe()
}

func (v *View) State() State {
	var st State
	v.scope.View(func() {
		st = State{
			Supported:     v.rec != nil,
			Languages:     lang.RecognitionLanguages(),
			Language:      v.language,
			Listening:     v.listening,
			StartDisabled: v.listening,
			Transcript:    strings.Join(v.transcript, " "),
			Background:    v.background,
			PromptOpen:    v.prompt,
			OpenURL:       v.openURL,
			Error:         v.lastErr,
		}
		if v.prompt {
			st.Prompt = MsgSelectLanguage
		}
		if v.rec == nil {
			st.Notice = MsgUnsupported
		}
	})
	return st
}

// SetLanguage selects the recognition language. The empty tag clears the
// selection. A change while listening applies from the next Start.
func (v *View) SetLanguage(tag string) error {
	if tag != "" && !lang.Supported(lang.RecognitionLanguages(), tag) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, tag)
	}
	v.scope.Do(func(tx *task.Tx) {
		v.language = tag
	})
	return nil
}

func (v *View) ClosePrompt() {
	v.scope.Do(func(tx *task.Tx) {
		v.prompt = false
	})
}

// Start begins continuous recognition. The recognition session outlives
// ctx; it ends with Stop, Reset or Close.
func (v *View) Start(ctx context.Context) error {
	var err error
	v.scope.Do(func(tx *task.Tx) {
		switch {
		case v.rec == nil:
			err = ErrUnsupported
			return
		case v.listening:
			err = ErrBusy
			return
		case v.language == "":
			v.prompt = true
			err = ErrLanguageRequired
			return
		}

		run := tx.Begin(context.WithoutCancel(ctx))
		stream, serr := stt.NewStream(run.Context(), v.rec, v.language)
		if serr != nil {
			tx.Cancel()
			err = fmt.Errorf("start recognition: %w", serr)
			return
		}
		v.stream = stream
		v.listening = true
		v.lastErr = ""
		run.Go(func(ctx context.Context) { v.consume(run, stream) })
	})
	return err
}

func (v *View) consume(run *task.Run, stream *stt.Stream) {
	for ev := range stream.Events() {
		if ev.Err != nil {
			observe.Error(run.Context(), "speech recognition failed", ev.Err, "language", stream.Language())
			if !run.Commit(func(tx *task.Tx) { v.lastErr = MsgRecognition }) {
				return
			}
			continue
		}
		text := ev.Result.Text
		if !run.Commit(func(tx *task.Tx) { v.handleLocked(tx, text) }) {
			return
		}
	}
	// The stream ended on its own; nothing is listening any more.
	run.Commit(func(tx *task.Tx) { v.stopLocked(tx) })
}

// Feed delivers one utterance of audio to the active recognition session.
func (v *View) Feed(ctx context.Context, audio []byte) error {
	var stream *stt.Stream
	v.scope.View(func() { stream = v.stream })
	if stream == nil {
		return stt.ErrClosed
	}
	return stream.Feed(ctx, audio)
}

// HandleUtterance applies a recognised utterance as if the recognizer had
// produced it: a matching command runs, anything else joins the
// transcript.
func (v *View) HandleUtterance(text string) {
	v.scope.Do(func(tx *task.Tx) { v.handleLocked(tx, text) })
}

func (v *View) handleLocked(tx *task.Tx, text string) {
	m, ok := v.commands.Match(text)
	if !ok {
		if t := strings.TrimSpace(text); t != "" {
			v.transcript = append(v.transcript, t)
		}
		return
	}
	switch m.Name {
	case cmdOpen:
		v.openURL = "http://" + strings.Join(strings.Fields(m.Arg), "")
	case cmdChangeBackground:
		v.background = m.Arg
	case cmdResetBackground:
		v.background = DefaultBackground
	case cmdReset:
		v.stopLocked(tx)
		v.transcript = nil
	case cmdClearScreen:
		v.transcript = nil
	case cmdChangeLanguage:
		tag, _ := lang.SpokenName(m.Arg)
		v.language = tag
	}
}

func (v *View) Stop() {
	v.scope.Do(v.stopLocked)
}

// Reset stops listening and clears the transcript.
func (v *View) Reset() {
	v.scope.Do(func(tx *task.Tx) {
		v.stopLocked(tx)
		v.transcript = nil
	})
}

// Close tears the view down and waits for its background work to finish.
func (v *View) Close() {
	v.Stop()
	v.scope.Wait()
}

func (v *View) stopLocked(tx *task.Tx) {
	tx.Cancel()
	if v.stream != nil {
		v.stream.Close()
		v.stream = nil
	}
	v.listening = false
}
