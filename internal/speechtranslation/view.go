// Package speechtranslation is the speech-to-speech view. Each recognised
// utterance is translated, shown next to its source, and read back in the
// target language.
package speechtranslation

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikhilbhutani/lingua/internal/artifact"
	"github.com/nikhilbhutani/lingua/internal/lang"
	"github.com/nikhilbhutani/lingua/internal/multimodal/stt"
	"github.com/nikhilbhutani/lingua/internal/multimodal/tts"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/task"
	"github.com/nikhilbhutani/lingua/internal/translate"
)

const (
	MsgInitFailed      = "Error initializing speech translation."
	MsgRecognition     = "Error occurred during speech recognition."
	MsgTranslateFailed = "Error occurred during translation."
	MsgSynthesisFailed = "Error during speech synthesis."

	DefaultSource = "en-US"
	DefaultTarget = "te-IN"
)

var (
	ErrBusy            = errors.New("speechtranslation: already listening")
	ErrInit            = errors.New("speechtranslation: recognizer initialisation failed")
	ErrUnknownLanguage = errors.New("speechtranslation: unknown language")
)

type State struct {
	Languages      []lang.Language    `json:"languages"`
	Source         string             `json:"source"`
	Target         string             `json:"target"`
	Listening      bool               `json:"listening"`
	StartDisabled  bool               `json:"startDisabled"`
	Loading        bool               `json:"loading"`
	Recognized     string             `json:"recognized"`
	Translated     string             `json:"translated"`
	Error          string             `json:"error,omitempty"`
	SynthesisError string             `json:"synthesisError,omitempty"`
	Audio          *artifact.Artifact `json:"audio,omitempty"`
}

type Deps struct {
	Recognizer  stt.Recognizer
	Translator  translate.Translator
	Synthesizer tts.Synthesizer
	Slot        *artifact.Slot
}

type View struct {
	deps  Deps
	scope *task.Scope

	source, target string
	listening      bool
	loading        bool
	recognized     string
	translated     string
	errMsg         string
	synthErr       string
	audio          *artifact.Artifact
	stream         *stt.Stream
}

func NewView(deps Deps) *View {
	return &View{
		deps:   deps,
		scope:  task.NewScope(),
		source: DefaultSource,
		target: DefaultTarget,
	}
}

func (v *View) Subscribe() (<-chan struct{}, func()) {
	return v.scope.Subscribe()
}

func (v *View) State() State {
	var st State
	v.scope.View(func() {
		st = State{
			Languages:      lang.SpeechTranslationLanguages(),
			Source:         v.source,
			Target:         v.target,
			Listening:      v.listening,
			StartDisabled:  v.listening,
			Loading:        v.loading,
			Recognized:     v.recognized,
			Translated:     v.translated,
			Error:          v.errMsg,
			SynthesisError: v.synthErr,
		}
		if v.audio != nil {
			a := *v.audio
			st.Audio = &a
		}
	})
	return st
}

// SetLanguages changes the language pair. Empty values keep the current
// selection.
func (v *View) SetLanguages(source, target string) error {
	langs := lang.SpeechTranslationLanguages()
	for _, code := range []string{source, target} {
		if code != "" && !lang.Supported(langs, code) {
			return fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
		}
	}
	v.scope.Do(func(tx *task.Tx) {
		if source != "" {
			v.source = source
		}
		if target != "" {
			v.target = target
		}
	})
	return nil
}

// Start opens a recognition session for the current source language.
func (v *View) Start(ctx context.Context) error {
	var err error
	v.scope.Do(func(tx *task.Tx) {
		if v.listening {
			err = ErrBusy
			return
		}
		v.recognized, v.translated, v.errMsg, v.synthErr = "", "", "", ""

		run := tx.Begin(context.WithoutCancel(ctx))
		stream, serr := stt.NewStream(run.Context(), v.deps.Recognizer, v.source)
		if serr != nil {
			tx.Cancel()
			v.errMsg = MsgInitFailed
			err = fmt.Errorf("%w: %w", ErrInit, serr)
			return
		}
		v.stream = stream
		v.listening = true
		v.loading = true
		source, target := v.source, v.target
		run.Go(func(ctx context.Context) { v.consume(run, stream, source, target) })
	})
	if err != nil && errors.Is(err, ErrInit) {
		observe.Error(ctx, "failed to start speech translation", err)
	}
	return err
}

func (v *View) consume(run *task.Run, stream *stt.Stream, source, target string) {
	ctx := run.Context()
	for ev := range stream.Events() {
		if ev.Err != nil {
			observe.Error(ctx, "speech recognition failed", ev.Err, "language", source)
			if !run.Commit(func(tx *task.Tx) { v.errMsg, v.loading = MsgRecognition, false }) {
				return
			}
			continue
		}
		text := ev.Result.Text

		translated, err := v.translate(ctx, text, source, target)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			observe.Error(ctx, "speech translation failed", err, "from", source, "to", target)
			if !run.Commit(func(tx *task.Tx) {
				v.recognized, v.translated, v.errMsg, v.loading = text, "", MsgTranslateFailed, false
			}) {
				return
			}
			continue
		}

		if !run.Commit(func(tx *task.Tx) {
			v.recognized, v.translated, v.errMsg, v.loading = text, translated, "", false
		}) {
			return
		}
		if translated != "" && v.deps.Synthesizer != nil {
			run.Go(func(ctx context.Context) { v.speak(ctx, run, translated, target) })
		}
	}
}

func (v *View) translate(ctx context.Context, text, source, target string) (string, error) {
	if v.deps.Translator == nil {
		return "", errors.New("no translator configured")
	}
	return v.deps.Translator.Translate(ctx, text, lang.Base(source), lang.Base(target))
}

// speak synthesises one translation. Its failures never stop recognition.
func (v *View) speak(ctx context.Context, run *task.Run, text, target string) {
	voice := lang.SynthesisVoice(target)
	res, err := v.deps.Synthesizer.Synthesize(ctx, tts.SynthesisRequest{Input: text, Voice: voice})
	if err == nil && v.deps.Slot != nil {
		var a artifact.Artifact
		a, err = v.deps.Slot.Put(ctx, res.Audio, res.ContentType)
		if err == nil {
			if !run.Commit(func(tx *task.Tx) { v.audio, v.synthErr = &a, "" }) {
				if rerr := v.deps.Slot.ReleaseIf(context.WithoutCancel(ctx), a.ID); rerr != nil {
					observe.Error(ctx, "failed to release stale audio", rerr, "artifact_id", a.ID)
				}
			}
			return
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		observe.Error(ctx, "speech synthesis failed", err, "voice", voice)
		run.Commit(func(tx *task.Tx) { v.synthErr = MsgSynthesisFailed })
	}
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

func (v *View) Stop() {
	v.scope.Do(v.stopLocked)
}

// Reset stops listening, clears texts and errors and releases the audio.
func (v *View) Reset(ctx context.Context) error {
	v.scope.Do(func(tx *task.Tx) {
		v.stopLocked(tx)
		v.recognized, v.translated, v.errMsg, v.synthErr = "", "", "", ""
		v.audio = nil
	})
	if v.deps.Slot == nil {
		return nil
	}
	if err := v.deps.Slot.Release(ctx); err != nil {
		return fmt.Errorf("release audio: %w", err)
	}
	return nil
}

// Close resets the view and waits for its background work to finish.
func (v *View) Close(ctx context.Context) error {
	v.Stop()
	v.scope.Wait()
	return v.Reset(ctx)
}

func (v *View) stopLocked(tx *task.Tx) {
	tx.Cancel()
	if v.stream != nil {
		v.stream.Close()
		v.stream = nil
	}
	v.listening = false
	v.loading = false
}
