// Package textspeech is the text-to-speech view. Text is checked against
// the chosen voice's language before it is synthesised.
package textspeech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nikhilbhutani/lingua/internal/artifact"
	"github.com/nikhilbhutani/lingua/internal/lang"
	"github.com/nikhilbhutani/lingua/internal/multimodal/tts"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/task"
	"github.com/nikhilbhutani/lingua/pkg/textextract"
)

const (
	MsgEmptyText       = "Please enter some text to convert to speech."
	MsgMismatch        = "Language mismatch detected."
	MsgSynthesisFailed = "Failed to process or play speech."
	MsgUnsupportedFile = "Unsupported file type."

	DefaultLanguage = "en-US"
)

var (
	ErrEmptyText       = errors.New("textspeech: empty text")
	ErrMismatch        = errors.New("textspeech: language mismatch")
	ErrSynthesis       = errors.New("textspeech: synthesis failed")
	ErrUnknownLanguage = errors.New("textspeech: unknown language")
)

// Detector reports the language of a text as an ISO code.
type Detector interface {
	Detect(ctx context.Context, text string) (string, error)
}

type State struct {
	Voices    []lang.Voice       `json:"voices"`
	Text      string             `json:"text"`
	Language  string             `json:"language"`
	Speaking  bool               `json:"speaking"`
	Mismatch  bool               `json:"mismatch"`
	AlertOpen bool               `json:"alertOpen"`
	Alert     string             `json:"alert,omitempty"`
	Audio     *artifact.Artifact `json:"audio,omitempty"`
}

type View struct {
	synth    tts.Synthesizer
	detector Detector
	slot     *artifact.Slot
	scope    *task.Scope

	text     string
	language string
	speaking bool
	mismatch bool
	alert    string
	audio    *artifact.Artifact
}

// NewView builds the view. A nil detector skips the language check.
func NewView(synth tts.Synthesizer, detector Detector, slot *artifact.Slot) *View {
	return &View{
		synth:    synth,
		detector: detector,
		slot:     slot,
		scope:    task.NewScope(),
		language: DefaultLanguage,
	}
}

func (v *View) State() State {
	var st State
	v.scope.View(func() {
		st = State{
			Voices:    lang.Voices(),
			Text:      v.text,
			Language:  v.language,
			Speaking:  v.speaking,
			Mismatch:  v.mismatch,
			AlertOpen: v.alert != "",
			Alert:     v.alert,
		}
		if v.audio != nil {
			a := *v.audio
			st.Audio = &a
		}
	})
	return st
}

func (v *View) SetText(text string) {
	v.scope.Do(func(tx *task.Tx) {
		v.text = text
		v.mismatch = false
	})
}

func (v *View) SetLanguage(code string) error {
	if _, ok := lang.VoiceFor(code); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	v.scope.Do(func(tx *task.Tx) {
		v.language = code
		v.mismatch = false
	})
	return nil
}

// LoadFile replaces the text with the contents of an uploaded file.
func (v *View) LoadFile(name string, data []byte) error {
	text, err := textextract.Extract(name, data)
	if err != nil {
		if errors.Is(err, textextract.ErrUnsupportedType) {
			v.setAlert(MsgUnsupportedFile)
		}
		return fmt.Errorf("load %s: %w", name, err)
	}
	v.SetText(text)
	return nil
}

func (v *View) DismissAlert() {
	v.setAlert("")
}

func (v *View) setAlert(msg string) {
	v.scope.Do(func(tx *task.Tx) { v.alert = msg })
}

// Speak synthesises the current text with the selected voice. A newer
// Speak or a Stop supersedes one in flight.
func (v *View) Speak(ctx context.Context) error {
	var (
		run   *task.Run
		text  string
		voice lang.Voice
		err   error
	)
	v.scope.Do(func(tx *task.Tx) {
		v.mismatch = false
		if strings.TrimSpace(v.text) == "" {
			v.alert = MsgEmptyText
			err = ErrEmptyText
			return
		}
		voice, _ = lang.VoiceFor(v.language)
		text = v.text
		v.alert = ""
		v.speaking = true
		run = tx.Begin(ctx)
	})
	if err != nil {
		return err
	}
	ctx = run.Context()

	if v.mismatched(ctx, text, voice) {
		run.Commit(func(tx *task.Tx) {
			v.speaking, v.mismatch, v.alert = false, true, MsgMismatch
		})
		return ErrMismatch
	}

	if v.slot != nil {
		if err := v.slot.Release(ctx); err != nil {
			observe.Error(ctx, "failed to release previous audio", err)
		}
		run.Commit(func(tx *task.Tx) { v.audio = nil })
	}

	a, err := v.synthesize(ctx, text, voice)
	if err != nil {
		if ctx.Err() == nil {
			observe.Error(ctx, "speech synthesis failed", err, "voice", voice.Voice)
		}
		run.Commit(func(tx *task.Tx) { v.speaking, v.alert = false, MsgSynthesisFailed })
		return fmt.Errorf("%w: %w", ErrSynthesis, err)
	}

	if !run.Commit(func(tx *task.Tx) { v.speaking, v.audio = false, &a }) {
		if err := v.slot.ReleaseIf(context.WithoutCancel(ctx), a.ID); err != nil {
			observe.Error(ctx, "failed to release superseded audio", err, "artifact_id", a.ID)
		}
		return context.Canceled
	}
	return nil
}

// mismatched asks the detector for the text's language. A failed detection
// lets synthesis go ahead.
func (v *View) mismatched(ctx context.Context, text string, voice lang.Voice) bool {
	if v.detector == nil {
		return false
	}
	detected, err := v.detector.Detect(ctx, text)
	if err != nil {
		observe.Error(ctx, "language detection failed", err)
		return false
	}
	if detected == "" {
		return false
	}
	return !lang.SameBase(detected, voice.ISOCode)
}

func (v *View) synthesize(ctx context.Context, text string, voice lang.Voice) (artifact.Artifact, error) {
	if v.synth == nil {
		return artifact.Artifact{}, errors.New("no speech synthesizer configured")
	}
	res, err := v.synth.Synthesize(ctx, tts.SynthesisRequest{Input: text, Voice: voice.Voice})
	if err != nil {
		return artifact.Artifact{}, err
	}
	if len(res.Audio) == 0 {
		return artifact.Artifact{}, errors.New("synthesizer returned no audio")
	}
	if v.slot == nil {
		return artifact.Artifact{}, errors.New("no audio store configured")
	}
	return v.slot.Put(ctx, res.Audio, res.ContentType)
}

// Stop cancels any synthesis in flight and releases the current audio.
func (v *View) Stop(ctx context.Context) error {
	v.scope.Do(func(tx *task.Tx) {
		tx.Cancel()
		v.speaking = false
		v.audio = nil
	})
	if v.slot == nil {
		return nil
	}
	if err := v.slot.Release(ctx); err != nil {
		return fmt.Errorf("release audio: %w", err)
	}
	return nil
}

func (v *View) Close(ctx context.Context) error {
	return v.Stop(ctx)
}
