// Package texttranslation is the text-to-text view.
package texttranslation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nikhilbhutani/lingua/internal/lang"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/task"
	"github.com/nikhilbhutani/lingua/internal/translate"
	"github.com/nikhilbhutani/lingua/pkg/textextract"
)

const (
	MsgEmptyInput = "Please enter text to translate."
	MsgNotFound   = "Translation not found."
	MsgFailed     = "Error occurred during translation."

	DefaultSource = "en"
	DefaultTarget = "id"

	DownloadName        = "translated_text.txt"
	DownloadContentType = "text/plain; charset=utf-8"
)

var ErrUnknownLanguage = errors.New("texttranslation: unknown language")

type State struct {
	Languages   []lang.Language `json:"languages"`
	Source      string          `json:"source"`
	Target      string          `json:"target"`
	Input       string          `json:"input"`
	Translated  string          `json:"translated"`
	Translating bool            `json:"translating"`
}

// File is a downloadable rendition of the result.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type View struct {
	tr    translate.Translator
	scope *task.Scope

	source, target string
	input          string
	translated     string
	translating    bool
}

func NewView(tr translate.Translator) *View {
	return &View{
		tr:     tr,
		scope:  task.NewScope(),
		source: DefaultSource,
		target: DefaultTarget,
	}
}

func (v *View) State() State {
	var st State
	v.scope.View(func() {
		st = State{
			Languages:   lang.TextLanguages(),
			Source:      v.source,
			Target:      v.target,
			Input:       v.input,
			Translated:  v.translated,
			Translating: v.translating,
		}
	})
	return st
}

func (v *View) SetText(text string) {
	v.scope.Do(func(tx *task.Tx) { v.input = text })
}

// SetLanguages changes the language pair. Empty values keep the current
// selection.
func (v *View) SetLanguages(source, target string) error {
	langs := lang.TextLanguages()
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

func (v *View) LoadFile(name string, data []byte) error {
	text, err := textextract.Extract(name, data)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	v.SetText(text)
	return nil
}

// Translate runs one translation of the current input and stores the
// outcome, or the message describing why there is none, as the result.
// A newer call supersedes one still in flight.
func (v *View) Translate(ctx context.Context) State {
	var (
		run                   *task.Run
		input, source, target string
	)
	v.scope.Do(func(tx *task.Tx) {
		if strings.TrimSpace(v.input) == "" {
			tx.Cancel()
			v.translating = false
			v.translated = MsgEmptyInput
			return
		}
		input, source, target = v.input, v.source, v.target
		v.translating = true
		run = tx.Begin(ctx)
	})
	if run == nil {
		return v.State()
	}

	result, err := v.translate(run.Context(), input, source, target)
	switch {
	case err != nil:
		observe.Error(ctx, "text translation failed", err, "from", source, "to", target)
		result = MsgFailed
	case result == "":
		result = MsgNotFound
	}
	run.Commit(func(tx *task.Tx) {
		v.translated = result
		v.translating = false
	})
	return v.State()
}

func (v *View) translate(ctx context.Context, text, source, target string) (string, error) {
	if v.tr == nil {
		return "", errors.New("no translator configured")
	}
	return v.tr.Translate(ctx, text, source, target)
}

// Download returns whatever the result area currently shows.
func (v *View) Download() File {
	var text string
	v.scope.View(func() { text = v.translated })
	return File{Name: DownloadName, ContentType: DownloadContentType, Data: []byte(text)}
}
