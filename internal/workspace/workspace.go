// Package workspace keeps one set of feature views per client and tears
// idle sets down.
package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nikhilbhutani/lingua/internal/artifact"
	"github.com/nikhilbhutani/lingua/internal/multimodal/stt"
	"github.com/nikhilbhutani/lingua/internal/multimodal/tts"
	"github.com/nikhilbhutani/lingua/internal/speechtext"
	"github.com/nikhilbhutani/lingua/internal/speechtranslation"
	"github.com/nikhilbhutani/lingua/internal/textspeech"
	"github.com/nikhilbhutani/lingua/internal/texttranslation"
	"github.com/nikhilbhutani/lingua/internal/translate"
)

// Deps are the adapters shared by every workspace.
type Deps struct {
	Recognizer  stt.Recognizer
	Synthesizer tts.Synthesizer
	Translator  translate.Translator
	Artifacts   *artifact.Registry
}

type Workspace struct {
	ClientID          string
	SpeechText        *speechtext.View
	SpeechTranslation *speechtranslation.View
	TextSpeech        *textspeech.View
	TextTranslation   *texttranslation.View

	mu       sync.Mutex
	lastSeen time.Time
	leases   int
}

func newWorkspace(clientID string, deps Deps, now time.Time) *Workspace {
	var detector textspeech.Detector
	if deps.Translator != nil {
		detector = deps.Translator
	}
	var s2sSlot, ttsSlot *artifact.Slot
	if deps.Artifacts != nil {
		s2sSlot = deps.Artifacts.NewSlot(clientID)
		ttsSlot = deps.Artifacts.NewSlot(clientID)
	}
	return &Workspace{
		ClientID:   clientID,
		SpeechText: speechtext.NewView(deps.Recognizer),
		SpeechTranslation: speechtranslation.NewView(speechtranslation.Deps{
			Recognizer:  deps.Recognizer,
			Translator:  deps.Translator,
			Synthesizer: deps.Synthesizer,
			Slot:        s2sSlot,
		}),
		TextSpeech:      textspeech.NewView(deps.Synthesizer, detector, ttsSlot),
		TextTranslation: texttranslation.NewView(deps.Translator),
		lastSeen:        now,
	}
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

// idle reports whether nothing holds the workspace and it was last used
// before cutoff.
func (w *Workspace) idle(cutoff time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.leases == 0 && w.lastSeen.Before(cutoff)
}

// Close stops listening in every view and releases their audio.
func (w *Workspace) Close(ctx context.Context) error {
	w.SpeechText.Close()
	return errors.Join(
		w.SpeechTranslation.Close(ctx),
		w.TextSpeech.Close(ctx),
	)
}

type Registry struct {
	deps Deps
	idle time.Duration
	now  func() time.Time

	mu     sync.Mutex
	spaces map[string]*Workspace
}

func NewRegistry(deps Deps, idle time.Duration) *Registry {
	return &Registry{
		deps:   deps,
		idle:   idle,
		now:    time.Now,
		spaces: make(map[string]*Workspace),
	}
}

// Get returns the client's workspace, creating it on first use.
func (r *Registry) Get(clientID string) *Workspace {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.spaces[clientID]
	if !ok {
		ws = newWorkspace(clientID, r.deps, now)
		r.spaces[clientID] = ws
		return ws
	}
	ws.touch(now)
	return ws
}

// Lease keeps a workspace out of the idle sweep while a long-lived
// connection uses it.
type Lease struct {
	reg  *Registry
	ws   *Workspace
	once sync.Once
}

// Acquire returns the client's workspace held by a lease. Release it when
// the connection ends.
func (r *Registry) Acquire(clientID string) *Lease {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.spaces[clientID]
	if !ok {
		ws = newWorkspace(clientID, r.deps, now)
		r.spaces[clientID] = ws
	}
	ws.mu.Lock()
	ws.leases++
	ws.lastSeen = now
	ws.mu.Unlock()
	return &Lease{reg: r, ws: ws}
}

func (l *Lease) Workspace() *Workspace { return l.ws }

// Touch marks the workspace as used now.
func (l *Lease) Touch() {
	l.ws.touch(l.reg.now())
}

// Release drops the lease. The idle timeout counts from here.
func (l *Lease) Release() {
	l.once.Do(func() {
		now := l.reg.now()
		l.ws.mu.Lock()
		l.ws.leases--
		l.ws.lastSeen = now
		l.ws.mu.Unlock()
	})
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}

// Sweep closes workspaces idle for longer than the idle timeout and
// reports how many it closed. Leased workspaces are never idle.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var stale []*Workspace
	for id, ws := range r.spaces {
		if ws.idle(cutoff) {
			stale = append(stale, ws)
			delete(r.spaces, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range stale {
		if err := ws.Close(ctx); err != nil {
			slog.Warn("failed to close idle workspace", "client_id", ws.ClientID, "error", err)
		}
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(ctx); n > 0 {
				slog.Info("closed idle workspaces", "count", n)
			}
		}
	}
}

// Close tears every workspace down.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	spaces := r.spaces
	r.spaces = make(map[string]*Workspace)
	r.mu.Unlock()

	var errs []error
	for _, ws := range spaces {
		errs = append(errs, ws.Close(ctx))
	}
	return errors.Join(errs...)
}
