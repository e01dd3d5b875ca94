// Package menu is the landing page: four links and a logout.
package menu

import (
	"context"
	"fmt"

	"github.com/nikhilbhutani/lingua/internal/audit"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/session"
)

const (
	MsgLoggedOut = "Logged out successfully!"
	LoginPath    = "/"
)

type Item struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var items = []Item{
	{"Speech to Text", "/speechtext"},
	{"Translating Text", "/texttranslation"},
	{"Text to Speech", "/textspeech"},
	{"Translating Speech", "/speechtranslation"},
}

func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

type State struct {
	Email string `json:"email,omitempty"`
	Items []Item `json:"items"`
}

type LogoutResult struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

type View struct {
	audit audit.Recorder
}

// NewView builds the landing view. rec may be nil.
func NewView(rec audit.Recorder) *View {
	return &View{audit: rec}
}

func (v *View) State(ctx context.Context, store *session.Store) State {
	email, err := store.Email(ctx)
	if err != nil {
		observe.Error(ctx, "failed to read session email", err)
	}
	return State{Email: email, Items: Items()}
}

func (v *View) Logout(ctx context.Context, store *session.Store) (LogoutResult, error) {
	email, _ := store.Email(ctx)
	if err := store.Clear(ctx); err != nil {
		return LogoutResult{}, fmt.Errorf("logout: %w", err)
	}
	if v.audit != nil {
		if err := v.audit.Log(ctx, audit.Entry{Action: audit.ActionLogout, Email: email, ClientID: store.ClientID()}); err != nil {
			observe.Error(ctx, "failed to write audit log", err, "action", audit.ActionLogout)
		}
	}
	return LogoutResult{Message: MsgLoggedOut, Redirect: LoginPath}, nil
}
