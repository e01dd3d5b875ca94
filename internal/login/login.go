// Package login validates credentials, exchanges them for a session token
// and stores that token in the client's session slot.
package login

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"github.com/nikhilbhutani/lingua/internal/audit"
	"github.com/nikhilbhutani/lingua/internal/auth"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/session"
)

const (
	MsgEmailRequired    = "Email is required."
	MsgEmailInvalid     = "Invalid email format."
	MsgPasswordRequired = "Password is required."
	MsgPasswordShort    = "Password must be at least 4 characters."
	MsgAuthFailed       = "Authentication failed."
	MsgInvalidLogin     = "Invalid email or password."
	MsgSessionFailed    = "Could not save your session. Please try again."

	// LandingPath is where a successful login sends the client.
	LandingPath = "/landingpage"

	minPasswordLength = 4
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type FieldErrors struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func (f FieldErrors) Empty() bool {
	return f.Email == "" && f.Password == ""
}

type Result struct {
	FieldErrors FieldErrors `json:"fieldErrors"`
	Error       string      `json:"error,omitempty"`
	Redirect    string      `json:"redirect,omitempty"`
}

// Validate checks credentials locally. Nothing is sent anywhere while it
// reports errors.
func Validate(email, password string) FieldErrors {
	var fe FieldErrors
	switch {
	case email == "":
		fe.Email = MsgEmailRequired
	case !emailPattern.MatchString(email):
		fe.Email = MsgEmailInvalid
	}
	switch {
	case password == "":
		fe.Password = MsgPasswordRequired
	case utf8.RuneCountInString(password) < minPasswordLength:
		fe.Password = MsgPasswordShort
	}
	return fe
}

type View struct {
	auth  auth.Authenticator
	audit audit.Recorder
}

// NewView builds the login view. rec may be nil.
func NewView(a auth.Authenticator, rec audit.Recorder) *View {
	return &View{auth: a, audit: rec}
}

// Submit validates the credentials and, when they pass, asks the
// authentication backend for a token. Only a successful login writes to
// the session store.
func (v *View) Submit(ctx context.Context, store *session.Store, email, password string) Result {
	if fe := Validate(email, password); !fe.Empty() {
		return Result{FieldErrors: fe}
	}

	resp, err := v.auth.Login(ctx, email, password)
	if err != nil {
		v.record(ctx, audit.ActionLoginFailed, email, store.ClientID(), err)
		return Result{Error: failureMessage(err)}
	}

	if err := store.SetToken(ctx, resp.Token, email); err != nil {
		observe.Error(ctx, "failed to store session", err, "client_id", store.ClientID())
		return Result{Error: MsgSessionFailed}
	}

	v.record(ctx, audit.ActionLogin, email, store.ClientID(), nil)
	return Result{Redirect: LandingPath}
}

func failureMessage(err error) string {
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return MsgAuthFailed
	}
	var re *auth.RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return MsgInvalidLogin
}

func (v *View) record(ctx context.Context, action, email, clientID string, cause error) {
	if v.audit == nil {
		return
	}
	entry := audit.Entry{Action: action, Email: email, ClientID: clientID}
	if cause != nil {
		entry.Details = map[string]any{"reason": cause.Error()}
	}
	if ip, ok := ctx.Value(ipKey{}).(string); ok {
		entry.IPAddress = ip
	}
	if err := v.audit.Log(ctx, entry); err != nil {
		observe.Error(ctx, "failed to write audit log", err, "action", action)
	}
}

type ipKey struct{}

// WithRemoteAddr attaches the caller's address for the audit trail.
func WithRemoteAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, ipKey{}, addr)
}
