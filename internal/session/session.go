// Package session keeps the login token of one client workspace in its
// local-storage scope. Presence of a token is the whole authentication
// model: the token is never decoded, refreshed or revalidated.
package session

import (
	"context"
	"fmt"

	"github.com/nikhilbhutani/lingua/internal/cache"
)

// Slot names as stored in the client's local-storage scope.
const (
	TokenSlot = "oauth2"
	EmailSlot = "userEmail"
)

type Session struct {
	Token string `json:"-"`
	Email string `json:"email"`
}

// Store is bound to exactly one client scope.
type Store struct {
	kv     cache.Store
	client string
}

func New(kv cache.Store, clientID string) *Store {
	return &Store{kv: kv, client: clientID}
}

func (s *Store) ClientID() string { return s.client }

func (s *Store) key(slot string) string {
	return "lingua:" + s.client + ":" + slot
}

// SetToken persists the token and the email that obtained it. The email
// goes first: the token slot alone decides authentication, so it is only
// written once everything else is in place.
func (s *Store) SetToken(ctx context.Context, token, email string) error {
	if err := s.kv.Set(ctx, s.key(EmailSlot), email, 0); err != nil {
		return fmt.Errorf("store email: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(TokenSlot), token, 0); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Token returns the stored token, or "" when none is present.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, _, err := s.kv.Get(ctx, s.key(TokenSlot))
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return v, nil
}

func (s *Store) Email(ctx context.Context) (string, error) {
	v, _, err := s.kv.Get(ctx, s.key(EmailSlot))
	if err != nil {
		return "", fmt.Errorf("read email: %w", err)
	}
	return v, nil
}

// Current returns the session and whether a token is present.
func (s *Store) Current(ctx context.Context) (Session, bool, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return Session{}, false, err
	}
	if token == "" {
		return Session{}, false, nil
	}
	email, err := s.Email(ctx)
	if err != nil {
		return Session{}, false, err
	}
	return Session{Token: token, Email: email}, true, nil
}

func (s *Store) Authenticated(ctx context.Context) (bool, error) {
	token, err := s.Token(ctx)
	return token != "", err
}

// Clear removes the token slot. The email slot is left in place, the same
// as a logout in the browser leaves userEmail in local storage.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key(TokenSlot)); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
