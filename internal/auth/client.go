// Package auth talks to the authentication backend and, for the
// development backend, issues the tokens it hands out.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// InvalidCredentials is the literal body the backend sends with a 200 when
// the credentials do not match.
const InvalidCredentials = "Invalid Credentials"

var ErrInvalidCredentials = errors.New("invalid credentials")

// RemoteError is a non-2xx answer from the backend.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth backend returned %d", e.Status)
	}
	return fmt.Sprintf("auth backend returned %d: %s", e.Status, e.Message)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Login posts the credentials to /api/Register/login. A 200 carrying the
// sentinel body or no token yields ErrInvalidCredentials; any other non-200
// answer yields a *RemoteError.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body, err := json.Marshal(Credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/Register/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &msg)
		return nil, &RemoteError{Status: resp.StatusCode, Message: msg.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidCredentials
	}

	trimmed := bytes.TrimSpace(respBody)
	if string(trimmed) == InvalidCredentials {
		return nil, ErrInvalidCredentials
	}
	var sentinel string
	if json.Unmarshal(trimmed, &sentinel) == nil {
		// A bare JSON string is either the sentinel or nothing we can use.
		return nil, ErrInvalidCredentials
	}

	var out LoginResponse
	if err := json.Unmarshal(trimmed, &out); err != nil || out.Token == "" {
		return nil, ErrInvalidCredentials
	}
	return &out, nil
}
