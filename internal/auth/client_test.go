package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantToken string
		wantErr   error
		wantMsg   string
	}{
		{"token", http.StatusOK, `{"token":"abc","email":"a@b.co"}`, "abc", nil, ""},
		{"json sentinel", http.StatusOK, `"Invalid Credentials"`, "", ErrInvalidCredentials, ""},
		{"raw sentinel", http.StatusOK, "Invalid Credentials", "", ErrInvalidCredentials, ""},
		{"no token", http.StatusOK, `{"ok":true}`, "", ErrInvalidCredentials, ""},
		{"created", http.StatusCreated, `{"token":"abc"}`, "", ErrInvalidCredentials, ""},
		{"remote message", http.StatusUnauthorized, `{"message":"Account locked."}`, "", nil, "Account locked."},
		{"remote no message", http.StatusInternalServerError, `oops`, "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/Register/login" {
					t.Errorf("request = %s %s", r.Method, r.URL.Path)
				}
				var c Credentials
				if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Email != "a@b.co" || c.Password != "pass" {
					t.Errorf("credentials = %+v, err %v", c, err)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := NewClient(srv.URL+"/", 0).Login(context.Background(), "a@b.co", "pass")

			if tt.wantToken != "" {
				if err != nil {
					t.Fatalf("Login() error = %v", err)
				}
				if resp.Token != tt.wantToken {
					t.Errorf("Token = %q, want %q", resp.Token, tt.wantToken)
				}
				return
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			var re *RemoteError
			if !errors.As(err, &re) {
				t.Fatalf("Login() error = %v, want *RemoteError", err)
			}
			if re.Status != tt.status || re.Message != tt.wantMsg {
				t.Errorf("RemoteError = %+v", re)
			}
		})
	}
}

func TestClient_LoginUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, 0).Login(context.Background(), "a@b.co", "pass")
	if err == nil {
		t.Fatal("Login() error = nil")
	}
	var re *RemoteError
	if errors.As(err, &re) || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want transport error", err)
	}
}
