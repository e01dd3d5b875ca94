package authd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nikhilbhutani/lingua/internal/accounts"
	"github.com/nikhilbhutani/lingua/internal/auth"
)

func newServer(t *testing.T) (*httptest.Server, *auth.Issuer) {
	t.Helper()
	store, err := accounts.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	svc := accounts.NewService(store)
	if _, err := svc.Register(context.Background(), "dev@example.com", "letmein"); err != nil {
		t.Fatal(err)
	}
	issuer := auth.NewIssuer("test-secret", time.Hour)
	srv := httptest.NewServer(NewHandler(svc, issuer).Routes())
	t.Cleanup(srv.Close)
	return srv, issuer
}

// The API's authentication client is the consumer of this endpoint, so the
// contract is checked through it.
func TestLogin_WithClient(t *testing.T) {
	srv, issuer := newServer(t)
	client := auth.NewClient(srv.URL, 5*time.Second)
	ctx := context.Background()

	resp, err := client.Login(ctx, "dev@example.com", "letmein")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, err := issuer.Parse(resp.Token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.Email != "dev@example.com" {
		t.Errorf("claims.Email = %q", claims.Email)
	}

	for _, pw := range []string{"wrong", "letmein2"} {
		if _, err := client.Login(ctx, "dev@example.com", pw); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("Login(%q) error = %v, want ErrInvalidCredentials", pw, err)
		}
	}
	if _, err := client.Login(ctx, "ghost@example.com", "letmein"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("Login(unknown) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_Malformed(t *testing.T) {
	srv, _ := newServer(t)

	tests := []string{`{`, `{"email":""}`}
	for _, body := range tests {
		resp, err := http.Post(srv.URL+LoginPath, "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("POST %s = %d, want 400", body, resp.StatusCode)
		}
	}

	var re *auth.RemoteError
	_, err := auth.NewClient(srv.URL, time.Second).Login(context.Background(), "", "")
	if !errors.As(err, &re) || re.Status != http.StatusBadRequest || re.Message != "Email and password are required." {
		t.Errorf("Login(empty) error = %v", err)
	}
}
