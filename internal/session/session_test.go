package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/lingua/internal/cache"
)

func TestStore_SetTokenAndClear(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryStore()
	s := New(kv, "client-a")

	if ok, _ := s.Authenticated(ctx); ok {
		t.Fatal("fresh store reports authenticated")
	}

	if err := s.SetToken(ctx, "tok", "a@b.co"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	cur, ok, err := s.Current(ctx)
	if err != nil || !ok {
		t.Fatalf("Current() = %v, %v", ok, err)
	}
	if cur.Token != "tok" || cur.Email != "a@b.co" {
		t.Errorf("Current() = %+v", cur)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if tok, _ := s.Token(ctx); tok != "" {
		t.Errorf("Token() after Clear = %q, want empty", tok)
	}
	if email, _ := s.Email(ctx); email != "a@b.co" {
		t.Errorf("Email() after Clear = %q, want it kept", email)
	}
}

func TestStore_ClientsAreIsolated(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryStore()

	a := New(kv, "a")
	b := New(kv, "b")
	_ = a.SetToken(ctx, "tok", "a@b.co")

	if ok, _ := b.Authenticated(ctx); ok {
		t.Error("client b sees client a's token")
	}
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("down")
}
func (failingKV) Set(context.Context, string, string, time.Duration) error { return errors.New("down") }
func (failingKV) Delete(context.Context, ...string) error                  { return errors.New("down") }

func TestStore_BackendErrors(t *testing.T) {
	ctx := context.Background()
	s := New(failingKV{}, "c")

	if err := s.SetToken(ctx, "t", "e"); err == nil {
		t.Error("SetToken() error = nil, want error")
	}
	if ok, err := s.Authenticated(ctx); ok || err == nil {
		t.Errorf("Authenticated() = %v, %v; want false, error", ok, err)
	}
}

func TestIdentify(t *testing.T) {
	var seen string
	h := Identify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientID(r.Context())
	}))

	t.Run("issues cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != CookieName {
			t.Fatalf("cookies = %v, want one %s", cookies, CookieName)
		}
		if cookies[0].Value != seen {
			t.Errorf("context id %q != cookie %q", seen, cookies[0].Value)
		}
	})

	t.Run("reuses cookie", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: id})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if seen != id {
			t.Errorf("ClientID = %q, want %q", seen, id)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Error("cookie reissued for a known client")
		}
	})

	t.Run("replaces garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if seen == "not-a-uuid" || seen == "" {
			t.Errorf("ClientID = %q, want fresh uuid", seen)
		}
	})
}

// emailFailingKV refuses writes to the email slot only.
type emailFailingKV struct {
	*cache.MemoryStore
}

func (kv emailFailingKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if strings.HasSuffix(key, ":"+EmailSlot) {
		return errors.New("down")
	}
	return kv.MemoryStore.Set(ctx, key, value, ttl)
}

func TestStore_SetTokenFailureLeavesNoToken(t *testing.T) {
	ctx := context.Background()
	s := New(emailFailingKV{cache.NewMemoryStore()}, "c")

	if err := s.SetToken(ctx, "tok", "a@b.co"); err == nil {
		t.Fatal("SetToken() error = nil, want error")
	}
	if ok, err := s.Authenticated(ctx); ok || err != nil {
		t.Errorf("Authenticated() = %v, %v; want false, nil", ok, err)
	}
}
