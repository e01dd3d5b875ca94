package menu

import (
	"context"
	"testing"

	"github.com/nikhilbhutani/lingua/internal/cache"
	"github.com/nikhilbhutani/lingua/internal/session"
)

func TestItems(t *testing.T) {
	want := map[string]string{
		"Speech to Text":     "/speechtext",
		"Translating Text":   "/texttranslation",
		"Text to Speech":     "/textspeech",
		"Translating Speech": "/speechtranslation",
	}
	got := Items()
	if len(got) != len(want) {
		t.Fatalf("Items() has %d entries, want %d", len(got), len(want))
	}
	for _, it := range got {
		if want[it.Label] != it.Path {
			t.Errorf("item %q -> %q, want %q", it.Label, it.Path, want[it.Label])
		}
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := session.New(cache.NewMemoryStore(), "c")
	_ = store.SetToken(ctx, "tok", "a@b.co")

	v := NewView(nil)
	if st := v.State(ctx, store); st.Email != "a@b.co" {
		t.Errorf("State().Email = %q", st.Email)
	}

	res, err := v.Logout(ctx, store)
	if err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if res.Message != MsgLoggedOut || res.Redirect != "/" {
		t.Errorf("Logout() = %+v", res)
	}
	if ok, _ := store.Authenticated(ctx); ok {
		t.Error("still authenticated after Logout")
	}
}
