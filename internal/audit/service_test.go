package audit

import (
	"context"
	"testing"
)

func TestService_NilDBIsNoop(t *testing.T) {
	if err := NewService(nil).Log(context.Background(), Entry{Action: ActionLogin}); err != nil {
		t.Errorf("Log() = %v, want nil", err)
	}
	var s *Service
	if err := s.Log(context.Background(), Entry{}); err != nil {
		t.Errorf("nil Service Log() = %v, want nil", err)
	}
}

func TestParseIP(t *testing.T) {
	tests := map[string]string{
		"10.0.0.1":      "10.0.0.1",
		"10.0.0.1:5555": "10.0.0.1",
		"[::1]:8080":    "::1",
		"2001:db8::1":   "2001:db8::1",
	}
	for in, want := range tests {
		got := parseIP(in)
		if got == nil || got.String() != want {
			t.Errorf("parseIP(%q) = %v, want %s", in, got, want)
		}
	}
	for _, in := range []string{"", "not-an-ip"} {
		if got := parseIP(in); got != nil {
			t.Errorf("parseIP(%q) = %v, want nil", in, got)
		}
	}
}
