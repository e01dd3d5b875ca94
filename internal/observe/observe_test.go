package observe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/nikhilbhutani/lingua/internal/config"
)

func TestInit_NoDSN(t *testing.T) {
	flush, err := Init(config.SentryConfig{}, "test")
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	flush()
}

func TestError_LogsWithoutSentry(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	Error(context.Background(), "synthesis failed", errors.New("boom"), "voice", "te-IN-ShrutiNeural")

	out := buf.String()
	for _, want := range []string{`"msg":"synthesis failed"`, `"error":"boom"`, `"voice":"te-IN-ShrutiNeural"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log %s missing %s", out, want)
		}
	}
}
