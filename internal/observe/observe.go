// Package observe reports adapter failures: every failure is logged, and
// also sent to Sentry when a DSN is configured.
package observe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/nikhilbhutani/lingua/internal/config"
)

// Init configures Sentry. With an empty DSN it does nothing and the
// returned flush is a no-op.
func Init(cfg config.SentryConfig, release string) (flush func(), err error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return func() {}, fmt.Errorf("sentry init: %w", err)
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// Error logs err and captures it with the given key/value pairs as extras.
func Error(ctx context.Context, msg string, err error, args ...any) {
	slog.ErrorContext(ctx, msg, append([]any{"error", err}, args...)...)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetExtra("message", msg)
		for i := 0; i+1 < len(args); i += 2 {
			if k, ok := args[i].(string); ok {
				scope.SetExtra(k, args[i+1])
			}
		}
		hub.CaptureException(err)
	})
}
