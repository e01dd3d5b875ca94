package middleware

import (
	"net/http"

	"github.com/nikhilbhutani/lingua/internal/cache"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/session"
)

// LoginPath is where unauthenticated clients are sent.
const LoginPath = "/"

// RequireSession lets a request through only when the client's token slot
// holds a value. Any non-empty token counts; it is never verified here.
// Must run after session.Identify.
func RequireSession(kv cache.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			store := session.New(kv, session.ClientID(ctx))
			s, ok, err := store.Current(ctx)
			if err != nil {
				observe.Error(ctx, "failed to read session", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error":"session store unavailable"}`))
				return
			}
			if !ok {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(ctx, s)))
		})
	}
}
