package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CookieName identifies the client workspace across requests.
const CookieName = "lingua_client"

const cookieMaxAge = 365 * 24 * 60 * 60

type contextKey string

const (
	clientKey  contextKey = "client"
	sessionKey contextKey = "session"
)

func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientKey, id)
}

func ClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientKey).(string)
	return id
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}

// Identify makes sure every request carries a client id, issuing a new
// lingua_client cookie when the request has none or an unparseable one.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(CookieName); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   cookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), id)))
	})
}
