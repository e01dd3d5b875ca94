package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/lingua/internal/cache"
	"github.com/nikhilbhutani/lingua/internal/login"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/session"
)

type LoginHandler struct {
	view *login.View
	kv   cache.Store
}

func NewLoginHandler(view *login.View, kv cache.Store) *LoginHandler {
	return &LoginHandler{view: view, kv: kv}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// State reports whether the client is already signed in.
func (h *LoginHandler) State(w http.ResponseWriter, r *http.Request) {
	store := session.New(h.kv, session.ClientID(r.Context()))
	s, ok, err := store.Current(r.Context())
	if err != nil {
		observe.Error(r.Context(), "failed to read session", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": ok, "email": s.Email})
}

func (h *LoginHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	ctx := login.WithRemoteAddr(r.Context(), r.RemoteAddr)
	store := session.New(h.kv, session.ClientID(ctx))
	res := h.view.Submit(ctx, store, req.Email, req.Password)

	switch {
	case !res.FieldErrors.Empty():
		writeJSON(w, http.StatusUnprocessableEntity, res)
	case res.Error != "":
		writeJSON(w, http.StatusUnauthorized, res)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}
