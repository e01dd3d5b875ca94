package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/lingua/internal/cache"
	"github.com/nikhilbhutani/lingua/internal/menu"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/session"
)

type MenuHandler struct {
	view *menu.View
	kv   cache.Store
}

func NewMenuHandler(view *menu.View, kv cache.Store) *MenuHandler {
	return &MenuHandler{view: view, kv: kv}
}

func (h *MenuHandler) State(w http.ResponseWriter, r *http.Request) {
	store := session.New(h.kv, session.ClientID(r.Context()))
	writeJSON(w, http.StatusOK, h.view.State(r.Context(), store))
}

func (h *MenuHandler) Logout(w http.ResponseWriter, r *http.Request) {
	store := session.New(h.kv, session.ClientID(r.Context()))
	res, err := h.view.Logout(r.Context(), store)
	if err != nil {
		observe.Error(r.Context(), "logout failed", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "logout failed"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}
