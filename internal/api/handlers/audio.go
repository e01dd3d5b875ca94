package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilbhutani/lingua/internal/artifact"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/session"
)

type AudioHandler struct {
	artifacts *artifact.Registry
}

func NewAudioHandler(artifacts *artifact.Registry) *AudioHandler {
	return &AudioHandler{artifacts: artifacts}
}

// Get streams an audio artifact to the client that owns it.
func (h *AudioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rc, a, err := h.artifacts.Open(r.Context(), id, session.ClientID(r.Context()))
	if errors.Is(err, artifact.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "audio not found"})
		return
	}
	if err != nil {
		observe.Error(r.Context(), "failed to open audio", err, "artifact_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "audio unavailable"})
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(a.Size, 10))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Debug("audio stream interrupted", "artifact_id", id, "error", err)
	}
}
