package handlers

import (
	"errors"
	"net/http"

	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/textspeech"
	"github.com/nikhilbhutani/lingua/internal/workspace"
	"github.com/nikhilbhutani/lingua/pkg/textextract"
)

type TextSpeechHandler struct {
	spaces *workspace.Registry
}

func NewTextSpeechHandler(spaces *workspace.Registry) *TextSpeechHandler {
	return &TextSpeechHandler{spaces: spaces}
}

func (h *TextSpeechHandler) view(r *http.Request) *textspeech.View {
	return workspaceFor(h.spaces, r).TextSpeech
}

func (h *TextSpeechHandler) State(w http.ResponseWriter, r *http.Request) {
	writeView(w, http.StatusOK, h.view(r).State(), "")
}

// Update sets the text and/or language. Omitted fields are left alone.
func (h *TextSpeechHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text         *string `json:"text"`
		Language     *string `json:"language"`
		DismissAlert bool    `json:"dismissAlert"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	v := h.view(r)
	if req.Language != nil {
		if err := v.SetLanguage(*req.Language); err != nil {
			writeView(w, http.StatusUnprocessableEntity, v.State(), err.Error())
			return
		}
	}
	if req.Text != nil {
		v.SetText(*req.Text)
	}
	if req.DismissAlert {
		v.DismissAlert()
	}
	writeView(w, http.StatusOK, v.State(), "")
}

func (h *TextSpeechHandler) Upload(w http.ResponseWriter, r *http.Request) {
	kind, data, err := readUpload(w, r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	v := h.view(r)
	if err := v.LoadFile(kind, data); err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, textextract.ErrUnsupportedType) {
			status = http.StatusUnsupportedMediaType
		}
		writeView(w, status, v.State(), err.Error())
		return
	}
	writeView(w, http.StatusOK, v.State(), "")
}

func (h *TextSpeechHandler) Speak(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	err := v.Speak(r.Context())
	st := v.State()
	switch {
	case err == nil:
		writeView(w, http.StatusOK, st, "")
	case errors.Is(err, textspeech.ErrEmptyText), errors.Is(err, textspeech.ErrMismatch):
		writeView(w, http.StatusUnprocessableEntity, st, st.Alert)
	case errors.Is(err, textspeech.ErrSynthesis):
		writeView(w, http.StatusBadGateway, st, st.Alert)
	default:
		// Superseded by a newer Speak or a Stop.
		writeView(w, http.StatusConflict, st, err.Error())
	}
}

func (h *TextSpeechHandler) Stop(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	if err := v.Stop(r.Context()); err != nil {
		observe.Error(r.Context(), "failed to release audio", err)
	}
	writeView(w, http.StatusOK, v.State(), "")
}
