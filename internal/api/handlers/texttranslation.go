package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nikhilbhutani/lingua/internal/texttranslation"
	"github.com/nikhilbhutani/lingua/internal/workspace"
	"github.com/nikhilbhutani/lingua/pkg/textextract"
)

type TextTranslationHandler struct {
	spaces *workspace.Registry
}

func NewTextTranslationHandler(spaces *workspace.Registry) *TextTranslationHandler {
	return &TextTranslationHandler{spaces: spaces}
}

func (h *TextTranslationHandler) view(r *http.Request) *texttranslation.View {
	return workspaceFor(h.spaces, r).TextTranslation
}

func (h *TextTranslationHandler) State(w http.ResponseWriter, r *http.Request) {
	writeView(w, http.StatusOK, h.view(r).State(), "")
}

// Update sets the input text and/or language pair.
func (h *TextTranslationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text   *string `json:"text"`
		Source string  `json:"source"`
		Target string  `json:"target"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	v := h.view(r)
	if err := v.SetLanguages(req.Source, req.Target); err != nil {
		writeView(w, http.StatusUnprocessableEntity, v.State(), err.Error())
		return
	}
	if req.Text != nil {
		v.SetText(*req.Text)
	}
	writeView(w, http.StatusOK, v.State(), "")
}

func (h *TextTranslationHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

// Translate always answers 200: failures are shown in the result area.
func (h *TextTranslationHandler) Translate(w http.ResponseWriter, r *http.Request) {
	writeView(w, http.StatusOK, h.view(r).Translate(r.Context()), "")
}

func (h *TextTranslationHandler) Download(w http.ResponseWriter, r *http.Request) {
	f := h.view(r).Download()
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.Name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(f.Data)
}
