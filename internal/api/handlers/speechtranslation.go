package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/speechtranslation"
	"github.com/nikhilbhutani/lingua/internal/workspace"
)

type SpeechTranslationHandler struct {
	spaces *workspace.Registry
}

func NewSpeechTranslationHandler(spaces *workspace.Registry) *SpeechTranslationHandler {
	return &SpeechTranslationHandler{spaces: spaces}
}

func (h *SpeechTranslationHandler) view(r *http.Request) *speechtranslation.View {
	return workspaceFor(h.spaces, r).SpeechTranslation
}

func (h *SpeechTranslationHandler) State(w http.ResponseWriter, r *http.Request) {
	writeView(w, http.StatusOK, h.view(r).State(), "")
}

func (h *SpeechTranslationHandler) SetLanguages(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source string `json:"source"`
		Target string `json:"target"`
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
	writeView(w, http.StatusOK, v.State(), "")
}

func (h *SpeechTranslationHandler) Start(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	err := v.Start(r.Context())
	switch {
	case err == nil:
		writeView(w, http.StatusOK, v.State(), "")
	case errors.Is(err, speechtranslation.ErrBusy):
		writeView(w, http.StatusConflict, v.State(), err.Error())
	default:
		writeView(w, http.StatusBadGateway, v.State(), speechtranslation.MsgInitFailed)
	}
}

func (h *SpeechTranslationHandler) Stop(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	v.Stop()
	writeView(w, http.StatusOK, v.State(), "")
}

func (h *SpeechTranslationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	if err := v.Reset(r.Context()); err != nil {
		observe.Error(r.Context(), "speech translation reset failed", err)
	}
	writeView(w, http.StatusOK, v.State(), "")
}

func (h *SpeechTranslationHandler) Live(w http.ResponseWriter, r *http.Request) {
	lease := leaseWorkspace(h.spaces, r)
	defer lease.Release()
	v := lease.Workspace().SpeechTranslation
	serveLive(w, r, liveControls{
		view:  v,
		state: func() any { return v.State() },
		start: v.Start,
		stop:  v.Stop,
		reset: func(ctx context.Context) {
			if err := v.Reset(ctx); err != nil {
				observe.Error(ctx, "speech translation reset failed", err)
			}
		},
		seen: lease.Touch,
	})
}
