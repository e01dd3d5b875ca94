package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/nikhilbhutani/lingua/internal/speechtext"
	"github.com/nikhilbhutani/lingua/internal/workspace"
)

type SpeechTextHandler struct {
	spaces *workspace.Registry
}

func NewSpeechTextHandler(spaces *workspace.Registry) *SpeechTextHandler {
	return &SpeechTextHandler{spaces: spaces}
}

func (h *SpeechTextHandler) view(r *http.Request) *speechtext.View {
	return workspaceFor(h.spaces, r).SpeechText
}

func (h *SpeechTextHandler) State(w http.ResponseWriter, r *http.Request) {
	writeView(w, http.StatusOK, h.view(r).State(), "")
}

func (h *SpeechTextHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	v := h.view(r)
	if err := v.SetLanguage(req.Language); err != nil {
		writeView(w, http.StatusUnprocessableEntity, v.State(), err.Error())
		return
	}
	writeView(w, http.StatusOK, v.State(), "")
}

func (h *SpeechTextHandler) Start(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	err := v.Start(r.Context())
	writeView(w, speechTextStatus(err), v.State(), speechTextMessage(err))
}

func (h *SpeechTextHandler) Stop(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	v.Stop()
	writeView(w, http.StatusOK, v.State(), "")
}

func (h *SpeechTextHandler) Reset(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	v.Reset()
	writeView(w, http.StatusOK, v.State(), "")
}

func (h *SpeechTextHandler) ClosePrompt(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	v.ClosePrompt()
	writeView(w, http.StatusOK, v.State(), "")
}

func (h *SpeechTextHandler) Live(w http.ResponseWriter, r *http.Request) {
	lease := leaseWorkspace(h.spaces, r)
	defer lease.Release()
	v := lease.Workspace().SpeechText
	serveLive(w, r, liveControls{
		view:  v,
		state: func() any { return v.State() },
		start: v.Start,
		stop:  v.Stop,
		reset: func(context.Context) { v.Reset() },
		seen:  lease.Touch,
	})
}

func speechTextStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, speechtext.ErrLanguageRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, speechtext.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, speechtext.ErrUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusBadGateway
	}
}

func speechTextMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, speechtext.ErrLanguageRequired):
		return speechtext.MsgSelectLanguage
	case errors.Is(err, speechtext.ErrUnsupported):
		return speechtext.MsgUnsupported
	default:
		return err.Error()
	}
}
