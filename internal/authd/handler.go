// Package authd serves the login endpoint that the API's authentication
// client talks to. It exists for local development.
package authd

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/lingua/internal/accounts"
	"github.com/nikhilbhutani/lingua/internal/api/middleware"
	"github.com/nikhilbhutani/lingua/internal/auth"
)

// LoginPath is the route the authentication client posts to.
const LoginPath = "/api/Register/login"

type Handler struct {
	accounts *accounts.Service
	issuer   *auth.Issuer
}

func NewHandler(svc *accounts.Service, issuer *auth.Issuer) *Handler {
	return &Handler{accounts: svc, issuer: issuer}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(nil))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post(LoginPath, h.Login)
	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login answers 200 with a token, or 200 with the bare "Invalid
// Credentials" string, the contract the authentication client expects.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request body."})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password are required."})
		return
	}

	acct, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		writeJSON(w, http.StatusOK, auth.InvalidCredentials)
		return
	}
	if err != nil {
		slog.Error("account lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Login is unavailable."})
		return
	}

	token, err := h.issuer.Issue(acct.ID, acct.Email)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Login is unavailable."})
		return
	}
	writeJSON(w, http.StatusOK, auth.LoginResponse{Token: token, Email: acct.Email})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
