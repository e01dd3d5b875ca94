package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/lingua/internal/api/handlers"
	"github.com/nikhilbhutani/lingua/internal/api/middleware"
	"github.com/nikhilbhutani/lingua/internal/artifact"
	"github.com/nikhilbhutani/lingua/internal/audit"
	"github.com/nikhilbhutani/lingua/internal/auth"
	"github.com/nikhilbhutani/lingua/internal/cache"
	"github.com/nikhilbhutani/lingua/internal/config"
	"github.com/nikhilbhutani/lingua/internal/login"
	"github.com/nikhilbhutani/lingua/internal/menu"
	"github.com/nikhilbhutani/lingua/internal/session"
	"github.com/nikhilbhutani/lingua/internal/workspace"
)

// Deps are the services the router serves. Audit and Health entries may
// be nil.
type Deps struct {
	Sessions   cache.Store
	Auth       auth.Authenticator
	Audit      audit.Recorder
	Workspaces *workspace.Registry
	Artifacts  *artifact.Registry
	Health     map[string]handlers.Pinger
}

type Router struct {
	mux  *chi.Mux
	cfg  *config.Config
	deps Deps
}

func NewRouter(cfg *config.Config, deps Deps) *Router {
	return &Router{
		mux:  chi.NewRouter(),
		cfg:  cfg,
		deps: deps,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.SentryRecover)
	r.Use(middleware.CORS(rt.cfg.Server.CORSOrigins))
	r.Use(middleware.RateLimit(rt.cfg.Server.RateLimitRPM))

	// Health endpoints (no session)
	health := handlers.NewHealthHandler(rt.deps.Health)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	r.Group(func(r chi.Router) {
		r.Use(session.Identify)

		loginH := handlers.NewLoginHandler(login.NewView(rt.deps.Auth, rt.deps.Audit), rt.deps.Sessions)
		r.Get("/", loginH.State)
		r.Post("/", loginH.Submit)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(rt.deps.Sessions))

			menuH := handlers.NewMenuHandler(menu.NewView(rt.deps.Audit), rt.deps.Sessions)
			r.Route("/landingpage", func(r chi.Router) {
				r.Get("/", menuH.State)
				r.Post("/logout", menuH.Logout)
			})

			sttH := handlers.NewSpeechTextHandler(rt.deps.Workspaces)
			r.Route("/speechtext", func(r chi.Router) {
				r.Get("/", sttH.State)
				r.Put("/language", sttH.SetLanguage)
				r.Post("/start", sttH.Start)
				r.Post("/stop", sttH.Stop)
				r.Post("/reset", sttH.Reset)
				r.Post("/prompt/close", sttH.ClosePrompt)
				r.Get("/ws", sttH.Live)
			})

			s2sH := handlers.NewSpeechTranslationHandler(rt.deps.Workspaces)
			r.Route("/speechtranslation", func(r chi.Router) {
				r.Get("/", s2sH.State)
				r.Put("/languages", s2sH.SetLanguages)
				r.Post("/start", s2sH.Start)
				r.Post("/stop", s2sH.Stop)
				r.Post("/reset", s2sH.Reset)
				r.Get("/ws", s2sH.Live)
			})

			ttsH := handlers.NewTextSpeechHandler(rt.deps.Workspaces)
			r.Route("/textspeech", func(r chi.Router) {
				r.Get("/", ttsH.State)
				r.Put("/", ttsH.Update)
				r.Post("/upload", ttsH.Upload)
				r.Post("/speak", ttsH.Speak)
				r.Post("/stop", ttsH.Stop)
			})

			ttH := handlers.NewTextTranslationHandler(rt.deps.Workspaces)
			r.Route("/texttranslation", func(r chi.Router) {
				r.Get("/", ttH.State)
				r.Put("/", ttH.Update)
				r.Post("/upload", ttH.Upload)
				r.Post("/translate", ttH.Translate)
				r.Get("/download", ttH.Download)
			})

			audioH := handlers.NewAudioHandler(rt.deps.Artifacts)
			r.Get("/audio/{id}", audioH.Get)
		})
	})

	return r
}
