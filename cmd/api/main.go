package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/lingua/internal/api"
	"github.com/nikhilbhutani/lingua/internal/api/handlers"
	"github.com/nikhilbhutani/lingua/internal/artifact"
	"github.com/nikhilbhutani/lingua/internal/audit"
	"github.com/nikhilbhutani/lingua/internal/auth"
	"github.com/nikhilbhutani/lingua/internal/cache"
	"github.com/nikhilbhutani/lingua/internal/config"
	"github.com/nikhilbhutani/lingua/internal/database"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/queue"
	"github.com/nikhilbhutani/lingua/internal/storage"
	"github.com/nikhilbhutani/lingua/internal/workspace"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	flush, err := observe.Init(cfg.Sentry, version)
	if err != nil {
		slog.Warn("sentry disabled", "error", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	health := map[string]handlers.Pinger{}

	// Database (optional: only the audit trail uses it)
	var recorder audit.Recorder
	if cfg.Database.URL != "" {
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			slog.Warn("database unavailable, running without audit log", "error", err)
		} else {
			defer db.Close()
			recorder = audit.NewService(db)
			health["database"] = db
		}
	}

	// Session slots
	var sessions cache.Store
	var rdb *redis.Client
	redisUp := false
	if cfg.Session.Backend == "redis" || cfg.Storage.Backend != "memory" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable", "error", err)
		} else {
			redisUp = true
		}
	}
	if cfg.Session.Backend == "redis" && redisUp {
		rs := cache.NewRedisStore(rdb)
		sessions = rs
		health["redis"] = rs
	} else {
		slog.Warn("using in-memory session store")
		sessions = cache.NewMemoryStore()
	}

	// Audio artifacts
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		slog.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	var expirer artifact.Expirer
	if cfg.Storage.Backend != "memory" && redisUp {
		qc := queue.NewClient(cfg.Redis, cfg.Storage.ArtifactTTL)
		defer qc.Close()
		expirer = qc
	}
	artifacts := artifact.NewRegistry(store, cfg.Storage.Bucket, expirer)

	spaces := workspace.NewRegistry(workspace.Deps{
		Recognizer:  newRecognizer(cfg.Speech),
		Synthesizer: newSynthesizer(cfg.TTS),
		Translator:  newTranslator(cfg),
		Artifacts:   artifacts,
	}, cfg.Workspace.IdleTimeout)
	go spaces.Run(ctx, cfg.Workspace.SweepInterval)

	router := api.NewRouter(cfg, api.Deps{
		Sessions:   sessions,
		Auth:       auth.NewClient(cfg.Auth.BaseURL, cfg.Auth.Timeout),
		Audit:      recorder,
		Workspaces: spaces,
		Artifacts:  artifacts,
		Health:     health,
	})
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(), "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	if err := spaces.Close(shutdownCtx); err != nil {
		slog.Warn("failed to close workspaces", "error", err)
	}
	slog.Info("server stopped")
}
