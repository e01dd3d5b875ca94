// Command authd is a development stand-in for the authentication backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nikhilbhutani/lingua/internal/accounts"
	"github.com/nikhilbhutani/lingua/internal/auth"
	"github.com/nikhilbhutani/lingua/internal/authd"
	"github.com/nikhilbhutani/lingua/internal/config"
	"github.com/nikhilbhutani/lingua/internal/database"
)

func main() {
	createUser := flag.String("create-user", "", "create an account given as email:password, then exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if err := cfg.ValidateAuthd(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open account store", "error", err)
		os.Exit(1)
	}
	defer closeStore()
	svc := accounts.NewService(store)

	if *createUser != "" {
		email, password, ok := strings.Cut(*createUser, ":")
		if !ok {
			slog.Error("-create-user wants email:password")
			os.Exit(2)
		}
		a, err := svc.Register(ctx, email, password)
		if err != nil {
			slog.Error("failed to create account", "email", email, "error", err)
			os.Exit(1)
		}
		slog.Info("account created", "id", a.ID, "email", a.Email)
		return
	}

	issuer := auth.NewIssuer(cfg.Authd.JWTSecret, cfg.Authd.JWTExpiry)
	srv := &http.Server{
		Addr:         cfg.Authd.Addr,
		Handler:      authd.NewHandler(svc, issuer).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting auth backend", "addr", cfg.Authd.Addr, "driver", cfg.Authd.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (accounts.Store, func(), error) {
	switch cfg.Authd.DBDriver {
	case "postgres":
		dbCfg := cfg.Database
		dbCfg.URL = cfg.Authd.DSN
		pool, err := database.Open(ctx, dbCfg)
		if err != nil {
			return nil, nil, err
		}
		return accounts.NewPostgresStore(pool), pool.Close, nil
	case "sqlite":
		s, err := accounts.OpenSQLite(cfg.Authd.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported driver %q", cfg.Authd.DBDriver)
	}
}
