package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/nikhilbhutani/lingua/internal/config"
	"github.com/nikhilbhutani/lingua/internal/observe"
	"github.com/nikhilbhutani/lingua/internal/queue"
	"github.com/nikhilbhutani/lingua/internal/queue/workers"
	"github.com/nikhilbhutani/lingua/internal/storage"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	flush, err := observe.Init(cfg.Sentry, version)
	if err != nil {
		slog.Warn("sentry disabled", "error", err)
	}
	defer flush()

	if cfg.Storage.Backend == "memory" {
		slog.Error("the worker needs shared storage, STORAGE_BACKEND=memory lives inside the API process")
		os.Exit(1)
	}
	store, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		slog.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				observe.Error(ctx, "task failed", err, "type", task.Type())
			}),
		},
	)

	registry := queue.NewHandlersRegistry()

	artifactWorker := workers.NewArtifactWorker(store)
	registry.Register(queue.TypeArtifactExpire, asynq.HandlerFunc(artifactWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 4, "storage", cfg.Storage.Backend, "task_types", registry.Types())
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
