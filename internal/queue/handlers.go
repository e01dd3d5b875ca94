package queue

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/hibiken/asynq"
)

// HandlersRegistry maps task types to their handlers and logs every task
// the worker runs.
type HandlersRegistry struct {
	mux   *asynq.ServeMux
	types []string
}

func NewHandlersRegistry() *HandlersRegistry {
	mux := asynq.NewServeMux()
	mux.Use(logTasks)
	return &HandlersRegistry{mux: mux}
}

func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, handler)
	r.types = append(r.types, taskType)
}

// Types lists the registered task types in registration order.
func (r *HandlersRegistry) Types() []string {
	return slices.Clone(r.types)
}

func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}

func logTasks(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		start := time.Now()
		err := next.ProcessTask(ctx, t)
		id, _ := asynq.GetTaskID(ctx)
		attrs := []any{"type", t.Type(), "task_id", id, "duration_ms", time.Since(start).Milliseconds()}
		if err != nil {
			slog.WarnContext(ctx, "task failed", append(attrs, "error", err)...)
			return err
		}
		slog.DebugContext(ctx, "task done", attrs...)
		return nil
	})
}
