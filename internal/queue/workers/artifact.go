package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/lingua/internal/queue"
	"github.com/nikhilbhutani/lingua/internal/storage"
)

// ArtifactWorker deletes audio artifacts whose TTL has passed.
type ArtifactWorker struct {
	storage storage.Storage
}

func NewArtifactWorker(store storage.Storage) *ArtifactWorker {
	return &ArtifactWorker{storage: store}
}

func (w *ArtifactWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.ArtifactExpirePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}
	if payload.Bucket == "" || payload.Path == "" {
		return fmt.Errorf("artifact %s: missing location: %w", payload.ArtifactID, asynq.SkipRetry)
	}

	if err := w.storage.Delete(ctx, payload.Bucket, payload.Path); err != nil {
		return fmt.Errorf("delete artifact %s: %w", payload.ArtifactID, err)
	}

	slog.Info("artifact expired", "artifact_id", payload.ArtifactID)
	return nil
}
