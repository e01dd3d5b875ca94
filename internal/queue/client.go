package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/lingua/internal/config"
)

type Client struct {
	client      *asynq.Client
	artifactTTL time.Duration
}

func NewClient(cfg config.RedisConfig, artifactTTL time.Duration) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		artifactTTL: artifactTTL,
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// ScheduleExpiry enqueues deletion of an artifact once its TTL has passed.
func (c *Client) ScheduleExpiry(ctx context.Context, id, bucket, path string) error {
	return c.enqueue(ctx, TypeArtifactExpire, ArtifactExpirePayload{
		ArtifactID: id,
		Bucket:     bucket,
		Path:       path,
	}, artifactExpireOptions(id, c.artifactTTL)...)
}

func artifactExpireOptions(id string, ttl time.Duration) []asynq.Option {
	return []asynq.Option{
		asynq.TaskID("artifact-expire:" + id),
		asynq.ProcessIn(ttl),
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
		asynq.Queue("low"),
	}
}

func (c *Client) enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
