// Package artifact manages synthesized audio clips. Each clip is stored
// once, addressed by a URL under /audio/, and owned by one client.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/lingua/internal/storage"
)

var ErrNotFound = errors.New("artifact not found")

type Artifact struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Owner       string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`

	path string
}

// Expirer schedules deletion of an artifact that nobody releases.
type Expirer interface {
	ScheduleExpiry(ctx context.Context, id, bucket, path string) error
}

type Registry struct {
	store   storage.Storage
	bucket  string
	expirer Expirer

	mu   sync.Mutex
	live map[string]Artifact
}

func NewRegistry(store storage.Storage, bucket string, expirer Expirer) *Registry {
	return &Registry{
		store:   store,
		bucket:  bucket,
		expirer: expirer,
		live:    make(map[string]Artifact),
	}
}

func (r *Registry) Create(ctx context.Context, owner string, audio []byte, contentType string) (Artifact, error) {
	id := uuid.NewString()
	a := Artifact{
		ID:          id,
		URL:         "/audio/" + id,
		ContentType: contentType,
		Size:        int64(len(audio)),
		Owner:       owner,
		CreatedAt:   time.Now().UTC(),
		path:        "artifacts/" + id + extension(contentType),
	}

	if err := r.store.Upload(ctx, r.bucket, a.path, bytes.NewReader(audio), a.Size, contentType); err != nil {
		return Artifact{}, fmt.Errorf("store artifact: %w", err)
	}

	if r.expirer != nil {
		if err := r.expirer.ScheduleExpiry(ctx, id, r.bucket, a.path); err != nil {
			slog.Warn("failed to schedule artifact expiry", "artifact_id", id, "error", err)
		}
	}

	r.mu.Lock()
	r.live[id] = a
	r.mu.Unlock()
	return a, nil
}

// Open streams an artifact owned by owner.
func (r *Registry) Open(ctx context.Context, id, owner string) (io.ReadCloser, Artifact, error) {
	r.mu.Lock()
	a, ok := r.live[id]
	r.mu.Unlock()
	if !ok || a.Owner != owner {
		return nil, Artifact{}, ErrNotFound
	}

	rc, err := r.store.Download(ctx, r.bucket, a.path)
	if errors.Is(err, storage.ErrNotFound) {
		// Expired underneath us.
		r.forget(id)
		return nil, Artifact{}, ErrNotFound
	}
	if err != nil {
		return nil, Artifact{}, fmt.Errorf("open artifact: %w", err)
	}
	return rc, a, nil
}

// Release deletes an artifact. Releasing an unknown id is a no-op.
func (r *Registry) Release(ctx context.Context, id string) error {
	r.mu.Lock()
	a, ok := r.live[id]
	delete(r.live, id)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	if err := r.store.Delete(ctx, r.bucket, a.path); err != nil {
		return fmt.Errorf("release artifact: %w", err)
	}
	return nil
}

// Live reports how many artifacts owner holds.
func (r *Registry) Live(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.live {
		if a.Owner == owner {
			n++
		}
	}
	return n
}

func (r *Registry) forget(id string) {
	r.mu.Lock()
	delete(r.live, id)
	r.mu.Unlock()
}

func extension(contentType string) string {
	switch contentType {
	case "audio/wav":
		return ".wav"
	case "audio/mpeg":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	default:
		return ""
	}
}
