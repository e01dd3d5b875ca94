package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nikhilbhutani/lingua/internal/config"
)

var ErrNotFound = errors.New("object not found")

// Storage holds audio artifacts. Download returns ErrNotFound for missing
// objects; deleting a missing object is not an error.
type Storage interface {
	Upload(ctx context.Context, bucket, path string, data io.Reader, size int64, contentType string) error
	Download(ctx context.Context, bucket, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, bucket, path string) error
}

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStorage(), nil
	case "supabase":
		return NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey), nil
	case "minio":
		m, err := NewMinioStorage(MinioConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Region:    cfg.S3Region,
			Secure:    cfg.S3Secure,
		})
		if err != nil {
			return nil, err
		}
		if err := m.EnsureBucket(ctx, cfg.Bucket); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
