package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/KirillGluhov/gallery-api/internal/config"
)

var ErrFileNotFound = errors.New("file not found")

type StoredFile struct {
	Name    string
	ModTime time.Time
}

// FileStore holds image bytes under flat names. Remove of a missing name
// is not an error.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
	List(ctx context.Context) ([]StoredFile, error)
}

func New(ctx context.Context, cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case config.StorageDriverLocal:
		return NewLocalStore(cfg.LocalDir)
	case config.StorageDriverMinio:
		store, err := NewObjectStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
