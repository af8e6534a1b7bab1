// Package storage abstracts the object store media files live in.
package storage

import (
	"context"
	"io"

	"github.com/celebreapp/celebre/internal/config"
	"go.uber.org/zap"
)

// ObjectStorage stores uploaded media under tenant-relative paths like
// {guestCode}/{file}, {guestCode}/videos/{file} and
// {guestCode}/thumbnails/{file}.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, body io.Reader, contentType string) error
	Delete(ctx context.Context, paths ...string) error
	PublicURL(path string) string
}

// New selects the storage backend from configuration. Anything but the
// hosted bucket falls back to the local filesystem store.
func New(cfg *config.Config, log *zap.Logger) ObjectStorage {
	switch cfg.Storage.Provider {
	case "supabase":
		return NewBucket(cfg.Storage, log)
	default:
		return NewLocal(cfg.Storage, log)
	}
}
