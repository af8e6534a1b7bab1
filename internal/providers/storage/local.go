package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/celebreapp/celebre/internal/config"
	"go.uber.org/zap"
)

// Local stores objects on the filesystem. It backs self-hosted setups
// and tests.
type Local struct {
	root    string
	baseURL string
	log     *zap.Logger
}

func NewLocal(cfg config.StorageConfig, log *zap.Logger) *Local {
	root := cfg.LocalRoot
	if root == "" {
		root = "data/media"
	}
	return &Local{
		root:    root,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		log:     log.Named("storage.local"),
	}
}

// clean rejects paths that would escape the media root.
func (l *Local) clean(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return filepath.Join(l.root, cleaned), nil
}

func (l *Local) Upload(_ context.Context, path string, body io.Reader, _ string) error {
	target, err := l.clean(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, body); err != nil {
		os.Remove(target)
		return err
	}
	return nil
}

func (l *Local) Delete(_ context.Context, paths ...string) error {
	for _, path := range paths {
		target, err := l.clean(path)
		if err != nil {
			l.log.Warn("skipping invalid path on delete", zap.String("path", path))
			continue
		}
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (l *Local) PublicURL(path string) string {
	return l.baseURL + "/media/" + path
}
