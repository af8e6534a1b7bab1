package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/celebreapp/celebre/internal/config"
	"go.uber.org/zap"
)

// Bucket talks to a hosted storage bucket over its HTTP object API.
type Bucket struct {
	baseURL string
	bucket  string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

func NewBucket(cfg config.StorageConfig, log *zap.Logger) *Bucket {
	return &Bucket{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		bucket:  cfg.Bucket,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.Named("storage.bucket"),
	}
}

func (b *Bucket) objectURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", b.baseURL, b.bucket, path)
}

func (b *Bucket) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.objectURL(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("storage upload %s: status %d: %s", path, resp.StatusCode, raw)
	}
	return nil
}

func (b *Bucket) Delete(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	payload, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/storage/v1/object/%s", b.baseURL, b.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage delete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("storage delete: status %d: %s", resp.StatusCode, raw)
	}
	return nil
}

func (b *Bucket) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", b.baseURL, b.bucket, path)
}
