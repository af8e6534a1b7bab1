// Package backupsync mirrors guest mutations to a spreadsheet webhook.
package backupsync

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/celebreapp/celebre/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Syncer posts guest changes to the configured webhook. Every call is
// best-effort: the spreadsheet is a backup, never the source of truth.
type Syncer interface {
	Sync(ctx context.Context, action string, fields map[string]string)
}

func New(cfg *config.Config, log *zap.Logger) Syncer {
	if cfg.BackupSyncURL == "" {
		return noopSyncer{}
	}
	return &webhookSyncer{
		url:    cfg.BackupSyncURL,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.Named("backupsync"),
	}
}

type webhookSyncer struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func (s *webhookSyncer) Sync(ctx context.Context, action string, fields map[string]string) {
	form := url.Values{}
	form.Set("action", action)
	for k, v := range fields {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url,
		strings.NewReader(form.Encode()))
	if err != nil {
		s.log.Warn("backup sync request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("backup sync failed", zap.String("action", action), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.log.Warn("backup sync rejected",
			zap.String("action", action),
			zap.Int("status", resp.StatusCode))
	}
}

type noopSyncer struct{}

func (noopSyncer) Sync(context.Context, string, map[string]string) {}

var Module = fx.Module("backupsync",
	fx.Provide(New),
)
