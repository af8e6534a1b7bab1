// Package realtime pushes feed events to subscribed clients.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event is a feed notification. Payload carries the affected row.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Publisher fans feed events out to the tenant's channel. Publishing is
// best-effort; a down broker never fails the write that triggered it.
type Publisher interface {
	Publish(ctx context.Context, tenantID snowflake.ID, event Event)
}

func New(cfg *config.Config, log *zap.Logger) Publisher {
	if cfg.Redis.Addr == "" {
		return noopPublisher{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return &redisPublisher{client: client, log: log.Named("realtime")}
}

type redisPublisher struct {
	client *redis.Client
	log    *zap.Logger
}

func channel(tenantID snowflake.ID) string {
	return fmt.Sprintf("feed:%d", tenantID)
}

func (p *redisPublisher) Publish(ctx context.Context, tenantID snowflake.ID, event Event) {
	raw, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("event marshal failed", zap.String("type", event.Type), zap.Error(err))
		return
	}
	if err := p.client.Publish(ctx, channel(tenantID), raw).Err(); err != nil {
		p.log.Warn("publish failed",
			zap.String("type", event.Type),
			zap.Int64("tenant_id", int64(tenantID)),
			zap.Error(err))
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, snowflake.ID, Event) {}
