// Package cache holds hot-path lookup caches backed by redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/celebreapp/celebre/internal/config"
	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const tenantTTL = 5 * time.Minute

// TenantCache stores resolved tenant configs keyed by slug or custom domain.
// All operations are best-effort; a cache failure never fails a lookup.
type TenantCache interface {
	Get(ctx context.Context, key string) (*tenantdomain.Config, bool)
	Set(ctx context.Context, key string, cfg *tenantdomain.Config)
	Invalidate(ctx context.Context, keys ...string)
}

type redisTenantCache struct {
	client *redis.Client
	log    *zap.Logger
}

// NewTenantCache returns a redis-backed cache, or a no-op cache when redis
// is not configured.
func NewTenantCache(cfg *config.Config, log *zap.Logger) TenantCache {
	if cfg.Redis.Addr == "" {
		return noopTenantCache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return &redisTenantCache{client: client, log: log.Named("cache.tenant")}
}

func (c *redisTenantCache) Get(ctx context.Context, key string) (*tenantdomain.Config, bool) {
	raw, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("tenant cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var cfg tenantdomain.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, false
	}
	return &cfg, true
}

func (c *redisTenantCache) Set(ctx context.Context, key string, cfg *tenantdomain.Config) {
	if cfg == nil {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(key), raw, tenantTTL).Err(); err != nil {
		c.log.Warn("tenant cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *redisTenantCache) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := c.client.Del(ctx, cacheKey(key)).Err(); err != nil {
			c.log.Warn("tenant cache invalidate failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func cacheKey(key string) string { return "tenant:" + key }

type noopTenantCache struct{}

func (noopTenantCache) Get(context.Context, string) (*tenantdomain.Config, bool) { return nil, false }
func (noopTenantCache) Set(context.Context, string, *tenantdomain.Config)        {}
func (noopTenantCache) Invalidate(context.Context, ...string)                    {}
