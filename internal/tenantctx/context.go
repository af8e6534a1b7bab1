// Package tenantctx carries the active tenant through request contexts.
package tenantctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
)

// TenantContextKey is the request context key for the active tenant config.
type TenantContextKey struct{}

// WithTenant stores the resolved tenant config in the context.
func WithTenant(ctx context.Context, cfg *tenantdomain.Config) context.Context {
	return context.WithValue(ctx, TenantContextKey{}, cfg)
}

// FromContext returns the tenant config from the context, if set.
func FromContext(ctx context.Context) (*tenantdomain.Config, bool) {
	if ctx == nil {
		return nil, false
	}
	cfg, ok := ctx.Value(TenantContextKey{}).(*tenantdomain.Config)
	if !ok || cfg == nil {
		return nil, false
	}
	return cfg, true
}

// TenantID returns the active tenant id from the context, if set.
func TenantID(ctx context.Context) (snowflake.ID, bool) {
	cfg, ok := FromContext(ctx)
	if !ok {
		return 0, false
	}
	return cfg.ID, true
}
