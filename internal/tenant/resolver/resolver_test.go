package resolver

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/cache"
	"github.com/celebreapp/celebre/internal/config"
	"github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenant/repository"
	"github.com/celebreapp/celebre/internal/tenant/service"
	"github.com/celebreapp/celebre/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func noQuery(string) string { return "" }

func newTestResolver(t *testing.T, cfg *config.Config) (*Resolver, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Tenant{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := service.New(service.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		Repo:  repository.Provide(),
		Cache: cache.NewTenantCache(&config.Config{}, zap.NewNop()),
	})
	r := New(Params{
		Config:  cfg,
		Log:     zap.NewNop(),
		Service: svc,
		Local:   NewLocal(cfg, zap.NewNop()),
	})
	return r, conn, node
}

func seedTenant(t *testing.T, conn *gorm.DB, node *snowflake.Node, slug string, customDomain *string) {
	t.Helper()
	require.NoError(t, conn.Create(&domain.Tenant{
		ID:           node.Generate(),
		Slug:         slug,
		Name:         slug,
		CustomDomain: customDomain,
		Features:     datatypes.JSONMap{},
		Limits:       datatypes.JSONMap{},
		Theme:        datatypes.JSONMap{},
		Config:       datatypes.JSONMap{},
		IsActive:     true,
	}).Error)
}

func TestResolveBySubdomain(t *testing.T) {
	cfg := &config.Config{
		BaseDomain:    "app.example.com",
		ResolverOrder: []string{StrategySubdomain, StrategyPath, StrategyDomain},
	}
	r, conn, node := newTestResolver(t, cfg)
	seedTenant(t, conn, node, "joana-pedro", nil)

	got := r.Resolve(context.Background(), Request{
		Host:  "joana-pedro.app.example.com",
		Path:  "/",
		Query: noQuery,
	})
	require.NotNil(t, got)
	assert.Equal(t, "joana-pedro", got.Slug)
}

func TestResolveByPath(t *testing.T) {
	cfg := &config.Config{
		BaseDomain:    "app.example.com",
		ResolverOrder: []string{StrategySubdomain, StrategyPath, StrategyDomain},
	}
	r, conn, node := newTestResolver(t, cfg)
	seedTenant(t, conn, node, "joana-pedro", nil)

	got := r.Resolve(context.Background(), Request{
		Host:  "app.example.com",
		Path:  "/joana-pedro/fotos",
		Query: noQuery,
	})
	require.NotNil(t, got)
	assert.Equal(t, "joana-pedro", got.Slug)
}

func TestResolveByQuery(t *testing.T) {
	cfg := &config.Config{
		BaseDomain:    "app.example.com",
		ResolverOrder: []string{StrategyQuery},
	}
	r, conn, node := newTestResolver(t, cfg)
	seedTenant(t, conn, node, "joana-pedro", nil)

	got := r.Resolve(context.Background(), Request{
		Host: "app.example.com",
		Path: "/",
		Query: func(key string) string {
			if key == "tenant" {
				return "joana-pedro"
			}
			return ""
		},
	})
	require.NotNil(t, got)
	assert.Equal(t, "joana-pedro", got.Slug)
}

func TestResolveByCustomDomain(t *testing.T) {
	cfg := &config.Config{
		BaseDomain:    "app.example.com",
		ResolverOrder: []string{StrategySubdomain, StrategyDomain},
	}
	r, conn, node := newTestResolver(t, cfg)
	custom := "casamento.example.net"
	seedTenant(t, conn, node, "joana-pedro", &custom)

	got := r.Resolve(context.Background(), Request{
		Host:  "casamento.example.net",
		Path:  "/",
		Query: noQuery,
	})
	require.NotNil(t, got)
	assert.Equal(t, "joana-pedro", got.Slug)
}

func TestReservedSlugsNeverResolve(t *testing.T) {
	cfg := &config.Config{
		BaseDomain:        "app.example.com",
		DefaultTenantSlug: "default",
		ResolverOrder:     []string{StrategySubdomain, StrategyPath, StrategyDomain},
	}
	r, conn, node := newTestResolver(t, cfg)
	seedTenant(t, conn, node, "admin", nil)

	got := r.Resolve(context.Background(), Request{
		Host:  "admin.app.example.com",
		Path:  "/checkin",
		Query: noQuery,
	})
	require.NotNil(t, got)
	assert.NotEqual(t, "admin", got.Slug)
}

func TestResolveFallsBackToDefaultTenant(t *testing.T) {
	cfg := &config.Config{
		BaseDomain:        "app.example.com",
		DefaultTenantSlug: "default",
		ResolverOrder:     []string{StrategySubdomain, StrategyPath, StrategyDomain},
	}
	r, conn, node := newTestResolver(t, cfg)
	seedTenant(t, conn, node, "default", nil)

	got := r.Resolve(context.Background(), Request{
		Host:  "app.example.com",
		Path:  "/",
		Query: noQuery,
	})
	require.NotNil(t, got)
	assert.Equal(t, "default", got.Slug)
}

func TestResolveFallsBackToLocalConfig(t *testing.T) {
	cfg := &config.Config{
		BaseDomain:        "app.example.com",
		DefaultTenantSlug: "nosso-casamento",
		ResolverOrder:     []string{StrategySubdomain, StrategyPath, StrategyDomain},
	}
	r, _, _ := newTestResolver(t, cfg)

	got := r.Resolve(context.Background(), Request{
		Host:  "app.example.com",
		Path:  "/",
		Query: noQuery,
	})
	require.NotNil(t, got)
	assert.Equal(t, "nosso-casamento", got.Slug)
	assert.Equal(t, domain.DefaultPrimaryColor, got.Theme.PrimaryColor)
}

func TestResolveIgnoresLocalhost(t *testing.T) {
	cfg := &config.Config{
		DefaultTenantSlug: "nosso-casamento",
		ResolverOrder:     []string{StrategySubdomain, StrategyDomain},
	}
	r, _, _ := newTestResolver(t, cfg)

	got := r.Resolve(context.Background(), Request{
		Host:  "localhost:8080",
		Path:  "/",
		Query: noQuery,
	})
	require.NotNil(t, got)
	assert.Equal(t, "nosso-casamento", got.Slug)
}
