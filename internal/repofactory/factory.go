// Package repofactory builds and memoizes tenant-scoped repositories.
package repofactory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Entity names a repository family the factory can build.
type Entity string

const (
	EntityGuest    Entity = "guest"
	EntityContract Entity = "contract"
	EntityPhoto    Entity = "photo"
	EntityGift     Entity = "gift"
)

// Builder constructs a repository bound to one tenant on one connection.
type Builder func(conn *gorm.DB, tenantID snowflake.ID) any

type cacheKey struct {
	Entity  Entity
	Tenant  snowflake.ID
	Backend domain.BackendKind
}

// Factory hands out repositories scoped to the tenant carried in the
// request context. Instances are memoized per entity, tenant, and
// backend so repeated lookups within and across requests are cheap.
type Factory struct {
	log *zap.Logger

	mu       sync.RWMutex
	memo     map[cacheKey]any
	conns    map[domain.BackendKind]*gorm.DB
	builders map[Entity]Builder
}

func New(db *gorm.DB, log *zap.Logger) *Factory {
	return &Factory{
		log:      log.Named("repofactory"),
		memo:     map[cacheKey]any{},
		conns:    map[domain.BackendKind]*gorm.DB{domain.BackendPostgres: db},
		builders: map[Entity]Builder{},
	}
}

// Register installs the builder for an entity. Feature modules call this
// once at startup; registering twice for the same entity panics.
func (f *Factory) Register(entity Entity, b Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.builders[entity]; ok {
		panic(fmt.Sprintf("repofactory: builder for %q already registered", entity))
	}
	f.builders[entity] = b
}

// RegisterConn installs a connection for a backend kind. The primary
// connection is registered as postgres at construction.
func (f *Factory) RegisterConn(kind domain.BackendKind, conn *gorm.DB) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conns[kind] = conn
}

// Get returns the repository for entity, scoped to the tenant carried in
// ctx. Unknown backend kinds fail with ErrUnsupportedBackend.
func (f *Factory) Get(ctx context.Context, entity Entity) (any, error) {
	cfg, ok := tenantctx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return f.For(cfg, entity)
}

// For is Get for callers that already hold the tenant config.
func (f *Factory) For(cfg *domain.Config, entity Entity) (any, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = domain.BackendPostgres
	}
	key := cacheKey{Entity: entity, Tenant: cfg.ID, Backend: backend}

	f.mu.RLock()
	cached, ok := f.memo[key]
	f.mu.RUnlock()
	if ok {
		return cached, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if cached, ok := f.memo[key]; ok {
		return cached, nil
	}

	conn, ok := f.conns[backend]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedBackend, backend)
	}
	builder, ok := f.builders[entity]
	if !ok {
		return nil, fmt.Errorf("no repository builder for entity %q", entity)
	}

	built := builder(conn, cfg.ID)
	f.memo[key] = built
	f.log.Debug("repository built",
		zap.String("entity", string(entity)),
		zap.Int64("tenant_id", int64(cfg.ID)),
		zap.String("backend", string(backend)))
	return built, nil
}

// Clear drops every memoized repository. Admin tooling calls this after
// tenant reconfiguration so the next lookup rebuilds against fresh state.
func (f *Factory) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memo = map[cacheKey]any{}
}
