package service

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/cache"
	"github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/pkg/rls"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Cache cache.TenantCache
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	cache cache.TenantCache
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tenant.service"),
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func (s *Service) LoadBySlug(ctx context.Context, slug string) (*domain.Config, error) {
	if slug == "" {
		return nil, domain.ErrInvalidTenant
	}
	if cfg, ok := s.cache.Get(ctx, slug); ok {
		return cfg, nil
	}

	row, err := s.repo.FindBySlug(ctx, s.db, slug)
	if err != nil {
		s.log.Warn("tenant lookup failed", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	if row == nil {
		s.log.Warn("tenant not found", zap.String("slug", slug))
		return nil, nil
	}

	return s.activate(ctx, row), nil
}

func (s *Service) LoadByDomain(ctx context.Context, customDomain string) (*domain.Config, error) {
	if customDomain == "" {
		return nil, domain.ErrInvalidTenant
	}
	if cfg, ok := s.cache.Get(ctx, customDomain); ok {
		return cfg, nil
	}

	row, err := s.repo.FindByDomain(ctx, s.db, customDomain)
	if err != nil {
		s.log.Warn("tenant lookup by domain failed", zap.String("domain", customDomain), zap.Error(err))
		return nil, err
	}
	if row == nil {
		s.log.Warn("tenant not found for domain", zap.String("domain", customDomain))
		return nil, nil
	}

	return s.activate(ctx, row), nil
}

func (s *Service) LoadByID(ctx context.Context, id snowflake.ID) (*domain.Config, error) {
	if id == 0 {
		return nil, domain.ErrInvalidTenant
	}

	row, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		s.log.Warn("tenant lookup by id failed", zap.Int64("id", int64(id)), zap.Error(err))
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	return s.activate(ctx, row), nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Config, error) {
	if id == 0 {
		return nil, domain.ErrInvalidTenant
	}

	updates := map[string]any{}
	if req.Features != nil {
		updates["features"] = toJSONMap(req.Features)
	}
	if req.Limits != nil {
		updates["limits"] = toJSONMap(req.Limits)
	}
	if req.Theme != nil {
		updates["theme"] = toJSONMap(req.Theme)
	}

	row, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrTenantNotFound
	}

	if req.Backend != nil || req.Payment != nil {
		cfg := row.Config
		if cfg == nil {
			cfg = datatypes.JSONMap{}
		}
		if req.Backend != nil {
			cfg["backend"] = *req.Backend
		}
		if req.Payment != nil {
			integrations, _ := cfg["integrations"].(map[string]any)
			if integrations == nil {
				integrations = map[string]any{}
			}
			integrations["payment"] = *req.Payment
			cfg["integrations"] = integrations
		}
		updates["config"] = cfg
	}

	if err := s.repo.UpdateConfig(ctx, s.db, id, updates); err != nil {
		return nil, err
	}

	keys := []string{row.Slug}
	if row.CustomDomain != nil {
		keys = append(keys, *row.CustomDomain)
	}
	s.cache.Invalidate(ctx, keys...)

	return s.LoadByID(ctx, id)
}

func (s *Service) CheckLimit(cfg *domain.Config, limit string, current int) domain.LimitCheck {
	if cfg == nil {
		return domain.LimitCheck{Allowed: true, Max: 0, Current: current}
	}
	var max int
	switch limit {
	case "maxGuests":
		max = cfg.Limits.MaxGuests
	case "maxPhotos":
		max = cfg.Limits.MaxPhotos
	case "maxAdmins":
		max = cfg.Limits.MaxAdmins
	}
	return domain.LimitCheck{Allowed: current < max, Max: max, Current: current}
}

// activate maps the row into a config, caches it, and sets the backend
// session tenant used by row-level filtering. The session call is
// best-effort: its failure is logged but never fails the load.
func (s *Service) activate(ctx context.Context, row *domain.Tenant) *domain.Config {
	cfg := MapRowToConfig(row)

	s.cache.Set(ctx, cfg.Slug, cfg)
	if row.CustomDomain != nil && *row.CustomDomain != "" {
		s.cache.Set(ctx, *row.CustomDomain, cfg)
	}

	if err := rls.WithTenant(s.db.WithContext(ctx), int64(cfg.ID)); err != nil {
		s.log.Warn("failed to set tenant session context",
			zap.String("slug", cfg.Slug), zap.Error(err))
	}

	s.log.Info("tenant loaded", zap.String("slug", cfg.Slug), zap.String("name", cfg.Name))
	return cfg
}

// MapRowToConfig converts a tenant row into a resolved config, applying
// theme defaults for blank fields.
func MapRowToConfig(row *domain.Tenant) *domain.Config {
	cfg := &domain.Config{
		ID:   row.ID,
		Slug: row.Slug,
		Name: row.Name,
	}
	decodeInto(row.Features, &cfg.Features)
	decodeInto(row.Limits, &cfg.Limits)
	decodeInto(row.Theme, &cfg.Theme)

	var backendCfg struct {
		Backend      string              `json:"backend"`
		Integrations domain.Integrations `json:"integrations"`
	}
	decodeInto(row.Config, &backendCfg)

	cfg.Backend = domain.BackendKind(backendCfg.Backend)
	if cfg.Backend == "" {
		cfg.Backend = domain.BackendPostgres
	}
	cfg.Integrations = backendCfg.Integrations

	if cfg.Theme.PrimaryColor == "" {
		cfg.Theme.PrimaryColor = domain.DefaultPrimaryColor
	}
	if cfg.Theme.SecondaryColor == "" {
		cfg.Theme.SecondaryColor = domain.DefaultSecondaryColor
	}

	return cfg
}

func decodeInto(m datatypes.JSONMap, out any) {
	if len(m) == 0 {
		return
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	_ = json.Unmarshal(raw, out)
}

func toJSONMap(v any) datatypes.JSONMap {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSONMap{}
	}
	m := datatypes.JSONMap{}
	_ = json.Unmarshal(raw, &m)
	return m
}
