package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/tenant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Tenant, error) {
	return r.findOne(db.WithContext(ctx).Where("slug = ? AND is_active = ?", slug, true))
}

func (r *repo) FindByDomain(ctx context.Context, db *gorm.DB, customDomain string) (*domain.Tenant, error) {
	return r.findOne(db.WithContext(ctx).Where("custom_domain = ? AND is_active = ?", customDomain, true))
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Tenant, error) {
	return r.findOne(db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true))
}

func (r *repo) findOne(stmt *gorm.DB) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := stmt.First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	return db.WithContext(ctx).Create(tenant).Error
}

func (r *repo) UpdateConfig(ctx context.Context, db *gorm.DB, id snowflake.ID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where("id = ?", id).
		Updates(updates).Error
}
