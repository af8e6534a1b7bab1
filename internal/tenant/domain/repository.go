package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Tenant, error)
	FindByDomain(ctx context.Context, db *gorm.DB, domain string) (*Tenant, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tenant, error)
	Insert(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	UpdateConfig(ctx context.Context, db *gorm.DB, id snowflake.ID, updates map[string]any) error
}
