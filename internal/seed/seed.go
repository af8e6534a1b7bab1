// Package seed bootstraps the default tenant so a fresh install serves
// traffic without manual setup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	giftdomain "github.com/celebreapp/celebre/internal/gift/domain"
	guestdomain "github.com/celebreapp/celebre/internal/guest/domain"
	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultTenantName = "Lista de Casamento"

// EnsureDemoData fills an empty development database with a few guests
// and gifts so the UI has content to show.
func EnsureDemoData(db *gorm.DB, tenantSlug string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenant, err := ensureTenantTx(ctx, tx, node, slug.Make(tenantSlug))
		if err != nil {
			return err
		}

		var guests int64
		if err := tx.WithContext(ctx).Model(&guestdomain.Guest{}).
			Where("tenant_id = ?", tenant.ID).Count(&guests).Error; err != nil {
			return err
		}
		if guests == 0 {
			now := time.Now().UTC()
			rows := []guestdomain.Guest{
				{ID: node.Generate(), TenantID: tenant.ID, Code: "RE01", Name: "Ana Souza", Companions: 1, CreatedAt: now, UpdatedAt: now},
				{ID: node.Generate(), TenantID: tenant.ID, Code: "RE02", Name: "Bruno Lima", Partner: "Carla Lima", Companions: 2, CreatedAt: now, UpdatedAt: now},
			}
			if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
				return err
			}
		}

		var gifts int64
		if err := tx.WithContext(ctx).Model(&giftdomain.Gift{}).
			Where("tenant_id = ?", tenant.ID).Count(&gifts).Error; err != nil {
			return err
		}
		if gifts == 0 {
			now := time.Now().UTC()
			rows := []giftdomain.Gift{
				{ID: node.Generate(), TenantID: tenant.ID, Name: "Jogo de Panelas", Category: "cozinha", PriceCents: 45000, Status: giftdomain.StatusAvailable, CreatedAt: now, UpdatedAt: now},
				{ID: node.Generate(), TenantID: tenant.ID, Name: "Jogo de Toalhas", Category: "banho", PriceCents: 18000, Status: giftdomain.StatusAvailable, CreatedAt: now, UpdatedAt: now},
			}
			if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// EnsureDefaultTenant creates the tenant row named by DEFAULT_TENANT_SLUG
// when none exists. The slug is normalized the same way the admin API
// normalizes tenant slugs.
func EnsureDefaultTenant(db *gorm.DB, tenantSlug string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureTenantTx(ctx, tx, node, slug.Make(tenantSlug))
		return err
	})
}

func ensureTenantTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tenantSlug string) (tenantdomain.Tenant, error) {
	var tenant tenantdomain.Tenant
	err := tx.WithContext(ctx).Where("slug = ?", tenantSlug).First(&tenant).Error
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return tenant, err
	}

	now := time.Now().UTC()
	tenant = tenantdomain.Tenant{
		ID:   node.Generate(),
		Slug: tenantSlug,
		Name: defaultTenantName,
		Features: datatypes.JSONMap{
			"photos":    true,
			"rsvp":      true,
			"contracts": true,
			"checkin":   true,
			"pix":       true,
		},
		Limits: datatypes.JSONMap{
			"maxGuests": 500,
			"maxPhotos": 1000,
			"maxAdmins": 5,
		},
		Theme: datatypes.JSONMap{
			"primaryColor":   tenantdomain.DefaultPrimaryColor,
			"secondaryColor": tenantdomain.DefaultSecondaryColor,
		},
		Config:    datatypes.JSONMap{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&tenant).Error; err != nil {
		return tenant, err
	}
	return tenant, nil
}
