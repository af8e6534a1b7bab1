package migration

import (
	"github.com/celebreapp/celebre/internal/config"
	contractdomain "github.com/celebreapp/celebre/internal/contract/domain"
	giftdomain "github.com/celebreapp/celebre/internal/gift/domain"
	guestdomain "github.com/celebreapp/celebre/internal/guest/domain"
	photodomain "github.com/celebreapp/celebre/internal/photo/domain"
	"github.com/celebreapp/celebre/internal/seed"
	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg *config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql are dev backends, the gorm schema is
			// authoritative there.
			if err := conn.AutoMigrate(
				&tenantdomain.Tenant{},
				&guestdomain.Guest{},
				&contractdomain.Contract{},
				&photodomain.Photo{},
				&photodomain.Like{},
				&photodomain.Comment{},
				&giftdomain.Gift{},
			); err != nil {
				return err
			}
		}

		if cfg.Environment == "development" {
			return seed.EnsureDemoData(conn, cfg.DefaultTenantSlug)
		}
		return seed.EnsureDefaultTenant(conn, cfg.DefaultTenantSlug)
	}),
)
