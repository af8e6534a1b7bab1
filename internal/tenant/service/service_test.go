package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/cache"
	"github.com/celebreapp/celebre/internal/config"
	"github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenant/repository"
	"github.com/celebreapp/celebre/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Tenant{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		Repo:  repository.Provide(),
		Cache: cache.NewTenantCache(&config.Config{}, zap.NewNop()),
	})
	return svc, conn, node
}

func seedTenant(t *testing.T, conn *gorm.DB, node *snowflake.Node, slug string, mutate func(*domain.Tenant)) *domain.Tenant {
	t.Helper()
	row := &domain.Tenant{
		ID:       node.Generate(),
		Slug:     slug,
		Name:     "Joana & Pedro",
		Features: datatypes.JSONMap{"photos": true, "rsvp": true, "giftRegistry": true},
		Limits:   datatypes.JSONMap{"maxGuests": float64(150), "maxPhotos": float64(300), "maxAdmins": float64(2)},
		Theme:    datatypes.JSONMap{},
		Config:   datatypes.JSONMap{},
		IsActive: true,
	}
	if mutate != nil {
		mutate(row)
	}
	require.NoError(t, conn.Create(row).Error)
	return row
}

func TestLoadBySlug(t *testing.T) {
	svc, conn, node := newTestService(t)
	seedTenant(t, conn, node, "joana-pedro", nil)

	cfg, err := svc.LoadBySlug(context.Background(), "joana-pedro")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "joana-pedro", cfg.Slug)
	assert.Equal(t, "Joana & Pedro", cfg.Name)
	assert.Equal(t, 150, cfg.Limits.MaxGuests)
	assert.True(t, cfg.HasFeature("photos"))
	assert.Equal(t, domain.BackendPostgres, cfg.Backend)
}

func TestLoadBySlugAppliesThemeDefaults(t *testing.T) {
	svc, conn, node := newTestService(t)
	seedTenant(t, conn, node, "joana-pedro", nil)

	cfg, err := svc.LoadBySlug(context.Background(), "joana-pedro")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, domain.DefaultPrimaryColor, cfg.Theme.PrimaryColor)
	assert.Equal(t, domain.DefaultSecondaryColor, cfg.Theme.SecondaryColor)
}

func TestLoadBySlugNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	cfg, err := svc.LoadBySlug(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadBySlugIgnoresInactive(t *testing.T) {
	svc, conn, node := newTestService(t)
	seedTenant(t, conn, node, "joana-pedro", func(row *domain.Tenant) {
		row.IsActive = false
	})

	cfg, err := svc.LoadBySlug(context.Background(), "joana-pedro")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadByDomain(t *testing.T) {
	svc, conn, node := newTestService(t)
	custom := "casamento.example.net"
	seedTenant(t, conn, node, "joana-pedro", func(row *domain.Tenant) {
		row.CustomDomain = &custom
	})

	cfg, err := svc.LoadByDomain(context.Background(), custom)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "joana-pedro", cfg.Slug)
}

func TestUpdateMergesAndReloads(t *testing.T) {
	svc, conn, node := newTestService(t)
	row := seedTenant(t, conn, node, "joana-pedro", nil)

	payment := "stripe"
	cfg, err := svc.Update(context.Background(), row.ID, domain.UpdateRequest{
		Theme:   &domain.Theme{PrimaryColor: "#112233"},
		Payment: &payment,
	})
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "#112233", cfg.Theme.PrimaryColor)
	assert.Equal(t, domain.DefaultSecondaryColor, cfg.Theme.SecondaryColor)
	assert.Equal(t, "stripe", cfg.Integrations.Payment)
}

func TestUpdateUnknownTenant(t *testing.T) {
	svc, _, node := newTestService(t)

	_, err := svc.Update(context.Background(), node.Generate(), domain.UpdateRequest{})
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestCheckLimit(t *testing.T) {
	svc, conn, node := newTestService(t)
	seedTenant(t, conn, node, "joana-pedro", nil)

	cfg, err := svc.LoadBySlug(context.Background(), "joana-pedro")
	require.NoError(t, err)

	check := svc.CheckLimit(cfg, "maxGuests", 149)
	assert.True(t, check.Allowed)
	assert.Equal(t, 150, check.Max)

	check = svc.CheckLimit(cfg, "maxGuests", 150)
	assert.False(t, check.Allowed)
}
