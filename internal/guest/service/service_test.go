package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/clock"
	"github.com/celebreapp/celebre/internal/guest/domain"
	"github.com/celebreapp/celebre/internal/guest/repository"
	"github.com/celebreapp/celebre/internal/repofactory"
	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"github.com/celebreapp/celebre/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testEntry = time.Date(2026, 5, 16, 19, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, maxGuests int) (domain.Service, context.Context, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Guest{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	factory := repofactory.New(conn, zap.NewNop())
	factory.Register(repofactory.EntityGuest, func(conn *gorm.DB, tenantID snowflake.ID) any {
		return repository.New(conn, tenantID)
	})

	svc := New(Params{
		Log:     zap.NewNop(),
		Factory: factory,
		Clock:   clock.NewFakeClock(testEntry),
		Node:    node,
	})

	ctx := tenantctx.WithTenant(context.Background(), &tenantdomain.Config{
		ID:      node.Generate(),
		Slug:    "joana-pedro",
		Backend: tenantdomain.BackendPostgres,
		Limits:  tenantdomain.Limits{MaxGuests: maxGuests},
	})
	return svc, ctx, conn
}

func createGuest(t *testing.T, svc domain.Service, ctx context.Context, code, name string) *domain.Guest {
	t.Helper()
	guest := &domain.Guest{Code: code, Name: name}
	require.NoError(t, svc.Create(ctx, guest))
	return guest
}

func TestGetByCodeCaseInsensitive(t *testing.T) {
	svc, ctx, _ := newTestService(t, 0)
	createGuest(t, svc, ctx, "RE01", "Ana")

	got, err := svc.GetByCode(ctx, "re01")
	require.NoError(t, err)
	assert.Equal(t, "RE01", got.Code)
	assert.Equal(t, "Ana", got.Name)
}

func TestGetByCodeUnknown(t *testing.T) {
	svc, ctx, _ := newTestService(t, 0)

	_, err := svc.GetByCode(ctx, "zz99")
	assert.ErrorIs(t, err, domain.ErrGuestNotFound)
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc, ctx, _ := newTestService(t, 0)
	createGuest(t, svc, ctx, "RE01", "Ana")

	err := svc.Create(ctx, &domain.Guest{Code: "RE01", Name: "Outra Ana"})
	assert.ErrorIs(t, err, domain.ErrCodeExists)
}

func TestCreateEnforcesGuestLimit(t *testing.T) {
	svc, ctx, _ := newTestService(t, 2)
	createGuest(t, svc, ctx, "RE01", "Ana")
	createGuest(t, svc, ctx, "RE02", "Bruno")

	err := svc.Create(ctx, &domain.Guest{Code: "RE03", Name: "Clara"})
	assert.ErrorIs(t, err, domain.ErrGuestLimit)
}

func TestCreateValidates(t *testing.T) {
	svc, ctx, _ := newTestService(t, 0)

	assert.ErrorIs(t, svc.Create(ctx, &domain.Guest{Code: "RE01"}), domain.ErrInvalidGuest)
	assert.ErrorIs(t, svc.Create(ctx, &domain.Guest{Name: "Ana"}), domain.ErrInvalidGuest)
}

func TestRegisterCheckin(t *testing.T) {
	svc, ctx, _ := newTestService(t, 0)
	createGuest(t, svc, ctx, "RE01", "Ana")

	guest, err := svc.RegisterCheckin(ctx, "re01")
	require.NoError(t, err)
	assert.True(t, guest.CheckedIn)
	require.NotNil(t, guest.CheckinTime)
	assert.Equal(t, testEntry, guest.CheckinTime.UTC())
}

func TestRegisterCheckinTwiceReportsEntryTime(t *testing.T) {
	svc, ctx, _ := newTestService(t, 0)
	createGuest(t, svc, ctx, "RE01", "Ana")

	_, err := svc.RegisterCheckin(ctx, "RE01")
	require.NoError(t, err)

	_, err = svc.RegisterCheckin(ctx, "RE01")
	var already *domain.AlreadyCheckedInError
	require.ErrorAs(t, err, &already)
	require.NotNil(t, already.At)
	assert.Equal(t, testEntry, already.At.UTC())
}

func TestRegisterCheckinUnknownCode(t *testing.T) {
	svc, ctx, _ := newTestService(t, 0)

	_, err := svc.RegisterCheckin(ctx, "zz99")
	assert.ErrorIs(t, err, domain.ErrGuestNotFound)
}

func TestStatsCountsIndependently(t *testing.T) {
	svc, ctx, conn := newTestService(t, 0)
	ana := createGuest(t, svc, ctx, "RE01", "Ana")
	createGuest(t, svc, ctx, "RE02", "Bruno")
	createGuest(t, svc, ctx, "RE03", "Clara")

	now := testEntry
	require.NoError(t, conn.Model(&domain.Guest{}).
		Where("id = ?", ana.ID).
		Updates(map[string]any{
			"confirmado":       true,
			"data_confirmacao": now,
			"acompanhantes":    2,
		}).Error)

	_, err := svc.RegisterCheckin(ctx, "RE02")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Confirmed)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.CheckedIn)
	assert.Equal(t, int64(2), stats.Companions)
}

func TestTenantIsolation(t *testing.T) {
	svc, ctx, _ := newTestService(t, 0)
	createGuest(t, svc, ctx, "RE01", "Ana")

	otherCtx := tenantctx.WithTenant(context.Background(), &tenantdomain.Config{
		ID:      9999,
		Slug:    "outro-casal",
		Backend: tenantdomain.BackendPostgres,
	})
	_, err := svc.GetByCode(otherCtx, "RE01")
	assert.ErrorIs(t, err, domain.ErrGuestNotFound)
}
