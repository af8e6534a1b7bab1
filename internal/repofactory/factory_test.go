package repofactory

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"github.com/celebreapp/celebre/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeStore struct {
	conn   *gorm.DB
	tenant snowflake.ID
}

func newTestFactory(t *testing.T) (*Factory, *gorm.DB) {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)

	f := New(conn, zap.NewNop())
	f.Register(EntityGuest, func(conn *gorm.DB, tenantID snowflake.ID) any {
		return &fakeStore{conn: conn, tenant: tenantID}
	})
	return f, conn
}

func tenantCtx(id snowflake.ID, backend domain.BackendKind) context.Context {
	return tenantctx.WithTenant(context.Background(), &domain.Config{
		ID:      id,
		Slug:    "joana-pedro",
		Backend: backend,
	})
}

func TestGetMemoizesPerTenant(t *testing.T) {
	f, _ := newTestFactory(t)

	first, err := f.Get(tenantCtx(1, domain.BackendPostgres), EntityGuest)
	require.NoError(t, err)
	second, err := f.Get(tenantCtx(1, domain.BackendPostgres), EntityGuest)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := f.Get(tenantCtx(2, domain.BackendPostgres), EntityGuest)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, snowflake.ID(2), other.(*fakeStore).tenant)
}

func TestGetBlankBackendDefaultsToPostgres(t *testing.T) {
	f, conn := newTestFactory(t)

	got, err := f.Get(tenantCtx(1, ""), EntityGuest)
	require.NoError(t, err)
	assert.Same(t, conn, got.(*fakeStore).conn)
}

func TestGetUnsupportedBackend(t *testing.T) {
	f, _ := newTestFactory(t)

	_, err := f.Get(tenantCtx(1, domain.BackendKind("firebase")), EntityGuest)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedBackend)
	assert.Contains(t, err.Error(), "firebase")
}

func TestGetWithoutTenant(t *testing.T) {
	f, _ := newTestFactory(t)

	_, err := f.Get(context.Background(), EntityGuest)
	assert.ErrorIs(t, err, domain.ErrInvalidTenant)
}

func TestRegisterConn(t *testing.T) {
	f, _ := newTestFactory(t)
	alt, err := db.NewTest()
	require.NoError(t, err)
	f.RegisterConn(domain.BackendSQLite, alt)

	got, err := f.Get(tenantCtx(1, domain.BackendSQLite), EntityGuest)
	require.NoError(t, err)
	assert.Same(t, alt, got.(*fakeStore).conn)
}

func TestClearDropsMemo(t *testing.T) {
	f, _ := newTestFactory(t)

	first, err := f.Get(tenantCtx(1, domain.BackendPostgres), EntityGuest)
	require.NoError(t, err)

	f.Clear()

	second, err := f.Get(tenantCtx(1, domain.BackendPostgres), EntityGuest)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}
