package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/contract/domain"
	"github.com/celebreapp/celebre/internal/contract/repository"
	"github.com/celebreapp/celebre/internal/repofactory"
	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"github.com/celebreapp/celebre/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, context.Context) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Contract{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	factory := repofactory.New(conn, zap.NewNop())
	factory.Register(repofactory.EntityContract, func(conn *gorm.DB, tenantID snowflake.ID) any {
		return repository.New(conn, tenantID)
	})

	svc := New(Params{Log: zap.NewNop(), Factory: factory, Node: node})
	ctx := tenantctx.WithTenant(context.Background(), &tenantdomain.Config{
		ID:      node.Generate(),
		Slug:    "joana-pedro",
		Backend: tenantdomain.BackendPostgres,
	})
	return svc, ctx
}

func TestCreateAndGet(t *testing.T) {
	svc, ctx := newTestService(t)

	contract := &domain.Contract{
		Company:     "Buffet Jardim",
		Responsible: "Marcos",
		ValueCents:  1500000,
		PaidCents:   500000,
	}
	require.NoError(t, svc.Create(ctx, contract))

	got, err := svc.Get(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buffet Jardim", got.Company)
	assert.Equal(t, int64(1000000), got.RemainingCents())
}

func TestCreateValidates(t *testing.T) {
	svc, ctx := newTestService(t)

	err := svc.Create(ctx, &domain.Contract{Company: "Buffet Jardim"})
	assert.ErrorIs(t, err, domain.ErrInvalidContract)

	err = svc.Create(ctx, &domain.Contract{
		Company:     "Buffet Jardim",
		Responsible: "Marcos",
		ValueCents:  100,
		PaidCents:   200,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidContract)
}

func TestUpdateUnknown(t *testing.T) {
	svc, ctx := newTestService(t)

	err := svc.Update(ctx, &domain.Contract{
		ID:          12345,
		Company:     "Buffet Jardim",
		Responsible: "Marcos",
	})
	assert.ErrorIs(t, err, domain.ErrContractNotFound)
}

func TestSummary(t *testing.T) {
	svc, ctx := newTestService(t)

	require.NoError(t, svc.Create(ctx, &domain.Contract{
		Company: "Buffet Jardim", Responsible: "Marcos",
		ValueCents: 1500000, PaidCents: 500000,
	}))
	require.NoError(t, svc.Create(ctx, &domain.Contract{
		Company: "Foto Luz", Responsible: "Paula",
		ValueCents: 800000, PaidCents: 800000,
	}))

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.Equal(t, int64(2300000), summary.TotalCents)
	assert.Equal(t, int64(1300000), summary.PaidCents)
	assert.Equal(t, int64(1000000), summary.RemainingCents)
}

func TestSummaryEmpty(t *testing.T) {
	svc, ctx := newTestService(t)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Count)
	assert.Equal(t, int64(0), summary.RemainingCents)
}

func TestDelete(t *testing.T) {
	svc, ctx := newTestService(t)

	contract := &domain.Contract{Company: "Foto Luz", Responsible: "Paula"}
	require.NoError(t, svc.Create(ctx, contract))
	require.NoError(t, svc.Delete(ctx, contract.ID))

	_, err := svc.Get(ctx, contract.ID)
	assert.ErrorIs(t, err, domain.ErrContractNotFound)
}
