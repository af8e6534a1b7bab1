package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/contract/domain"
	"gorm.io/gorm"
)

type repo struct {
	conn   *gorm.DB
	tenant snowflake.ID
}

// New builds a contract repository bound to one tenant on one connection.
func New(conn *gorm.DB, tenantID snowflake.ID) domain.Repository {
	return &repo{conn: conn, tenant: tenantID}
}

func (r *repo) scope(ctx context.Context) *gorm.DB {
	return r.conn.WithContext(ctx).Where("tenant_id = ?", r.tenant)
}

func (r *repo) All(ctx context.Context) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := r.scope(ctx).Order("empresa ASC").Find(&contracts).Error
	return contracts, err
}

func (r *repo) ByID(ctx context.Context, id snowflake.ID) (*domain.Contract, error) {
	var contract domain.Contract
	if err := r.scope(ctx).Where("id = ?", id).First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

func (r *repo) Insert(ctx context.Context, contract *domain.Contract) error {
	contract.TenantID = r.tenant
	return r.conn.WithContext(ctx).Create(contract).Error
}

func (r *repo) Update(ctx context.Context, contract *domain.Contract) error {
	contract.TenantID = r.tenant
	return r.conn.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", r.tenant, contract.ID).
		Save(contract).Error
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	return r.scope(ctx).Where("id = ?", id).Delete(&domain.Contract{}).Error
}

func (r *repo) Summary(ctx context.Context) (domain.Summary, error) {
	var row struct {
		Count int64
		Total *int64
		Paid  *int64
	}
	err := r.scope(ctx).
		Model(&domain.Contract{}).
		Select("COUNT(*) AS count, SUM(valor) AS total, SUM(pago) AS paid").
		Scan(&row).Error
	if err != nil {
		return domain.Summary{}, err
	}

	summary := domain.Summary{Count: row.Count}
	if row.Total != nil {
		summary.TotalCents = *row.Total
	}
	if row.Paid != nil {
		summary.PaidCents = *row.Paid
	}
	summary.RemainingCents = summary.TotalCents - summary.PaidCents
	return summary, nil
}
