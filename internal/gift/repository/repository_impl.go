package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/gift/domain"
	"gorm.io/gorm"
)

type repo struct {
	conn   *gorm.DB
	tenant snowflake.ID
}

// New builds a gift repository bound to one tenant on one connection.
func New(conn *gorm.DB, tenantID snowflake.ID) domain.Repository {
	return &repo{conn: conn, tenant: tenantID}
}

func (r *repo) scope(ctx context.Context) *gorm.DB {
	return r.conn.WithContext(ctx).Where("tenant_id = ?", r.tenant)
}

func (r *repo) All(ctx context.Context) ([]domain.Gift, error) {
	var gifts []domain.Gift
	err := r.scope(ctx).Order("categoria ASC, nome ASC").Find(&gifts).Error
	return gifts, err
}

func (r *repo) ByCategory(ctx context.Context, category string) ([]domain.Gift, error) {
	var gifts []domain.Gift
	err := r.scope(ctx).
		Where("categoria = ?", category).
		Order("nome ASC").
		Find(&gifts).Error
	return gifts, err
}

func (r *repo) ByID(ctx context.Context, id snowflake.ID) (*domain.Gift, error) {
	return r.findOne(r.scope(ctx).Where("id = ?", id))
}

func (r *repo) ByOrderRef(ctx context.Context, orderRef string) (*domain.Gift, error) {
	return r.findOne(r.scope(ctx).Where("order_ref = ?", orderRef))
}

func (r *repo) findOne(stmt *gorm.DB) (*domain.Gift, error) {
	var gift domain.Gift
	if err := stmt.First(&gift).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gift, nil
}

func (r *repo) Insert(ctx context.Context, gift *domain.Gift) error {
	gift.TenantID = r.tenant
	if gift.Status == "" {
		gift.Status = domain.StatusAvailable
	}
	return r.conn.WithContext(ctx).Create(gift).Error
}

func (r *repo) Update(ctx context.Context, gift *domain.Gift) error {
	gift.TenantID = r.tenant
	return r.conn.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", r.tenant, gift.ID).
		Save(gift).Error
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	return r.scope(ctx).Where("id = ?", id).Delete(&domain.Gift{}).Error
}

func (r *repo) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	statuses := []struct {
		dest   *int64
		status domain.Status
	}{
		{&stats.Available, domain.StatusAvailable},
		{&stats.Reserved, domain.StatusReserved},
		{&stats.Paid, domain.StatusPaid},
	}
	if err := r.scope(ctx).Model(&domain.Gift{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	for _, s := range statuses {
		if err := r.scope(ctx).Model(&domain.Gift{}).
			Where("status = ?", s.status).Count(s.dest).Error; err != nil {
			return stats, err
		}
	}
	var paid *int64
	if err := r.scope(ctx).Model(&domain.Gift{}).
		Where("status = ?", domain.StatusPaid).
		Select("SUM(preco)").Scan(&paid).Error; err != nil {
		return stats, err
	}
	if paid != nil {
		stats.PaidCents = *paid
	}
	return stats, nil
}

// Reserve is a conditional update so two guests cannot reserve the same
// gift at once.
func (r *repo) Reserve(ctx context.Context, id snowflake.ID, orderRef, name, email string) (bool, error) {
	res := r.conn.WithContext(ctx).
		Model(&domain.Gift{}).
		Where("tenant_id = ? AND id = ? AND status = ?", r.tenant, id, domain.StatusAvailable).
		Updates(map[string]any{
			"status":        domain.StatusReserved,
			"order_ref":     orderRef,
			"reservado_por": name,
			"email_reserva": email,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Release(ctx context.Context, id snowflake.ID) error {
	return r.scope(ctx).
		Model(&domain.Gift{}).
		Where("id = ? AND status = ?", id, domain.StatusReserved).
		Updates(map[string]any{
			"status":        domain.StatusAvailable,
			"order_ref":     nil,
			"reservado_por": "",
			"email_reserva": "",
			"updated_at":    time.Now(),
		}).Error
}

func (r *repo) MarkPaid(ctx context.Context, orderRef string) (bool, error) {
	res := r.scope(ctx).
		Model(&domain.Gift{}).
		Where("order_ref = ? AND status <> ?", orderRef, domain.StatusPaid).
		Updates(map[string]any{
			"status":     domain.StatusPaid,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
