package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/guest/domain"
	"gorm.io/gorm"
)

type repo struct {
	conn   *gorm.DB
	tenant snowflake.ID
}

// New builds a guest repository bound to one tenant on one connection.
func New(conn *gorm.DB, tenantID snowflake.ID) domain.Repository {
	return &repo{conn: conn, tenant: tenantID}
}

func (r *repo) scope(ctx context.Context) *gorm.DB {
	return r.conn.WithContext(ctx).Where("tenant_id = ?", r.tenant)
}

func (r *repo) All(ctx context.Context) ([]domain.Guest, error) {
	var guests []domain.Guest
	err := r.scope(ctx).Order("nome ASC").Find(&guests).Error
	return guests, err
}

func (r *repo) ByID(ctx context.Context, id snowflake.ID) (*domain.Guest, error) {
	return r.findOne(r.scope(ctx).Where("id = ?", id))
}

func (r *repo) ByCode(ctx context.Context, code string) (*domain.Guest, error) {
	return r.findOne(r.scope(ctx).Where("LOWER(codigo) = LOWER(?)", code))
}

func (r *repo) findOne(stmt *gorm.DB) (*domain.Guest, error) {
	var guest domain.Guest
	if err := stmt.First(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &guest, nil
}

func (r *repo) Insert(ctx context.Context, guest *domain.Guest) error {
	guest.TenantID = r.tenant
	return r.conn.WithContext(ctx).Create(guest).Error
}

func (r *repo) Update(ctx context.Context, guest *domain.Guest) error {
	guest.TenantID = r.tenant
	return r.conn.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", r.tenant, guest.ID).
		Save(guest).Error
}

func (r *repo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	return r.scope(ctx).
		Model(&domain.Guest{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	return r.scope(ctx).Where("id = ?", id).Delete(&domain.Guest{}).Error
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.scope(ctx).Model(&domain.Guest{}).Count(&total).Error
	return total, err
}

func (r *repo) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats

	if err := r.scope(ctx).Model(&domain.Guest{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := r.scope(ctx).Model(&domain.Guest{}).
		Where("confirmado = ?", true).Count(&stats.Confirmed).Error; err != nil {
		return stats, err
	}
	if err := r.scope(ctx).Model(&domain.Guest{}).
		Where("confirmado = ?", false).Count(&stats.Pending).Error; err != nil {
		return stats, err
	}
	if err := r.scope(ctx).Model(&domain.Guest{}).
		Where("checkin = ?", true).Count(&stats.CheckedIn).Error; err != nil {
		return stats, err
	}
	var companions *int64
	if err := r.scope(ctx).Model(&domain.Guest{}).
		Where("confirmado = ?", true).
		Select("SUM(acompanhantes)").Scan(&companions).Error; err != nil {
		return stats, err
	}
	if companions != nil {
		stats.Companions = *companions
	}
	return stats, nil
}

func (r *repo) CheckedIn(ctx context.Context) ([]domain.Guest, error) {
	var guests []domain.Guest
	err := r.scope(ctx).
		Where("checkin = ?", true).
		Order("horario_entrada DESC").
		Find(&guests).Error
	return guests, err
}

func (r *repo) Checkin(ctx context.Context, id snowflake.ID, at time.Time) (bool, error) {
	res := r.conn.WithContext(ctx).
		Model(&domain.Guest{}).
		Where("tenant_id = ? AND id = ? AND checkin = ?", r.tenant, id, false).
		Updates(map[string]any{
			"checkin":         true,
			"horario_entrada": at,
			"updated_at":      at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
