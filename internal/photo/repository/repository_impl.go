package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/photo/domain"
	"gorm.io/gorm"
)

type repo struct {
	conn   *gorm.DB
	tenant snowflake.ID
}

// New builds a media repository bound to one tenant on one connection.
func New(conn *gorm.DB, tenantID snowflake.ID) domain.Repository {
	return &repo{conn: conn, tenant: tenantID}
}

func (r *repo) scope(ctx context.Context) *gorm.DB {
	return r.conn.WithContext(ctx).Where("tenant_id = ?", r.tenant)
}

func (r *repo) Approved(ctx context.Context) ([]domain.Photo, error) {
	var photos []domain.Photo
	err := r.scope(ctx).
		Where("aprovado = ?", true).
		Where("media_type = ? OR poster_path IS NOT NULL", domain.MediaPhoto).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

func (r *repo) Pending(ctx context.Context) ([]domain.Photo, error) {
	var photos []domain.Photo
	err := r.scope(ctx).
		Where("aprovado = ?", false).
		Order("created_at ASC").
		Find(&photos).Error
	return photos, err
}

func (r *repo) AllMedia(ctx context.Context) ([]domain.Photo, error) {
	var photos []domain.Photo
	err := r.scope(ctx).Order("created_at DESC").Find(&photos).Error
	return photos, err
}

func (r *repo) ByGuest(ctx context.Context, guestCode string) ([]domain.Photo, error) {
	var photos []domain.Photo
	err := r.scope(ctx).
		Where("LOWER(codigo_convidado) = LOWER(?)", guestCode).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

func (r *repo) ByID(ctx context.Context, id snowflake.ID) (*domain.Photo, error) {
	var photo domain.Photo
	if err := r.scope(ctx).Where("id = ?", id).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}

const insertCappedSQL = `
INSERT INTO photos (
	id, tenant_id, codigo_convidado, nome_convidado, storage_path,
	poster_path, media_type, duration_seconds, original_filename,
	file_size, mime_type, legenda, aprovado, created_at, updated_at
)
SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
FROM (SELECT 1) AS one
WHERE (
	SELECT COUNT(*) FROM photos
	WHERE tenant_id = ? AND codigo_convidado = ? AND media_type = ?
) < ?`

// InsertCapped inserts and counts in one statement, so two concurrent
// uploads cannot both slip past the cap.
func (r *repo) InsertCapped(ctx context.Context, photo *domain.Photo, limit int) (bool, error) {
	photo.TenantID = r.tenant
	now := time.Now()
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = now
	}
	photo.UpdatedAt = now

	res := r.conn.WithContext(ctx).Exec(insertCappedSQL,
		photo.ID, photo.TenantID, photo.GuestCode, photo.GuestName,
		photo.StoragePath, photo.PosterPath, photo.MediaType,
		photo.DurationSeconds, photo.OriginalFilename, photo.FileSize,
		photo.MimeType, photo.Caption, photo.Approved,
		photo.CreatedAt, photo.UpdatedAt,
		photo.TenantID, photo.GuestCode, photo.MediaType, limit,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) GuestMediaCount(ctx context.Context, guestCode string, mediaType domain.MediaType) (int64, error) {
	var count int64
	err := r.scope(ctx).
		Model(&domain.Photo{}).
		Where("codigo_convidado = ? AND media_type = ?", guestCode, mediaType).
		Count(&count).Error
	return count, err
}

func (r *repo) SetApproval(ctx context.Context, ids []snowflake.ID, approved bool) error {
	if len(ids) == 0 {
		return nil
	}
	return r.scope(ctx).
		Model(&domain.Photo{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"aprovado": approved, "updated_at": time.Now()}).Error
}

func (r *repo) SetPoster(ctx context.Context, id snowflake.ID, posterPath string) error {
	return r.scope(ctx).
		Model(&domain.Photo{}).
		Where("id = ?", id).
		Updates(map[string]any{"poster_path": posterPath, "updated_at": time.Now()}).Error
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	return r.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND foto_id = ?", r.tenant, id).
			Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ? AND foto_id = ?", r.tenant, id).
			Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("tenant_id = ? AND id = ?", r.tenant, id).
			Delete(&domain.Photo{}).Error
	})
}

func (r *repo) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	counts := []struct {
		dest *int64
		cond func(*gorm.DB) *gorm.DB
	}{
		{&stats.Total, func(q *gorm.DB) *gorm.DB { return q }},
		{&stats.Approved, func(q *gorm.DB) *gorm.DB { return q.Where("aprovado = ?", true) }},
		{&stats.Pending, func(q *gorm.DB) *gorm.DB { return q.Where("aprovado = ?", false) }},
		{&stats.Photos, func(q *gorm.DB) *gorm.DB { return q.Where("media_type = ?", domain.MediaPhoto) }},
		{&stats.Videos, func(q *gorm.DB) *gorm.DB { return q.Where("media_type = ?", domain.MediaVideo) }},
	}
	for _, c := range counts {
		if err := c.cond(r.scope(ctx).Model(&domain.Photo{})).Count(c.dest).Error; err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (r *repo) InsertLike(ctx context.Context, like *domain.Like) error {
	like.TenantID = r.tenant
	return r.conn.WithContext(ctx).Create(like).Error
}

func (r *repo) DeleteLike(ctx context.Context, photoID snowflake.ID, guestCode string) error {
	return r.scope(ctx).
		Where("foto_id = ? AND codigo_convidado = ?", photoID, guestCode).
		Delete(&domain.Like{}).Error
}

func (r *repo) LikeCount(ctx context.Context, photoID snowflake.ID) (int64, error) {
	var count int64
	err := r.scope(ctx).
		Model(&domain.Like{}).
		Where("foto_id = ?", photoID).
		Count(&count).Error
	return count, err
}

func (r *repo) HasLiked(ctx context.Context, photoID snowflake.ID, guestCode string) (bool, error) {
	var count int64
	err := r.scope(ctx).
		Model(&domain.Like{}).
		Where("foto_id = ? AND codigo_convidado = ?", photoID, guestCode).
		Count(&count).Error
	return count > 0, err
}

func (r *repo) InsertComment(ctx context.Context, comment *domain.Comment) error {
	comment.TenantID = r.tenant
	return r.conn.WithContext(ctx).Create(comment).Error
}

func (r *repo) CommentsFor(ctx context.Context, photoID snowflake.ID) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.scope(ctx).
		Where("foto_id = ?", photoID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *repo) DeleteComment(ctx context.Context, id snowflake.ID) error {
	return r.scope(ctx).Where("id = ?", id).Delete(&domain.Comment{}).Error
}
