package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/clock"
	"github.com/celebreapp/celebre/internal/config"
	"github.com/celebreapp/celebre/internal/observability/metrics"
	"github.com/celebreapp/celebre/internal/photo/domain"
	"github.com/celebreapp/celebre/internal/providers/storage"
	"github.com/celebreapp/celebre/internal/realtime"
	"github.com/celebreapp/celebre/internal/repofactory"
	"github.com/celebreapp/celebre/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config    *config.Config
	Log       *zap.Logger
	Factory   *repofactory.Factory
	Storage   storage.ObjectStorage
	Publisher realtime.Publisher
	Clock     clock.Clock
	Node      *snowflake.Node
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	cfg       *config.Config
	log       *zap.Logger
	factory   *repofactory.Factory
	storage   storage.ObjectStorage
	publisher realtime.Publisher
	clock     clock.Clock
	node      *snowflake.Node
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		cfg:       p.Config,
		log:       p.Log.Named("photo.service"),
		factory:   p.Factory,
		storage:   p.Storage,
		publisher: p.Publisher,
		clock:     p.Clock,
		node:      p.Node,
		metrics:   p.Metrics,
	}
}

func (s *Service) repo(ctx context.Context) (domain.Repository, error) {
	return s.factory.Photos(ctx)
}

func (s *Service) Feed(ctx context.Context) ([]domain.Photo, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	photos, err := repo.Approved(ctx)
	if err != nil {
		return nil, err
	}
	s.fillURLs(photos)
	return photos, nil
}

func (s *Service) Pending(ctx context.Context) ([]domain.Photo, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	photos, err := repo.Pending(ctx)
	if err != nil {
		return nil, err
	}
	s.fillURLs(photos)
	return photos, nil
}

func (s *Service) All(ctx context.Context) ([]domain.Photo, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	photos, err := repo.AllMedia(ctx)
	if err != nil {
		return nil, err
	}
	s.fillURLs(photos)
	return photos, nil
}

func (s *Service) ByGuest(ctx context.Context, guestCode string) ([]domain.Photo, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	photos, err := repo.ByGuest(ctx, guestCode)
	if err != nil {
		return nil, err
	}
	s.fillURLs(photos)
	return photos, nil
}

func (s *Service) UploadPhoto(ctx context.Context, up domain.Upload) (*domain.Photo, error) {
	if err := validateUpload(&up); err != nil {
		return nil, err
	}
	return s.upload(ctx, up, domain.MediaPhoto, domain.MaxPhotosPerGuest, domain.ErrPhotoLimit)
}

func (s *Service) UploadVideo(ctx context.Context, up domain.Upload) (*domain.Photo, error) {
	if err := validateUpload(&up); err != nil {
		return nil, err
	}
	if up.Duration > domain.MaxVideoDuration {
		return nil, domain.ErrVideoTooLong
	}
	return s.upload(ctx, up, domain.MediaVideo, domain.MaxVideosPerGuest, domain.ErrVideoLimit)
}

func (s *Service) upload(ctx context.Context, up domain.Upload, mediaType domain.MediaType, limit int, limitErr error) (*domain.Photo, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}

	// Check the cap before touching storage so a full quota costs nothing.
	count, err := repo.GuestMediaCount(ctx, up.GuestCode, mediaType)
	if err != nil {
		return nil, err
	}
	if count >= int64(limit) {
		return nil, limitErr
	}

	storagePath := s.mediaPath(up.GuestCode, up.OriginalFilename, mediaType)
	if err := s.storage.Upload(ctx, storagePath, up.Body, up.MimeType); err != nil {
		return nil, err
	}

	photo := &domain.Photo{
		ID:               s.node.Generate(),
		GuestCode:        up.GuestCode,
		GuestName:        up.GuestName,
		StoragePath:      storagePath,
		MediaType:        mediaType,
		OriginalFilename: up.OriginalFilename,
		FileSize:         up.FileSize,
		MimeType:         up.MimeType,
		Caption:          strings.TrimSpace(up.Caption),
		Approved:         s.autoApprove(),
	}
	if mediaType == domain.MediaVideo {
		secs := int(up.Duration / time.Second)
		photo.DurationSeconds = &secs
		if up.Poster != nil {
			posterPath := s.posterPath(up.GuestCode, up.OriginalFilename)
			if err := s.storage.Upload(ctx, posterPath, up.Poster, up.PosterMimeType); err != nil {
				s.deleteObjects(ctx, storagePath)
				return nil, err
			}
			photo.PosterPath = &posterPath
		}
	}

	inserted, err := repo.InsertCapped(ctx, photo, limit)
	if err != nil || !inserted {
		paths := []string{storagePath}
		if photo.PosterPath != nil {
			paths = append(paths, *photo.PosterPath)
		}
		s.deleteObjects(ctx, paths...)
		if err != nil {
			return nil, err
		}
		return nil, limitErr
	}

	s.fillURL(photo)
	eventType := "media_added"
	if photo.Approved {
		eventType = "media_approved"
	}
	s.publisher.Publish(ctx, photo.TenantID, realtime.Event{Type: eventType, Payload: photo})
	s.metrics.RecordMediaUpload(ctx, string(photo.MediaType))

	s.log.Info("media uploaded",
		zap.String("codigo", photo.GuestCode),
		zap.String("media_type", string(mediaType)),
		zap.Bool("aprovado", photo.Approved))
	return photo, nil
}

func (s *Service) SetPoster(ctx context.Context, id snowflake.ID, poster io.Reader, mimeType string) error {
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	photo, err := repo.ByID(ctx, id)
	if err != nil {
		return err
	}
	if photo == nil {
		return domain.ErrPhotoNotFound
	}

	posterPath := s.posterPath(photo.GuestCode, photo.OriginalFilename)
	if err := s.storage.Upload(ctx, posterPath, poster, mimeType); err != nil {
		return err
	}
	return repo.SetPoster(ctx, id, posterPath)
}

func (s *Service) Approve(ctx context.Context, ids ...snowflake.ID) error {
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	if err := repo.SetApproval(ctx, ids, true); err != nil {
		return err
	}
	for _, id := range ids {
		if photo, err := repo.ByID(ctx, id); err == nil && photo != nil {
			s.fillURL(photo)
			s.publisher.Publish(ctx, photo.TenantID, realtime.Event{Type: "media_approved", Payload: photo})
		}
	}
	return nil
}

// Reject removes the media entirely, files included.
func (s *Service) Reject(ctx context.Context, ids ...snowflake.ID) error {
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	photo, err := repo.ByID(ctx, id)
	if err != nil {
		return err
	}
	if photo == nil {
		return domain.ErrPhotoNotFound
	}

	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	paths := []string{photo.StoragePath}
	if photo.PosterPath != nil {
		paths = append(paths, *photo.PosterPath)
	}
	s.deleteObjects(ctx, paths...)
	return nil
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return repo.Stats(ctx)
}

func (s *Service) Like(ctx context.Context, photoID snowflake.ID, guestCode string) error {
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	like := &domain.Like{
		ID:        s.node.Generate(),
		PhotoID:   photoID,
		GuestCode: guestCode,
	}
	if err := repo.InsertLike(ctx, like); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Service) Unlike(ctx context.Context, photoID snowflake.ID, guestCode string) error {
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	return repo.DeleteLike(ctx, photoID, guestCode)
}

func (s *Service) LikeCount(ctx context.Context, photoID snowflake.ID) (int64, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return 0, err
	}
	return repo.LikeCount(ctx, photoID)
}

func (s *Service) HasLiked(ctx context.Context, photoID snowflake.ID, guestCode string) (bool, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return false, err
	}
	return repo.HasLiked(ctx, photoID, guestCode)
}

func (s *Service) AddComment(ctx context.Context, comment *domain.Comment) error {
	comment.Text = strings.TrimSpace(comment.Text)
	if comment.PhotoID == 0 || comment.GuestCode == "" || comment.Text == "" {
		return domain.ErrInvalidComment
	}
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	photo, err := repo.ByID(ctx, comment.PhotoID)
	if err != nil {
		return err
	}
	if photo == nil {
		return domain.ErrPhotoNotFound
	}
	if comment.ID == 0 {
		comment.ID = s.node.Generate()
	}
	return repo.InsertComment(ctx, comment)
}

func (s *Service) Comments(ctx context.Context, photoID snowflake.ID) ([]domain.Comment, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.CommentsFor(ctx, photoID)
}

func (s *Service) DeleteComment(ctx context.Context, id snowflake.ID) error {
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	return repo.DeleteComment(ctx, id)
}

// autoApprove skips moderation from the event day onward, when the couple
// is busy getting married.
func (s *Service) autoApprove() bool {
	if s.cfg.EventDate == "" {
		return false
	}
	eventDate, err := time.Parse("2006-01-02", s.cfg.EventDate)
	if err != nil {
		return false
	}
	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !today.Before(eventDate)
}

func (s *Service) mediaPath(guestCode, filename string, mediaType domain.MediaType) string {
	name := fmt.Sprintf("%d_%s%s", s.clock.Now().Unix(), uuid.NewString(), path.Ext(filename))
	if mediaType == domain.MediaVideo {
		return fmt.Sprintf("%s/videos/%s", guestCode, name)
	}
	return fmt.Sprintf("%s/%s", guestCode, name)
}

func (s *Service) posterPath(guestCode, filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" {
		base = uuid.NewString()
	}
	return fmt.Sprintf("%s/thumbnails/%d_%s.jpg", guestCode, s.clock.Now().Unix(), base)
}

func (s *Service) deleteObjects(ctx context.Context, paths ...string) {
	if err := s.storage.Delete(ctx, paths...); err != nil {
		s.log.Warn("orphaned storage object", zap.Strings("paths", paths), zap.Error(err))
	}
}

func (s *Service) fillURLs(photos []domain.Photo) {
	for i := range photos {
		s.fillURL(&photos[i])
	}
}

func (s *Service) fillURL(photo *domain.Photo) {
	photo.PublicURL = s.storage.PublicURL(photo.StoragePath)
	if photo.PosterPath != nil {
		photo.PosterURL = s.storage.PublicURL(*photo.PosterPath)
	}
}

func validateUpload(up *domain.Upload) error {
	up.GuestCode = strings.TrimSpace(up.GuestCode)
	up.GuestName = strings.TrimSpace(up.GuestName)
	if up.GuestCode == "" || up.GuestName == "" || up.Body == nil {
		return domain.ErrInvalidUpload
	}
	return nil
}
