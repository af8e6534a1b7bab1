package service

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/clock"
	"github.com/celebreapp/celebre/internal/config"
	"github.com/celebreapp/celebre/internal/photo/domain"
	"github.com/celebreapp/celebre/internal/photo/repository"
	"github.com/celebreapp/celebre/internal/providers/storage"
	"github.com/celebreapp/celebre/internal/realtime"
	"github.com/celebreapp/celebre/internal/repofactory"
	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"github.com/celebreapp/celebre/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	events []realtime.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ snowflake.ID, event realtime.Event) {
	p.events = append(p.events, event)
}

type fixture struct {
	svc       domain.Service
	ctx       context.Context
	conn      *gorm.DB
	clock     *clock.FakeClock
	publisher *recordingPublisher
	mediaRoot string
	tenantID  snowflake.ID
}

func newFixture(t *testing.T, eventDate string, now time.Time) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Photo{}, &domain.Like{}, &domain.Comment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	factory := repofactory.New(conn, zap.NewNop())
	factory.Register(repofactory.EntityPhoto, func(conn *gorm.DB, tenantID snowflake.ID) any {
		return repository.New(conn, tenantID)
	})

	mediaRoot := t.TempDir()
	fake := clock.NewFakeClock(now)
	publisher := &recordingPublisher{}
	cfg := &config.Config{
		EventDate: eventDate,
		Storage:   config.StorageConfig{LocalRoot: mediaRoot, BaseURL: "http://localhost:8080"},
	}

	svc := New(Params{
		Config:    cfg,
		Log:       zap.NewNop(),
		Factory:   factory,
		Storage:   storage.NewLocal(cfg.Storage, zap.NewNop()),
		Publisher: publisher,
		Clock:     fake,
		Node:      node,
	})

	tenantID := node.Generate()
	ctx := tenantctx.WithTenant(context.Background(), &tenantdomain.Config{
		ID:      tenantID,
		Slug:    "joana-pedro",
		Backend: tenantdomain.BackendPostgres,
	})
	return &fixture{
		svc: svc, ctx: ctx, conn: conn, clock: fake,
		publisher: publisher, mediaRoot: mediaRoot, tenantID: tenantID,
	}
}

func photoUpload(code, name string) domain.Upload {
	return domain.Upload{
		GuestCode:        code,
		GuestName:        name,
		Body:             strings.NewReader("jpegdata"),
		OriginalFilename: "festa.jpg",
		FileSize:         8,
		MimeType:         "image/jpeg",
	}
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}

func TestUploadPhoto(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

	photo, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE01", "Ana"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(photo.StoragePath, "RE01/"))
	assert.True(t, strings.HasSuffix(photo.StoragePath, ".jpg"))
	assert.NotContains(t, photo.StoragePath, "/videos/")
	assert.False(t, photo.Approved)
	assert.Equal(t, "http://localhost:8080/media/"+photo.StoragePath, photo.PublicURL)
	assert.Equal(t, 1, countFiles(t, f.mediaRoot))
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "media_added", f.publisher.events[0].Type)
}

func TestUploadPhotoAutoApprovesOnEventDay(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 16, 8, 0, 0, 0, time.UTC))

	photo, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE01", "Ana"))
	require.NoError(t, err)
	assert.True(t, photo.Approved)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "media_approved", f.publisher.events[0].Type)
}

func TestUploadPhotoCapRejectsBeforeStorageWrite(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

	for i := 0; i < domain.MaxPhotosPerGuest; i++ {
		_, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE01", "Ana"))
		require.NoError(t, err)
	}
	require.Equal(t, domain.MaxPhotosPerGuest, countFiles(t, f.mediaRoot))

	_, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE01", "Ana"))
	assert.ErrorIs(t, err, domain.ErrPhotoLimit)
	assert.Equal(t, domain.MaxPhotosPerGuest, countFiles(t, f.mediaRoot))
}

func TestUploadPhotoCapIsPerGuest(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

	for i := 0; i < domain.MaxPhotosPerGuest; i++ {
		_, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE01", "Ana"))
		require.NoError(t, err)
	}

	_, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE02", "Bruno"))
	assert.NoError(t, err)
}

func TestUploadVideo(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

	up := photoUpload("RE01", "Ana")
	up.OriginalFilename = "danca.mp4"
	up.MimeType = "video/mp4"
	up.Duration = 45 * time.Second
	up.Poster = strings.NewReader("jpegposter")
	up.PosterMimeType = "image/jpeg"

	video, err := f.svc.UploadVideo(f.ctx, up)
	require.NoError(t, err)
	assert.Contains(t, video.StoragePath, "RE01/videos/")
	require.NotNil(t, video.PosterPath)
	assert.Contains(t, *video.PosterPath, "RE01/thumbnails/")
	require.NotNil(t, video.DurationSeconds)
	assert.Equal(t, 45, *video.DurationSeconds)
}

func TestUploadVideoTooLong(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

	up := photoUpload("RE01", "Ana")
	up.Duration = 61 * time.Second

	_, err := f.svc.UploadVideo(f.ctx, up)
	assert.ErrorIs(t, err, domain.ErrVideoTooLong)
	assert.Equal(t, 0, countFiles(t, f.mediaRoot))
}

func TestFeedHidesPendingAndPosterlessVideos(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 16, 8, 0, 0, 0, time.UTC))

	_, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE01", "Ana"))
	require.NoError(t, err)

	up := photoUpload("RE01", "Ana")
	up.OriginalFilename = "danca.mp4"
	up.Duration = 30 * time.Second
	video, err := f.svc.UploadVideo(f.ctx, up)
	require.NoError(t, err)

	feed, err := f.svc.Feed(f.ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, domain.MediaPhoto, feed[0].MediaType)

	require.NoError(t, f.svc.SetPoster(f.ctx, video.ID, strings.NewReader("poster"), "image/jpeg"))
	feed, err = f.svc.Feed(f.ctx)
	require.NoError(t, err)
	assert.Len(t, feed, 2)
}

func TestApprove(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

	photo, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE01", "Ana"))
	require.NoError(t, err)

	feed, err := f.svc.Feed(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, feed)

	require.NoError(t, f.svc.Approve(f.ctx, photo.ID))
	feed, err = f.svc.Feed(f.ctx)
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestRejectRemovesFiles(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

	photo, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE01", "Ana"))
	require.NoError(t, err)
	require.Equal(t, 1, countFiles(t, f.mediaRoot))

	require.NoError(t, f.svc.Reject(f.ctx, photo.ID))
	assert.Equal(t, 0, countFiles(t, f.mediaRoot))

	all, err := f.svc.All(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLikeTwiceCountsOnce(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 16, 8, 0, 0, 0, time.UTC))

	photo, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE01", "Ana"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Like(f.ctx, photo.ID, "RE02"))
	require.NoError(t, f.svc.Like(f.ctx, photo.ID, "RE02"))

	count, err := f.svc.LikeCount(f.ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err := f.svc.HasLiked(f.ctx, photo.ID, "RE02")
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, f.svc.Unlike(f.ctx, photo.ID, "RE02"))
	count, err = f.svc.LikeCount(f.ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestComments(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 16, 8, 0, 0, 0, time.UTC))

	photo, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE01", "Ana"))
	require.NoError(t, err)

	err = f.svc.AddComment(f.ctx, &domain.Comment{PhotoID: photo.ID, GuestCode: "RE02"})
	assert.ErrorIs(t, err, domain.ErrInvalidComment)

	require.NoError(t, f.svc.AddComment(f.ctx, &domain.Comment{
		PhotoID:   photo.ID,
		GuestCode: "RE02",
		GuestName: "Bruno",
		Text:      "Linda foto!",
	}))

	comments, err := f.svc.Comments(f.ctx, photo.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Linda foto!", comments[0].Text)
}

func TestStats(t *testing.T) {
	f := newFixture(t, "2026-05-16", time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

	_, err := f.svc.UploadPhoto(f.ctx, photoUpload("RE01", "Ana"))
	require.NoError(t, err)
	up := photoUpload("RE01", "Ana")
	up.OriginalFilename = "danca.mp4"
	up.Duration = 30 * time.Second
	_, err = f.svc.UploadVideo(f.ctx, up)
	require.NoError(t, err)

	stats, err := f.svc.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(0), stats.Approved)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Photos)
	assert.Equal(t, int64(1), stats.Videos)
}
