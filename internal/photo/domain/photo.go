// Package domain contains the media feed rows and contracts.
package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
)

type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

const (
	// Per-guest caps keep one table from drowning the feed.
	MaxPhotosPerGuest = 20
	MaxVideosPerGuest = 5

	MaxVideoDuration = 60 * time.Second
)

// Photo is one feed entry, photo or video. Storage paths are relative to
// the media bucket; public URLs are derived, never stored.
type Photo struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID         snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	GuestCode        string       `gorm:"column:codigo_convidado;type:text;not null;index" json:"codigo_convidado"`
	GuestName        string       `gorm:"column:nome_convidado;type:text;not null" json:"nome_convidado"`
	StoragePath      string       `gorm:"column:storage_path;type:text;not null" json:"storage_path"`
	PosterPath       *string      `gorm:"column:poster_path;type:text" json:"poster_path"`
	MediaType        MediaType    `gorm:"column:media_type;type:text;not null;default:photo" json:"media_type"`
	DurationSeconds  *int         `gorm:"column:duration_seconds" json:"duration_seconds"`
	OriginalFilename string       `gorm:"column:original_filename;type:text" json:"original_filename"`
	FileSize         int64        `gorm:"column:file_size;not null;default:0" json:"file_size"`
	MimeType         string       `gorm:"column:mime_type;type:text" json:"mime_type"`
	Caption          string       `gorm:"column:legenda;type:text" json:"legenda"`
	Approved         bool         `gorm:"column:aprovado;not null;default:false" json:"aprovado"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// PublicURL and PosterURL are filled by the service from storage.
	PublicURL string `gorm:"-" json:"public_url,omitempty"`
	PosterURL string `gorm:"-" json:"poster_url,omitempty"`
}

// TableName sets the database table name.
func (Photo) TableName() string { return "photos" }

// Like marks that a guest liked a feed entry, at most once.
type Like struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"column:tenant_id;not null;uniqueIndex:ux_likes_once" json:"tenant_id"`
	PhotoID   snowflake.ID `gorm:"column:foto_id;not null;uniqueIndex:ux_likes_once" json:"foto_id"`
	GuestCode string       `gorm:"column:codigo_convidado;type:text;not null;uniqueIndex:ux_likes_once" json:"codigo_convidado"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Like) TableName() string { return "photo_likes" }

type Comment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	PhotoID   snowflake.ID `gorm:"column:foto_id;not null;index" json:"foto_id"`
	GuestCode string       `gorm:"column:codigo_convidado;type:text;not null" json:"codigo_convidado"`
	GuestName string       `gorm:"column:nome_convidado;type:text;not null" json:"nome_convidado"`
	Text      string       `gorm:"column:texto;type:text;not null" json:"texto"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Comment) TableName() string { return "photo_comments" }

// Stats are feed counters for the moderation dashboard.
type Stats struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"aprovadas"`
	Pending  int64 `json:"pendentes"`
	Photos   int64 `json:"fotos"`
	Videos   int64 `json:"videos"`
}

// Repository is a media store bound to one tenant.
type Repository interface {
	Approved(ctx context.Context) ([]Photo, error)
	Pending(ctx context.Context) ([]Photo, error)
	AllMedia(ctx context.Context) ([]Photo, error)
	ByGuest(ctx context.Context, guestCode string) ([]Photo, error)
	ByID(ctx context.Context, id snowflake.ID) (*Photo, error)
	// InsertCapped inserts only while the guest stays under cap entries
	// of the row's media type and reports whether the row went in.
	InsertCapped(ctx context.Context, photo *Photo, limit int) (bool, error)
	GuestMediaCount(ctx context.Context, guestCode string, mediaType MediaType) (int64, error)
	SetApproval(ctx context.Context, ids []snowflake.ID, approved bool) error
	SetPoster(ctx context.Context, id snowflake.ID, posterPath string) error
	Delete(ctx context.Context, id snowflake.ID) error
	Stats(ctx context.Context) (Stats, error)

	InsertLike(ctx context.Context, like *Like) error
	DeleteLike(ctx context.Context, photoID snowflake.ID, guestCode string) error
	LikeCount(ctx context.Context, photoID snowflake.ID) (int64, error)
	HasLiked(ctx context.Context, photoID snowflake.ID, guestCode string) (bool, error)

	InsertComment(ctx context.Context, comment *Comment) error
	CommentsFor(ctx context.Context, photoID snowflake.ID) ([]Comment, error)
	DeleteComment(ctx context.Context, id snowflake.ID) error
}

// Upload carries one incoming file.
type Upload struct {
	GuestCode        string
	GuestName        string
	Body             io.Reader
	OriginalFilename string
	FileSize         int64
	MimeType         string
	Caption          string
	// Duration applies to videos only.
	Duration time.Duration
	// Poster is an optional thumbnail uploaded with a video.
	Poster         io.Reader
	PosterMimeType string
}

type Service interface {
	Feed(ctx context.Context) ([]Photo, error)
	Pending(ctx context.Context) ([]Photo, error)
	All(ctx context.Context) ([]Photo, error)
	ByGuest(ctx context.Context, guestCode string) ([]Photo, error)
	UploadPhoto(ctx context.Context, up Upload) (*Photo, error)
	UploadVideo(ctx context.Context, up Upload) (*Photo, error)
	SetPoster(ctx context.Context, id snowflake.ID, poster io.Reader, mimeType string) error
	Approve(ctx context.Context, ids ...snowflake.ID) error
	Reject(ctx context.Context, ids ...snowflake.ID) error
	Delete(ctx context.Context, id snowflake.ID) error
	Stats(ctx context.Context) (Stats, error)

	Like(ctx context.Context, photoID snowflake.ID, guestCode string) error
	Unlike(ctx context.Context, photoID snowflake.ID, guestCode string) error
	LikeCount(ctx context.Context, photoID snowflake.ID) (int64, error)
	HasLiked(ctx context.Context, photoID snowflake.ID, guestCode string) (bool, error)

	AddComment(ctx context.Context, comment *Comment) error
	Comments(ctx context.Context, photoID snowflake.ID) ([]Comment, error)
	DeleteComment(ctx context.Context, id snowflake.ID) error
}

var (
	ErrPhotoNotFound  = errors.New("photo_not_found")
	ErrInvalidUpload  = errors.New("invalid_upload")
	ErrPhotoLimit     = errors.New("photo_limit_reached")
	ErrVideoLimit     = errors.New("video_limit_reached")
	ErrVideoTooLong   = errors.New("video_too_long")
	ErrInvalidComment = errors.New("invalid_comment")
)
