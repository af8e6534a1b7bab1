// Package domain contains the guest row and its repository contract.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Guest is a persisted invitee. Column names keep the Portuguese field
// names the public site and its exports were built around.
type Guest struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID `gorm:"column:tenant_id;not null;uniqueIndex:ux_guests_tenant_code" json:"tenant_id"`
	Code        string       `gorm:"column:codigo;type:text;not null;uniqueIndex:ux_guests_tenant_code" json:"codigo"`
	Name        string       `gorm:"column:nome;type:text;not null" json:"nome"`
	Partner     string       `gorm:"column:parceiro;type:text" json:"parceiro"`
	Email       string       `gorm:"column:email;type:text" json:"email"`
	Phone       string       `gorm:"column:telefone;type:text" json:"telefone"`
	Companions  int          `gorm:"column:acompanhantes;not null;default:0" json:"acompanhantes"`
	Confirmed   bool         `gorm:"column:confirmado;not null;default:false" json:"confirmado"`
	ConfirmedAt *time.Time   `gorm:"column:data_confirmacao" json:"data_confirmacao"`
	CheckedIn   bool         `gorm:"column:checkin;not null;default:false" json:"checkin"`
	CheckinTime *time.Time   `gorm:"column:horario_entrada" json:"horario_entrada"`
	Notes       string       `gorm:"column:observacoes;type:text" json:"observacoes"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Guest) TableName() string { return "guests" }

// Stats are headcounts for the admin dashboard. Each figure comes from its
// own count query so a slow or failed one never skews the others.
type Stats struct {
	Total      int64 `json:"total"`
	Confirmed  int64 `json:"confirmados"`
	Pending    int64 `json:"pendentes"`
	CheckedIn  int64 `json:"checkins"`
	Companions int64 `json:"acompanhantes"`
}

// Repository is a guest store bound to one tenant. The factory hands out
// one instance per tenant and backend.
type Repository interface {
	All(ctx context.Context) ([]Guest, error)
	ByID(ctx context.Context, id snowflake.ID) (*Guest, error)
	// ByCode matches codes case-insensitively.
	ByCode(ctx context.Context, code string) (*Guest, error)
	Insert(ctx context.Context, guest *Guest) error
	Update(ctx context.Context, guest *Guest) error
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, id snowflake.ID) error
	Count(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (Stats, error)
	CheckedIn(ctx context.Context) ([]Guest, error)
	// Checkin flips the check-in flag only when it is still unset and
	// reports whether this call won the write.
	Checkin(ctx context.Context, id snowflake.ID, at time.Time) (bool, error)
}

// Service wraps the repository with validation and tenant limits.
type Service interface {
	List(ctx context.Context) ([]Guest, error)
	Get(ctx context.Context, id snowflake.ID) (*Guest, error)
	GetByCode(ctx context.Context, code string) (*Guest, error)
	Create(ctx context.Context, guest *Guest) error
	Update(ctx context.Context, guest *Guest) error
	Delete(ctx context.Context, id snowflake.ID) error
	Stats(ctx context.Context) (Stats, error)
	CheckedIn(ctx context.Context) ([]Guest, error)
	RegisterCheckin(ctx context.Context, code string) (*Guest, error)
}

var (
	ErrGuestNotFound = errors.New("guest_not_found")
	ErrCodeExists    = errors.New("guest_code_exists")
	ErrInvalidGuest  = errors.New("invalid_guest")
	ErrGuestLimit    = errors.New("guest_limit_reached")
)

// AlreadyCheckedInError reports a check-in attempt for a guest who already
// entered, carrying the original entry time when known.
type AlreadyCheckedInError struct {
	At *time.Time
}

func (e *AlreadyCheckedInError) Error() string {
	if e.At == nil {
		return "guest_already_checked_in"
	}
	return fmt.Sprintf("guest_already_checked_in at %s", e.At.Format("15:04"))
}
