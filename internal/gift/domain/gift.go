// Package domain contains the gift registry rows and contracts.
package domain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusPaid      Status = "paid"
)

// Gift is one registry item. Prices are in cents of BRL.
type Gift struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID      snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Name          string       `gorm:"column:nome;type:text;not null" json:"nome"`
	Description   string       `gorm:"column:descricao;type:text" json:"descricao"`
	PriceCents    int64        `gorm:"column:preco;not null;default:0" json:"preco"`
	Category      string       `gorm:"column:categoria;type:text;index" json:"categoria"`
	ImageURL      string       `gorm:"column:imagem_url;type:text" json:"imagem_url"`
	Status        Status       `gorm:"column:status;type:text;not null;default:available" json:"status"`
	ReservedBy    string       `gorm:"column:reservado_por;type:text" json:"reservado_por"`
	ReservedEmail string       `gorm:"column:email_reserva;type:text" json:"email_reserva"`
	OrderRef      *string      `gorm:"column:order_ref;type:text;index" json:"order_ref,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Gift) TableName() string { return "gifts" }

// Stats summarize the registry for the couple.
type Stats struct {
	Total     int64 `json:"total"`
	Available int64 `json:"disponiveis"`
	Reserved  int64 `json:"reservados"`
	Paid      int64 `json:"pagos"`
	PaidCents int64 `json:"valor_recebido"`
}

// Reservation is what the public site needs to send the guest to pay.
type Reservation struct {
	Gift        *Gift  `json:"gift"`
	CheckoutURL string `json:"checkout_url"`
	OrderRef    string `json:"order_ref"`
}

// Repository is a gift store bound to one tenant.
type Repository interface {
	All(ctx context.Context) ([]Gift, error)
	ByCategory(ctx context.Context, category string) ([]Gift, error)
	ByID(ctx context.Context, id snowflake.ID) (*Gift, error)
	ByOrderRef(ctx context.Context, orderRef string) (*Gift, error)
	Insert(ctx context.Context, gift *Gift) error
	Update(ctx context.Context, gift *Gift) error
	Delete(ctx context.Context, id snowflake.ID) error
	Stats(ctx context.Context) (Stats, error)
	// Reserve moves an available gift to reserved and reports whether
	// this call won the gift.
	Reserve(ctx context.Context, id snowflake.ID, orderRef, name, email string) (bool, error)
	// Release undoes a reservation that never reached checkout.
	Release(ctx context.Context, id snowflake.ID) error
	MarkPaid(ctx context.Context, orderRef string) (bool, error)
}

type Service interface {
	List(ctx context.Context) ([]Gift, error)
	ByCategory(ctx context.Context, category string) ([]Gift, error)
	Get(ctx context.Context, id snowflake.ID) (*Gift, error)
	Create(ctx context.Context, gift *Gift) error
	Update(ctx context.Context, gift *Gift) error
	Delete(ctx context.Context, id snowflake.ID) error
	Stats(ctx context.Context) (Stats, error)
	Reserve(ctx context.Context, id snowflake.ID, name, email, phone string) (*Reservation, error)
	HandleWebhook(ctx context.Context, provider string, payload []byte) error
}

var (
	ErrGiftNotFound    = errors.New("gift_not_found")
	ErrGiftUnavailable = errors.New("gift_unavailable")
	ErrInvalidGift     = errors.New("invalid_gift")
	ErrInvalidOrderRef = errors.New("invalid_order_ref")
)

// FormatOrderRef builds the reference sent to the payment provider. The
// trailing entropy keeps retried reservations from colliding.
func FormatOrderRef(giftID snowflake.ID, entropy string) string {
	return fmt.Sprintf("gift_%d_%s", giftID, entropy)
}

// ParseOrderRef extracts the gift id from a provider order reference.
func ParseOrderRef(orderRef string) (snowflake.ID, error) {
	parts := strings.Split(orderRef, "_")
	if len(parts) != 3 || parts[0] != "gift" {
		return 0, ErrInvalidOrderRef
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidOrderRef
	}
	return snowflake.ID(id), nil
}
