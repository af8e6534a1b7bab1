// Package domain contains the vendor contract row and its contracts.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Contract is a vendor agreement tracked by the couple. Amounts are in
// cents of BRL.
type Contract struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Responsible string       `gorm:"column:responsavel;type:text;not null" json:"responsavel"`
	Company     string       `gorm:"column:empresa;type:text;not null" json:"empresa"`
	Contact     string       `gorm:"column:contato;type:text" json:"contato"`
	ValueCents  int64        `gorm:"column:valor;not null;default:0" json:"valor"`
	PaidCents   int64        `gorm:"column:pago;not null;default:0" json:"pago"`
	Notes       string       `gorm:"column:observacoes;type:text" json:"observacoes"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Contract) TableName() string { return "contracts" }

// RemainingCents is the open balance. It is always derived, never stored.
func (c *Contract) RemainingCents() int64 { return c.ValueCents - c.PaidCents }

// Summary totals the ledger for the admin dashboard.
type Summary struct {
	Count          int64 `json:"count"`
	TotalCents     int64 `json:"total"`
	PaidCents      int64 `json:"pago"`
	RemainingCents int64 `json:"restante"`
}

// Repository is a contract store bound to one tenant.
type Repository interface {
	All(ctx context.Context) ([]Contract, error)
	ByID(ctx context.Context, id snowflake.ID) (*Contract, error)
	Insert(ctx context.Context, contract *Contract) error
	Update(ctx context.Context, contract *Contract) error
	Delete(ctx context.Context, id snowflake.ID) error
	Summary(ctx context.Context) (Summary, error)
}

type Service interface {
	List(ctx context.Context) ([]Contract, error)
	Get(ctx context.Context, id snowflake.ID) (*Contract, error)
	Create(ctx context.Context, contract *Contract) error
	Update(ctx context.Context, contract *Contract) error
	Delete(ctx context.Context, id snowflake.ID) error
	Summary(ctx context.Context) (Summary, error)
}

var (
	ErrContractNotFound = errors.New("contract_not_found")
	ErrInvalidContract  = errors.New("invalid_contract")
)
