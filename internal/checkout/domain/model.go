// Package domain defines the checkout-link contract payment adapters meet.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Item is one line of a checkout. Price is in cents of BRL.
type Item struct {
	Quantity    int    `json:"quantity"`
	PriceCents  int64  `json:"price"`
	Description string `json:"description"`
}

// Customer identifies the payer on the provider's checkout page.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone_number,omitempty"`
}

// LinkRequest asks a provider for a hosted checkout page.
type LinkRequest struct {
	OrderRef    string
	Items       []Item
	RedirectURL string
	Customer    Customer
}

// Notice is the canonical payment notification parsed from a provider
// webhook.
type Notice struct {
	OrderRef    string
	Paid        bool
	AmountCents int64
	RawPayload  []byte
}

// Adapter is one payment provider.
type Adapter interface {
	CreateLink(ctx context.Context, req LinkRequest) (string, error)
	ParseWebhook(ctx context.Context, payload []byte) (*Notice, error)
}

// AdapterConfig carries per-tenant provider settings.
type AdapterConfig struct {
	TenantID snowflake.ID
	Config   map[string]any
}

// AdapterFactory builds adapters for one provider name.
type AdapterFactory interface {
	Provider() string
	NewAdapter(cfg AdapterConfig) (Adapter, error)
}

var (
	ErrProviderNotFound = errors.New("provider_not_found")
	ErrInvalidConfig    = errors.New("invalid_provider_config")
	ErrInvalidPayload   = errors.New("invalid_payload")
)
