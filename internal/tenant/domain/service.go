package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type UpdateRequest struct {
	Features *Features `json:"features,omitempty"`
	Limits   *Limits   `json:"limits,omitempty"`
	Theme    *Theme    `json:"theme,omitempty"`
	Backend  *string   `json:"backend,omitempty"`
	Payment  *string   `json:"payment,omitempty"`
}

// Service loads tenant rows and maps them into configs. Lookups that find
// nothing return (nil, nil); only unexpected backend failures return errors.
type Service interface {
	LoadBySlug(ctx context.Context, slug string) (*Config, error)
	LoadByDomain(ctx context.Context, domain string) (*Config, error)
	LoadByID(ctx context.Context, id snowflake.ID) (*Config, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Config, error)
	CheckLimit(cfg *Config, limit string, current int) LimitCheck
}

var (
	ErrInvalidTenant      = errors.New("invalid_tenant")
	ErrTenantNotFound     = errors.New("tenant_not_found")
	ErrUnsupportedBackend = errors.New("unsupported_backend")
)
