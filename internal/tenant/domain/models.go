// Package domain contains the tenant row and the resolved tenant config.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// BackendKind selects the storage backend a tenant's repositories run on.
type BackendKind string

const (
	BackendPostgres BackendKind = "postgres"
	BackendMySQL    BackendKind = "mysql"
	BackendSQLite   BackendKind = "sqlite"
)

// Tenant is the persisted tenant row.
type Tenant struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Slug         string            `gorm:"type:text;not null;uniqueIndex:ux_tenants_slug" json:"slug"`
	Name         string            `gorm:"type:text;not null" json:"name"`
	CustomDomain *string           `gorm:"column:custom_domain;uniqueIndex:ux_tenants_domain" json:"custom_domain"`
	Features     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"features"`
	Limits       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"limits"`
	Theme        datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"theme"`
	Config       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"config"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

// Features gates route and UI availability, never data access.
type Features struct {
	Photos    bool `json:"photos"`
	Rsvp      bool `json:"rsvp"`
	Contracts bool `json:"contracts"`
	Checkin   bool `json:"checkin"`
	Pix       bool `json:"pix"`
}

// Limits carries the tenant's plan limits.
type Limits struct {
	MaxGuests int `json:"maxGuests"`
	MaxPhotos int `json:"maxPhotos"`
	MaxAdmins int `json:"maxAdmins"`
}

// Theme carries the tenant's visual customization.
type Theme struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	LogoURL        string `json:"logoUrl"`
	FaviconURL     string `json:"faviconUrl"`
}

// Integrations carries per-tenant integration settings.
type Integrations struct {
	Payment string `json:"payment,omitempty"`
}

// Config is the resolved, in-memory tenant configuration. It is replaced
// wholesale on tenant switch and never partially mutated.
type Config struct {
	ID           snowflake.ID `json:"id"`
	Slug         string       `json:"slug"`
	Name         string       `json:"name"`
	Features     Features     `json:"features"`
	Limits       Limits       `json:"limits"`
	Theme        Theme        `json:"theme"`
	Backend      BackendKind  `json:"backend"`
	Integrations Integrations `json:"integrations"`
}

// HasFeature reports whether the named feature is enabled.
func (c *Config) HasFeature(name string) bool {
	if c == nil {
		return false
	}
	switch name {
	case "photos":
		return c.Features.Photos
	case "rsvp":
		return c.Features.Rsvp
	case "contracts":
		return c.Features.Contracts
	case "checkin":
		return c.Features.Checkin
	case "pix":
		return c.Features.Pix
	default:
		return false
	}
}

// LimitCheck describes whether a tenant is within a plan limit.
type LimitCheck struct {
	Allowed bool `json:"allowed"`
	Max     int  `json:"max"`
	Current int  `json:"current"`
}

const (
	DefaultPrimaryColor   = "#8B5A5A"
	DefaultSecondaryColor = "#D4A574"
)

// DefaultConfig is the static local fallback used when no tenant can be
// loaded from the backend.
func DefaultConfig(slug string) *Config {
	return &Config{
		Slug: slug,
		Name: "Lista de Casamento",
		Features: Features{
			Photos:    true,
			Rsvp:      true,
			Contracts: true,
			Checkin:   true,
			Pix:       true,
		},
		Limits: Limits{
			MaxGuests: 500,
			MaxPhotos: 1000,
			MaxAdmins: 5,
		},
		Theme: Theme{
			PrimaryColor:   DefaultPrimaryColor,
			SecondaryColor: DefaultSecondaryColor,
		},
		Backend:      BackendPostgres,
		Integrations: Integrations{Payment: "pix"},
	}
}
