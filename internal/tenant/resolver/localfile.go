package resolver

import (
	"sync"

	"github.com/celebreapp/celebre/internal/config"
	"github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// LocalConfig is the last-resort tenant source. It serves a static config
// read from an optional local file and reloads it when the file changes,
// so a single-tenant deployment works with no tenants table at all.
type LocalConfig struct {
	log *zap.Logger

	mu  sync.RWMutex
	cfg *domain.Config
}

func NewLocal(cfg *config.Config, log *zap.Logger) *LocalConfig {
	l := &LocalConfig{
		log: log.Named("tenant.local"),
		cfg: domain.DefaultConfig(cfg.DefaultTenantSlug),
	}
	if cfg.TenantFile == "" {
		return l
	}

	v := viper.New()
	v.SetConfigFile(cfg.TenantFile)
	if err := v.ReadInConfig(); err != nil {
		l.log.Warn("local tenant file unreadable, using defaults",
			zap.String("file", cfg.TenantFile), zap.Error(err))
		return l
	}
	l.apply(v, cfg.DefaultTenantSlug)

	v.OnConfigChange(func(e fsnotify.Event) {
		l.log.Info("local tenant file changed", zap.String("file", e.Name))
		l.apply(v, cfg.DefaultTenantSlug)
	})
	v.WatchConfig()

	return l
}

func (l *LocalConfig) apply(v *viper.Viper, defaultSlug string) {
	cfg := domain.DefaultConfig(defaultSlug)
	if slug := v.GetString("slug"); slug != "" {
		cfg.Slug = slug
	}
	if name := v.GetString("name"); name != "" {
		cfg.Name = name
	}
	if primary := v.GetString("theme.primaryColor"); primary != "" {
		cfg.Theme.PrimaryColor = primary
	}
	if secondary := v.GetString("theme.secondaryColor"); secondary != "" {
		cfg.Theme.SecondaryColor = secondary
	}
	if v.IsSet("limits.maxGuests") {
		cfg.Limits.MaxGuests = v.GetInt("limits.maxGuests")
	}
	if v.IsSet("limits.maxPhotos") {
		cfg.Limits.MaxPhotos = v.GetInt("limits.maxPhotos")
	}
	if payment := v.GetString("integrations.payment"); payment != "" {
		cfg.Integrations.Payment = payment
	}

	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
}

func (l *LocalConfig) Config() *domain.Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}
