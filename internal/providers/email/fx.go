package email

import (
	"github.com/celebreapp/celebre/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig, newMailerFromConfig),
)

func NewFromConfig(cfg *config.Config) Provider {
	if cfg.Email.SMTPHost == "" {
		return &NoOpProvider{}
	}
	return NewSMTP(Config{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.SMTPFrom,
	})
}

func newMailerFromConfig(provider Provider, cfg *config.Config) *Mailer {
	return NewMailer(provider, cfg.Email.CoupleName)
}
