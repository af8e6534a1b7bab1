package tenant

import (
	"github.com/celebreapp/celebre/internal/tenant/repository"
	"github.com/celebreapp/celebre/internal/tenant/resolver"
	"github.com/celebreapp/celebre/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant",
	fx.Provide(
		repository.Provide,
		service.New,
		resolver.NewLocal,
		resolver.New,
	),
)
