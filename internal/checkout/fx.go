package checkout

import (
	"github.com/celebreapp/celebre/internal/checkout/adapters"
	"github.com/celebreapp/celebre/internal/checkout/adapters/infinitepay"
	"github.com/celebreapp/celebre/internal/checkout/adapters/stripe"
	"go.uber.org/fx"
)

var Module = fx.Module("checkout",
	fx.Provide(newRegistry),
)

func newRegistry() *adapters.Registry {
	return adapters.NewRegistry(
		infinitepay.NewFactory(),
		stripe.NewFactory(),
	)
}
