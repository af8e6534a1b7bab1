package repofactory

import "go.uber.org/fx"

var Module = fx.Module("repofactory",
	fx.Provide(New),
)
