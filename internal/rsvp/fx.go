package rsvp

import (
	"github.com/celebreapp/celebre/internal/rsvp/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rsvp",
	fx.Provide(service.New),
)
