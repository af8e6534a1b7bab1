package guest

import (
	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/guest/repository"
	"github.com/celebreapp/celebre/internal/guest/service"
	"github.com/celebreapp/celebre/internal/repofactory"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("guest",
	fx.Provide(service.New),
	fx.Invoke(registerBuilder),
)

func registerBuilder(f *repofactory.Factory) {
	f.Register(repofactory.EntityGuest, func(conn *gorm.DB, tenantID snowflake.ID) any {
		return repository.New(conn, tenantID)
	})
}
