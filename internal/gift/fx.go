package gift

import (
	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/gift/repository"
	"github.com/celebreapp/celebre/internal/gift/service"
	"github.com/celebreapp/celebre/internal/repofactory"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("gift",
	fx.Provide(service.New),
	fx.Invoke(registerBuilder),
)

func registerBuilder(f *repofactory.Factory) {
	f.Register(repofactory.EntityGift, func(conn *gorm.DB, tenantID snowflake.ID) any {
		return repository.New(conn, tenantID)
	})
}
