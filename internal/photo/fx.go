package photo

import (
	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/photo/repository"
	"github.com/celebreapp/celebre/internal/photo/service"
	"github.com/celebreapp/celebre/internal/repofactory"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("photo",
	fx.Provide(service.New),
	fx.Invoke(registerBuilder),
)

func registerBuilder(f *repofactory.Factory) {
	f.Register(repofactory.EntityPhoto, func(conn *gorm.DB, tenantID snowflake.ID) any {
		return repository.New(conn, tenantID)
	})
}
