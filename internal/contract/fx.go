package contract

import (
	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/contract/repository"
	"github.com/celebreapp/celebre/internal/contract/service"
	"github.com/celebreapp/celebre/internal/repofactory"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("contract",
	fx.Provide(service.New),
	fx.Invoke(registerBuilder),
)

func registerBuilder(f *repofactory.Factory) {
	f.Register(repofactory.EntityContract, func(conn *gorm.DB, tenantID snowflake.ID) any {
		return repository.New(conn, tenantID)
	})
}
