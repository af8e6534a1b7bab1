package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/migration"
	"github.com/celebreapp/celebre/internal/observability"
	"github.com/celebreapp/celebre/internal/server"
	"github.com/celebreapp/celebre/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
