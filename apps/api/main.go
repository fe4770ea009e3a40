package main

import (
	"github.com/ArthurHiago/CRM/internal/audit"
	"github.com/ArthurHiago/CRM/internal/config"
	"github.com/ArthurHiago/CRM/internal/customer"
	"github.com/ArthurHiago/CRM/internal/migration"
	"github.com/ArthurHiago/CRM/internal/observability"
	"github.com/ArthurHiago/CRM/internal/server"
	"github.com/ArthurHiago/CRM/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		audit.Module,
		customer.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterAPIRoutes()
		}),
		fx.Invoke(server.RunHTTP),
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
