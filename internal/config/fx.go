package config

import (
	"github.com/ArthurHiago/CRM/pkg/db"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(
		Load,
		provideDBConfig,
		NewAPISettingsHolder,
	),
)

func provideDBConfig(cfg Config) db.Config {
	return cfg.DB
}
