package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, log *zap.Logger) error {
		if err := EnsureSchema(conn); err != nil {
			return err
		}
		log.Info("schema ensured")
		return nil
	}),
)
