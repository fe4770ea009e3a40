package audit

import (
	"github.com/ArthurHiago/CRM/internal/audit/repository"
	"github.com/ArthurHiago/CRM/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
