package customer

import (
	"github.com/ArthurHiago/CRM/internal/customer/repository"
	"github.com/ArthurHiago/CRM/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
