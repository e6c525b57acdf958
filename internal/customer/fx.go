package customer

import (
	"github.com/smallbiznis/invara/internal/customer/repository"
	"github.com/smallbiznis/invara/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
