package rate

import (
	"github.com/smallbiznis/invara/internal/rate/repository"
	"github.com/smallbiznis/invara/internal/rate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewResolver),
	fx.Provide(service.NewService),
)
