package invoice

import (
	"github.com/smallbiznis/invara/internal/invoice/render"
	"github.com/smallbiznis/invara/internal/invoice/repository"
	"github.com/smallbiznis/invara/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(render.NewRenderer),
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
