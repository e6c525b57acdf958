package tax

import (
	"github.com/smallbiznis/invara/internal/tax/engine"
	"github.com/smallbiznis/invara/internal/tax/handler"
	"github.com/smallbiznis/invara/internal/tax/repository"
	"github.com/smallbiznis/invara/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(handler.NewRegistry),
	fx.Provide(engine.NewEngine),
	fx.Provide(service.NewResolver),
	fx.Provide(service.NewService),
)
