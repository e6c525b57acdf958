package invoicetemplate

import (
	"github.com/smallbiznis/invara/internal/invoicetemplate/repository"
	"github.com/smallbiznis/invara/internal/invoicetemplate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoicetemplate.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewResolver),
	fx.Provide(service.NewService),
)
