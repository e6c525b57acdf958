package config

import (
	"github.com/smallbiznis/invara/pkg/db"
	"go.uber.org/fx"
)

// Module wires application and invoicing configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(func(cfg Config) db.Config { return cfg.DBConfig() }),
	fx.Provide(NewInvoicingConfigHolder),
)
