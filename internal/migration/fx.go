package migration

import (
	"strings"

	"github.com/smallbiznis/invara/internal/config"
	customerdomain "github.com/smallbiznis/invara/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/invara/internal/invoice/domain"
	templatedomain "github.com/smallbiznis/invara/internal/invoicetemplate/domain"
	ratedomain "github.com/smallbiznis/invara/internal/rate/domain"
	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if strings.EqualFold(cfg.DBType, "postgres") {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// sqlite and mysql are dev/test environments; schema comes from
		// the model definitions there.
		return conn.AutoMigrate(
			&customerdomain.Customer{},
			&ratedomain.Rate{},
			&taxdomain.TaxDefinition{},
			&templatedomain.InvoiceTemplate{},
			&invoicedomain.Invoice{},
			&invoicedomain.InvoiceTaxLine{},
			&invoicedomain.InvoiceExpense{},
			&invoicedomain.InvoiceSequence{},
		)
	}),
)
