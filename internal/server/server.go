package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/invara/internal/config"
	"github.com/smallbiznis/invara/internal/customer"
	customerdomain "github.com/smallbiznis/invara/internal/customer/domain"
	"github.com/smallbiznis/invara/internal/invoice"
	invoicedomain "github.com/smallbiznis/invara/internal/invoice/domain"
	"github.com/smallbiznis/invara/internal/invoicetemplate"
	invoicetemplatedomain "github.com/smallbiznis/invara/internal/invoicetemplate/domain"
	"github.com/smallbiznis/invara/internal/lock"
	"github.com/smallbiznis/invara/internal/observability/metrics"
	"github.com/smallbiznis/invara/internal/rate"
	ratedomain "github.com/smallbiznis/invara/internal/rate/domain"
	"github.com/smallbiznis/invara/internal/tax"
	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	metrics.Module,
	lock.Module,
	customer.Module,
	rate.Module,
	tax.Module,
	invoicetemplate.Module,
	invoice.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.registerAPIRoutes() }),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(metrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine             *gin.Engine
	cfg                config.Config
	customerSvc        customerdomain.Service
	rateSvc            ratedomain.Service
	taxSvc             taxdomain.Service
	invoiceTemplateSvc invoicetemplatedomain.Service
	invoiceSvc         invoicedomain.Service
}

type ServerParams struct {
	fx.In

	Gin                *gin.Engine
	Cfg                config.Config
	CustomerSvc        customerdomain.Service
	RateSvc            ratedomain.Service
	TaxSvc             taxdomain.Service
	InvoiceTemplateSvc invoicetemplatedomain.Service
	InvoiceSvc         invoicedomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:             p.Gin,
		cfg:                p.Cfg,
		customerSvc:        p.CustomerSvc,
		rateSvc:            p.RateSvc,
		taxSvc:             p.TaxSvc,
		invoiceTemplateSvc: p.InvoiceTemplateSvc,
		invoiceSvc:         p.InvoiceSvc,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	customers := v1.Group("/customers")
	customers.POST("", s.CreateCustomer)
	customers.GET("", s.ListCustomers)
	customers.GET("/:id", s.GetCustomer)
	customers.PATCH("/:id", s.UpdateCustomer)

	rates := v1.Group("/rates")
	rates.POST("", s.CreateRate)
	rates.GET("", s.ListRates)
	rates.GET("/:id", s.GetRate)
	rates.PATCH("/:id", s.UpdateRate)
	rates.DELETE("/:id", s.DeleteRate)

	taxes := v1.Group("/tax_definitions")
	taxes.POST("", s.CreateTaxDefinition)
	taxes.GET("", s.ListTaxDefinitions)
	taxes.GET("/:id", s.GetTaxDefinition)
	taxes.PATCH("/:id", s.UpdateTaxDefinition)
	taxes.POST("/:id/disable", s.DisableTaxDefinition)

	templates := v1.Group("/invoice_templates")
	templates.POST("", s.CreateInvoiceTemplate)
	templates.GET("", s.ListInvoiceTemplates)
	templates.GET("/:id", s.GetInvoiceTemplate)
	templates.PATCH("/:id", s.UpdateInvoiceTemplate)

	invoices := v1.Group("/invoices")
	invoices.POST("/generate", s.GenerateInvoice)
	invoices.POST("", s.CreateInvoice)
	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoice)

	v1.POST("/invoice_numbers/preview", s.PreviewInvoiceNumber)
}
