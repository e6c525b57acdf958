package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// HTTPMetrics tracks request volume and latency per route.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// GenerationMetrics tracks invoice generation outcomes.
type GenerationMetrics struct {
	generatedTotal *prometheus.CounterVec
	duration       *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{m.requestsTotal, m.requestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func NewGenerationMetrics(reg prometheus.Registerer) (*GenerationMetrics, error) {
	m := &GenerationMetrics{
		generatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invoices_generated_total",
			Help: "Invoice generation attempts by invoice type and outcome.",
		}, []string{"invoice_type", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invoice_generation_duration_seconds",
			Help:    "Invoice generation pipeline latency by invoice type.",
			Buckets: prometheus.DefBuckets,
		}, []string{"invoice_type"}),
	}

	for _, c := range []prometheus.Collector{m.generatedTotal, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one generation attempt.
func (m *GenerationMetrics) Observe(invoiceType string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.generatedTotal.WithLabelValues(invoiceType, outcome).Inc()
	m.duration.WithLabelValues(invoiceType).Observe(elapsed.Seconds())
}

// GinMiddleware instruments every request. The route template is used as
// the label, not the raw path, to keep cardinality bounded.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

var Module = fx.Module("observability.metrics",
	fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewGenerationMetrics),
)
