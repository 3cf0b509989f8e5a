// Package monitoring exposes business and HTTP metrics in the Prometheus format.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"caterer/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "caterer"

// Metrics owns a private registry so tests can create as many as they need
type Metrics struct {
	registry          *prometheus.Registry
	generations       *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec
	invoicesSaved     *prometheus.CounterVec
	payments          *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	startTime         time.Time
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "menu_generations_total",
				Help:      "Menu generation calls by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		generationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "menu_generation_duration_seconds",
				Help:      "Time spent waiting for the text generation provider",
				Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s to 32s
			},
			[]string{"kind"},
		),
		invoicesSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invoices_saved_total",
				Help:      "Invoice saves by outcome (created or updated)",
			},
			[]string{"outcome"},
		),
		payments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_total",
				Help:      "Payment mutations by operation and resulting settlement status",
			},
			[]string{"operation", "status"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		m.generations,
		m.generationLatency,
		m.invoicesSaved,
		m.payments,
		m.httpRequests,
		m.httpDuration,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Seconds since the process started",
		}, func() float64 { return time.Since(m.startTime).Seconds() }),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing the metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// MenuGenerated records one generation call
func (m *Metrics) MenuGenerated(kind, outcome string, elapsed time.Duration) {
	m.generations.WithLabelValues(kind, outcome).Inc()
	m.generationLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// InvoiceSaved records an invoice create or update
func (m *Metrics) InvoiceSaved(outcome string) {
	m.invoicesSaved.WithLabelValues(outcome).Inc()
}

// PaymentRecorded records a payment mutation
func (m *Metrics) PaymentRecorded(operation string, status models.SettlementStatus) {
	m.payments.WithLabelValues(operation, string(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware counts requests per matched route
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Router returns a standalone router serving the metrics at path
func (m *Metrics) Router(path string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET(path, gin.WrapH(m.Handler()))
	return router
}
