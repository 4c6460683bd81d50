package httpapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	generations     *prometheus.CounterVec
}

// NewMetrics registers the server's collectors on the default registry.
// Call at most once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testsmith_http_requests_total",
				Help: "Total HTTP requests by method, endpoint, and status code",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "testsmith_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds by method and endpoint",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		generations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testsmith_generations_total",
				Help: "Test generations by test type, retrieval mode, and outcome",
			},
			[]string{"test_type", "rag", "outcome"},
		),
	}
}

// Middleware records per-request metrics. Route templates (c.Path) are used
// as the endpoint label to keep cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "/"
			}
			method := c.Request().Method

			m.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(c.Response().Status)).Inc()
			m.requestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordGeneration counts one generation attempt.
func (m *Metrics) RecordGeneration(testType string, rag bool, outcome string) {
	m.generations.WithLabelValues(testType, strconv.FormatBool(rag), outcome).Inc()
}
