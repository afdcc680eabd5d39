package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total HTTP requests processed, by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	importRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_import_rows_total",
			Help: "Import rows processed, by outcome",
		},
		[]string{"outcome"},
	)
)

// Metrics records request counts and latency per route
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordImportOutcomes feeds the import row counters after a batch finishes
func RecordImportOutcomes(created, existing, failed int) {
	importRowsTotal.WithLabelValues("created").Add(float64(created))
	importRowsTotal.WithLabelValues("existing").Add(float64(existing))
	importRowsTotal.WithLabelValues("error").Add(float64(failed))
}
