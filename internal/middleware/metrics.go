package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks request latency by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "path", "status"},
	)

	// OrdersAccepted counts orders that passed validation, by side and type.
	OrdersAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_orders_accepted_total",
			Help: "Total number of accepted orders by side and type",
		},
		[]string{"side", "type"},
	)

	// OrdersRejected counts orders rejected at the ingestion boundary.
	OrdersRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_orders_rejected_total",
			Help: "Total number of rejected orders by reason",
		},
		[]string{"reason"},
	)

	// TradesTotal counts executed trades.
	TradesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_trades_total",
			Help: "Total number of executed trades",
		},
	)

	// TradedVolume accumulates executed quantity across all trades.
	TradedVolume = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_traded_volume_total",
			Help: "Total executed quantity across all trades",
		},
	)

	// QueueDepth tracks the handoff queue depth.
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_queue_depth",
			Help: "Current number of orders waiting in the handoff queue",
		},
	)

	// SubmitDuration tracks how long a book submit holds the book lock.
	SubmitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_submit_duration_seconds",
			Help:    "Order book submit duration in seconds",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
	)
)

// PrometheusMiddleware records request metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Observe(duration)
	}
}
