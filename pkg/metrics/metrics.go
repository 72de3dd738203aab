package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Duration of one full delivery pass.
	DeliveryRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "delivery_run_duration_seconds",
			Help:    "Duration of one scheduled delivery pass in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~400s
		},
	)

	// Per-user delivery outcomes within a pass.
	DeliveryOutcomeCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_outcome_count",
			Help: "Per-user delivery outcomes per pass",
		},
		[]string{"outcome"}, // outcome: sent, skipped, failed
	)

	// LLM generation latency per provider.
	GenerationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_latency_ms",
			Help:    "Newsletter generation latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"provider", "status"},
	)

	// Email transport latency.
	EmailSendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "email_send_latency_ms",
			Help:    "Email send latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(50, 2, 10),
		},
		[]string{"status"},
	)

	// Database query latency.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of slow database queries",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)
)

func RecordDeliveryOutcome(outcome string) {
	DeliveryOutcomeCount.WithLabelValues(outcome).Inc()
}

func RecordGenerationLatency(provider, status string, duration time.Duration) {
	GenerationLatency.WithLabelValues(provider, status).Observe(float64(duration.Milliseconds()))
}

func RecordEmailSendLatency(status string, duration time.Duration) {
	EmailSendLatency.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func IncrementSlowQuery(duration time.Duration) {
	SlowQueryCount.Inc()
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
