// Package metrics provides Prometheus metrics for wikify.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchCyclesTotal counts completed fetch cycles by strategy and outcome.
	FetchCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikify",
			Name:      "fetch_cycles_total",
			Help:      "Total number of fetch cycles",
		},
		[]string{"strategy", "status"},
	)

	// DegradedTotal counts sub-calls that degraded to an empty result.
	DegradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikify",
			Name:      "degraded_total",
			Help:      "Total number of degraded category searches and article lookups",
		},
		[]string{"kind"},
	)

	// StaleGenerationsTotal counts fetch results discarded because a newer
	// generation had started.
	StaleGenerationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wikify",
			Name:      "stale_generations_total",
			Help:      "Total number of fetch results discarded as stale",
		},
	)

	// ExternalRequestDuration measures outbound API latency.
	ExternalRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wikify",
			Name:      "external_request_duration_seconds",
			Help:      "Duration of outbound API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)

	// CircuitBreakerState tracks the wiki API breaker (0 closed, 1 half-open, 2 open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "wikify",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 = closed, 1 = half-open, 2 = open)",
		},
		[]string{"name"},
	)

	// HTTPRequestsTotal counts inbound requests served by wikify serve.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikify",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"route", "code"},
	)
)
