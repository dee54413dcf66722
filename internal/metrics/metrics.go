// Package metrics exposes Prometheus instrumentation for simulations, the
// result cache and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Simulation sources.
const (
	SourceEngine = "engine"
	SourceCache  = "cache"
)

var (
	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relocate_simulations_total",
			Help: "Simulations served, by where the ranking came from",
		},
		[]string{"source"},
	)

	SimulationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relocate_simulation_duration_seconds",
			Help:    "Time to rank every candidate location for one household",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	LocationsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relocate_locations_scored_total",
			Help: "Candidate locations scored by the engine",
		},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relocate_cache_requests_total",
			Help: "Result cache lookups by outcome (hit, miss, error)",
		},
		[]string{"result"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relocate_store_errors_total",
			Help: "Failed run store operations",
		},
		[]string{"operation"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relocate_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relocate_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relocate_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

// ObserveSimulation records one engine ranking.
func ObserveSimulation(d time.Duration, scored int) {
	SimulationsTotal.WithLabelValues(SourceEngine).Inc()
	SimulationDuration.Observe(d.Seconds())
	LocationsScored.Add(float64(scored))
}
