// README: Prometheus collectors for HTTP traffic, itinerary generation and shell sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tripgenie"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// GenerationTotal counts planner calls by outcome: ok, invalid, failed.
	GenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "itinerary",
			Name:      "generation_total",
			Help:      "Total number of itinerary generations",
		},
		[]string{"mode", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "itinerary",
			Name:      "generation_duration_seconds",
			Help:      "Itinerary generation duration in seconds",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"mode"},
	)

	SourcesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "itinerary",
			Name:      "sources_returned",
			Help:      "Number of grounding sources attached to a successful itinerary",
			Buckets:   []float64{0, 1, 2, 5, 10, 20},
		},
	)

	ShellTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shell",
			Name:      "transitions_total",
			Help:      "Shell state transitions by target state",
		},
		[]string{"to"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client limiter",
		},
	)
)
