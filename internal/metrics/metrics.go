// Package metrics exposes Prometheus instrumentation for route planning.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels for RouteRequests.
const (
	ResultFound   = "found"
	ResultNoPath  = "no_path"
	ResultInvalid = "invalid"
)

// Outcome labels for CacheLookups.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// RouteRequests counts planned routes by result.
	RouteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "robotplanner_route_requests_total",
		Help: "Total route requests by result",
	}, []string{"result"})

	// CacheLookups counts route cache lookups by outcome.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "robotplanner_route_cache_total",
		Help: "Total route cache lookups by outcome",
	}, []string{"outcome"})

	// SearchDuration tracks time spent inside A*.
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "robotplanner_search_duration_seconds",
		Help:    "A* search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 16), // 10µs to ~0.3s
	})

	// ExpandedCells tracks cells taken off the frontier per search.
	ExpandedCells = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "robotplanner_search_expanded_cells",
		Help:    "Cells expanded per A* search",
		Buckets: prometheus.ExponentialBuckets(1, 2, 16),
	})

	// Connections is the number of open websocket clients.
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "robotplanner_websocket_connections",
		Help: "Open websocket connections",
	})
)

// ObserveSearch records one finished search.
func ObserveSearch(elapsed time.Duration, expanded int) {
	SearchDuration.Observe(elapsed.Seconds())
	ExpandedCells.Observe(float64(expanded))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
