// internal/app/system/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Logins counts login attempts by outcome ("success" or "failure").
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atrium",
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	// Searches counts search requests by backend ("memory" or "qdrant").
	Searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atrium",
		Name:      "searches_total",
		Help:      "Search requests by backend.",
	}, []string{"backend"})

	// SearchDuration observes end-to-end search latency in seconds.
	SearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "atrium",
		Name:      "search_duration_seconds",
		Help:      "Search latency by backend.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend"})
)
