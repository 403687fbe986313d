// Package metrics holds the Prometheus collectors for search traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelchat_search_requests_total",
			Help: "Total number of search queries by kind",
		},
		[]string{"kind"},
	)

	SearchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelchat_search_failures_total",
			Help: "Total number of failed search queries by kind",
		},
		[]string{"kind"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travelchat_search_duration_seconds",
			Help:    "Duration of search queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelchat_upstream_requests_total",
			Help: "Requests to upstream APIs by service and HTTP status",
		},
		[]string{"service", "status"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travelchat_cache_hits_total",
			Help: "Search results served from the cache",
		},
	)
)
