package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	generations  *prometheus.CounterVec
	duration     prometheus.Histogram
	skippedParts prometheus.Counter
	boards       prometheus.Counter
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
}

// newMetrics registers the service collectors on reg.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cutlist_generations_total",
			Help: "Cut list generation requests by outcome.",
		}, []string{"outcome"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cutlist_generation_duration_seconds",
			Help:    "Time spent running the optimizer.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		skippedParts: f.NewCounter(prometheus.CounterOpts{
			Name: "cutlist_skipped_parts_total",
			Help: "Parts that did not fit on an empty board.",
		}),
		boards: f.NewCounter(prometheus.CounterOpts{
			Name: "cutlist_boards_total",
			Help: "Boards used across all generated cut lists.",
		}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "cutlist_cache_hits_total",
			Help: "Generation requests served from the result cache.",
		}),
		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "cutlist_cache_misses_total",
			Help: "Generation requests not found in the result cache.",
		}),
	}
}
