package retriever

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RetrievalsTotal counts retrievals by the tier that produced the context.
	// Labels: tier (weakness, full_text, none)
	RetrievalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipevec",
			Subsystem: "retriever",
			Name:      "retrievals_total",
			Help:      "Total number of retrievals, by resolving tier",
		},
		[]string{"tier"},
	)

	// RetrievalDuration tracks end-to-end retrieval latency.
	RetrievalDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recipevec",
			Subsystem: "retriever",
			Name:      "duration_seconds",
			Help:      "Duration of retrievals in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)
)
