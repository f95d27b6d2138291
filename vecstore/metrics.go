package vecstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Documents is the number of documents in the most recently published store state.
	Documents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recipevec",
			Subsystem: "store",
			Name:      "documents",
			Help:      "Number of recipe documents in the store",
		},
	)

	// BuildDuration tracks parse+encode+index time for builds and rebuilds.
	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recipevec",
			Subsystem: "store",
			Name:      "build_duration_seconds",
			Help:      "Duration of store builds in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// LoadsTotal counts published states.
	// Labels: source (snapshot, build, rebuild)
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipevec",
			Subsystem: "store",
			Name:      "loads_total",
			Help:      "Total number of store states published, by source",
		},
		[]string{"source"},
	)

	// SearchesTotal counts index searches.
	// Labels: index (weakness, full_text)
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipevec",
			Subsystem: "store",
			Name:      "searches_total",
			Help:      "Total number of store searches, by index",
		},
		[]string{"index"},
	)
)
