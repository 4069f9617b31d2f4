package mapbox

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BatchRequests tracks finished batches by outcome ("success" or an error kind)
	BatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocoder_batch_requests_total",
			Help: "Total number of batch geocoding requests by outcome",
		},
		[]string{"outcome"},
	)

	// BatchQueries tracks individual queries submitted in batches
	BatchQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocoder_batch_queries_total",
			Help: "Total number of queries submitted in batch geocoding requests",
		},
	)

	// BatchDuration tracks transport + decode time of dispatched batches
	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geocoder_batch_duration_seconds",
			Help:    "Duration of dispatched batch geocoding requests",
			Buckets: prometheus.DefBuckets,
		},
	)
)

const outcomeSuccess = "success"
