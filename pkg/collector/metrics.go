package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ssminv_fetch_duration_seconds",
			Help:    "Time taken to fetch all parameters from the backing store",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"source"}, // ssm, file, configmap
	)

	fetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssminv_fetch_total",
			Help: "Total number of parameter fetch attempts",
		},
		[]string{"source", "status"}, // status: success or error
	)
)
