package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inventoryBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ssminv_inventory_build_duration_seconds",
			Help:    "Time taken to fold parameters into a grouped inventory",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	parametersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssminv_parameters_total",
			Help: "Total number of parameters processed by the inventory builder",
		},
		[]string{"result"}, // host, shared or skipped
	)

	inventoryHosts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ssminv_inventory_hosts",
			Help: "Number of hosts in the last built inventory",
		},
	)
)
