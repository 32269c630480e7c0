package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssminv_http_requests_total",
			Help: "Total HTTP API requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ssminv_http_request_duration_seconds",
			Help:    "HTTP API request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	rateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ssminv_http_rate_limit_rejections_total",
			Help: "Total HTTP API requests rejected by the rate limiter.",
		},
	)
)
