package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ricepro_http_requests_total",
		Help: "Pages and actions served, by route template and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ricepro_http_request_duration_seconds",
		Help:    "Time spent serving pages and actions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	BackendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ricepro_backend_requests_total",
		Help: "Calls made to the rice backend, by resource and status (0 for transport errors).",
	}, []string{"resource", "status"})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ricepro_backend_request_duration_seconds",
		Help:    "Latency of calls to the rice backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})

	SessionEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ricepro_session_events_total",
		Help: "Sign-in and sign-out transitions.",
	}, []string{"kind"})

	StaleResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ricepro_stale_results_discarded_total",
		Help: "Page loads whose result was superseded by a newer load.",
	}, []string{"page"})

	KeepAliveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ricepro_keepalive_pings_total",
		Help: "Backend keep-alive pings, by outcome.",
	}, []string{"outcome"})
)
