package app

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "globe",
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching states and relations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status_code"})

	fetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "globe",
		Name:      "fetch_failures_total",
		Help:      "Fetches which failed and left the previous collection in place.",
	}, []string{"source"})

	staleResponses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "globe",
		Name:      "stale_relation_responses_total",
		Help:      "Relation responses discarded because a newer request had already been applied.",
	})

	websocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "globe",
		Name:      "websocket_clients",
		Help:      "Renderers currently connected to the view websocket.",
	})

	// RequestDuration instruments the HTTP API.
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "globe",
		Name:      "request_duration_seconds",
		Help:      "Time spent serving HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status_code", "ws"})
)

func init() {
	prometheus.MustRegister(fetchDuration)
	prometheus.MustRegister(fetchFailures)
	prometheus.MustRegister(staleResponses)
	prometheus.MustRegister(websocketClients)
	prometheus.MustRegister(RequestDuration)
}

// RegisterInstrumentationRoutes exposes the collected metrics, so that
// prometheus can scrape them.
func RegisterInstrumentationRoutes(router *mux.Router) {
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
}
