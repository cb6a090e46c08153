package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	DisputesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "disputes_created_total",
			Help: "Total disputes opened",
		},
	)
	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispute_transitions_total",
			Help: "Dispute status transitions by outcome",
		},
		[]string{"target", "outcome"}, // outcome: ok|invalid|unauthorized|stale
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(DisputesCreated)
	prometheus.MustRegister(TransitionsTotal)
	prometheus.MustRegister(WorkerQueueDepth)
}
