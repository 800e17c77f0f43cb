// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoflex_http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "autoflex_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// Mutations counts ledger and catalog writes by entity and operation.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoflex_inventory_mutations_total",
		Help: "Material and product create/update/delete operations.",
	}, []string{"entity", "op"})

	// SuggestionRuns counts feasibility computations.
	SuggestionRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autoflex_suggestion_computations_total",
		Help: "Production suggestion computations served.",
	})

	// ReportRuns counts generated production reports.
	ReportRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autoflex_reports_generated_total",
		Help: "Production reports generated by the scheduler or on demand.",
	})
)
