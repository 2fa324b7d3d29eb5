package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests served.",
		},
		[]string{"method", "path", "status"},
	)

	BankRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bank_requests_total",
			Help: "Calls to the bank API by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	BankRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bank_request_duration_seconds",
			Help:    "Latency of bank API calls.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 4, 6, 10},
		},
		[]string{"endpoint"},
	)

	ApplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_applications_total",
			Help: "Credit application submissions by outcome.",
		},
		[]string{"outcome"},
	)

	StatusCallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_status_callbacks_total",
			Help: "Inbound bank status callbacks by result.",
		},
		[]string{"result"},
	)

	OrdersByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "credit_orders",
			Help: "Locally tracked credit applications per bank status.",
		},
		[]string{"status"},
	)
)

// Bank call outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeCached  = "cached"
	OutcomeNoData  = "no_data"
	OutcomeHTTP    = "http_error"
	OutcomeDecode  = "decode_error"
	OutcomeMissing = "missing_field"
)
