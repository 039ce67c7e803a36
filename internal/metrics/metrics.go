package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application's prometheus collectors.
type Metrics struct {
	// HTTP requests by method, route pattern and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP latency by method and route pattern.
	HTTPRequestDuration *prometheus.HistogramVec

	// Ticket operations by operation (purchase, cancel) and outcome
	// (success, conflict, not_found, forbidden, error).
	TicketOperationsTotal *prometheus.CounterVec

	// Event writes by operation (create, update, delete) and outcome.
	EventWritesTotal *prometheus.CounterVec
}

// New creates Metrics registered on the default registerer.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		TicketOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticket_operations_total",
				Help: "Ticket purchases and cancellations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		EventWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_writes_total",
				Help: "Event create, update and delete attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.TicketOperationsTotal,
		m.EventWritesTotal,
	)

	return m
}
