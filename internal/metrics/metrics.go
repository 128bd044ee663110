// Package metrics exposes the prometheus collectors used by the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Decision outcomes recorded for admin request updates.
const (
	OutcomeApproved              = "approved"
	OutcomeRejected              = "rejected"
	OutcomeInsufficientInventory = "insufficient_inventory"
	OutcomeInvalidState          = "invalid_state"
	OutcomeError                 = "error"
)

type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	decisions *prometheus.CounterVec
}

// New registers the collectors on reg. A nil registerer yields a Metrics
// whose methods are no-ops.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "request_decisions_total",
		Help: "Admin decisions on blood requests by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(requests, duration, decisions)
	return &Metrics{requests: requests, duration: duration, decisions: decisions}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveDecision counts an approve/reject attempt by outcome.
func (m *Metrics) ObserveDecision(outcome string) {
	if m == nil || m.decisions == nil {
		return
	}
	m.decisions.WithLabelValues(outcome).Inc()
}
