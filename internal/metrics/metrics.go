// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values
const (
	ResultOK       = "ok"
	ResultRejected = "rejected" // business-rule failure
	ResultError    = "error"    // unexpected failure
)

// Metrics groups the collectors recorded by handlers and services. A nil
// *Metrics records nothing.
type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	CartMutations *prometheus.CounterVec
	Checkouts     *prometheus.CounterVec
	OrderTotal    prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront", Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront", Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront", Subsystem: "cart", Name: "mutations_total",
			Help: "Cart mutations by operation and result.",
		}, []string{"op", "result"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront", Subsystem: "checkout", Name: "attempts_total",
			Help: "Checkout attempts by result.",
		}, []string{"result"}),
		OrderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storefront", Subsystem: "checkout", Name: "order_total_minor_units",
			Help:    "Order totals in minor currency units.",
			Buckets: prometheus.ExponentialBuckets(100, 4, 8),
		}),
	}
	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.CartMutations, m.Checkouts, m.OrderTotal)
	return m
}

// CartMutation records one cart operation.
func (m *Metrics) CartMutation(op string, err error) {
	if m == nil {
		return
	}
	m.CartMutations.WithLabelValues(op, Result(err)).Inc()
}

// Checkout records one checkout attempt and, on success, its total.
func (m *Metrics) Checkout(total int64, err error) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(Result(err)).Inc()
	if err == nil {
		m.OrderTotal.Observe(float64(total))
	}
}
