// Package metrics exposes storefront counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/payment"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "italicita"

type Metrics struct {
	registry *prometheus.Registry

	cartOps            *prometheus.CounterVec
	cartTotal          prometheus.Histogram
	ordersPlaced       *prometheus.CounterVec
	submissionFailures prometheus.Counter
	paymentSessions    *prometheus.CounterVec
}

// New builds the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		cartTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "total_brl",
			Help:      "Cart total after each mutation, in BRL.",
			Buckets:   []float64{10, 25, 50, 75, 100, 150, 200, 300, 500},
		}),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders submitted by payment method.",
		}, []string{"payment_method"}),
		submissionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "submission_failures_total",
			Help:      "Order submissions that failed and left the cart intact.",
		}),
		paymentSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "sessions_total",
			Help:      "PIX sessions by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cartOps,
		m.cartTotal,
		m.ordersPlaced,
		m.submissionFailures,
		m.paymentSessions,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) CartOperation(op string, total decimal.Decimal) {
	m.cartOps.WithLabelValues(op).Inc()
	m.cartTotal.Observe(total.InexactFloat64())
}

func (m *Metrics) OrderPlaced(method domain.PaymentMethod) {
	m.ordersPlaced.WithLabelValues(string(method)).Inc()
}

func (m *Metrics) SubmissionFailed() {
	m.submissionFailures.Inc()
}

func (m *Metrics) PaymentSettled(outcome payment.SessionStatus) {
	m.paymentSessions.WithLabelValues(string(outcome)).Inc()
}
