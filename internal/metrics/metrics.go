// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/paylink/internal/billing"
)

const namespace = "paylink"

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	billingsCreated prometheus.Counter
	admissions      *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
}

// New creates and registers all collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		billingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "billings_created_total",
			Help:      "Number of billings created.",
		}),
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_admissions_total",
			Help:      "Payment admission attempts by outcome.",
		}, []string{"outcome"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Duration of unary RPCs by procedure and code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}

	m.registry.MustRegister(
		m.billingsCreated,
		m.admissions,
		m.rpcDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAdmission implements billing.Observer.
func (m *Metrics) ObserveAdmission(outcome billing.Outcome) {
	m.admissions.WithLabelValues(string(outcome)).Inc()
}

// BillingCreated counts one new billing.
func (m *Metrics) BillingCreated() {
	m.billingsCreated.Inc()
}

// ObserveRPC records the duration of one call. code is "ok" or a Connect code name.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	m.rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var _ billing.Observer = (*Metrics)(nil)
