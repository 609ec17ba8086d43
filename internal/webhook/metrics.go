package webhook

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nickustinov/homebar/internal/resolver"
)

// Metrics holds the Prometheus collectors served on /metrics. Each Metrics
// owns its registry so tests and multiple servers never collide.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	verdictsTotal   *prometheus.CounterVec
}

// NewMetrics creates a registry with request, verdict and runtime metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "homebar_webhook_requests_total",
			Help: "Total webhook requests by HTTP status code",
		}, []string{"status"}),
		requestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "homebar_webhook_request_duration_seconds",
			Help:    "Webhook request latency",
			Buckets: prometheus.DefBuckets,
		}),
		verdictsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "homebar_resolve_verdicts_total",
			Help: "Target resolutions by verdict",
		}, []string{"verdict"}),
	}
}

// ObserveVerdict counts one resolution. Pass it to Engine.SetVerdictObserver.
func (m *Metrics) ObserveVerdict(kind resolver.Kind) {
	m.verdictsTotal.WithLabelValues(kind.String()).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeRequest(status string, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(status).Inc()
	m.requestDuration.Observe(elapsed.Seconds())
}
