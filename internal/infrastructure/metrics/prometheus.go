package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"balance_benchmark/internal/domain/entity"
)

const namespace = "benchmark"

// Observer records per-request measurements on its own registry, so tests and
// repeated runs never collide with the global default registry.
type Observer struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	skipped  *prometheus.CounterVec
}

// NewObserver creates an Observer with freshly registered collectors.
func NewObserver() *Observer {
	o := &Observer{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of provider balance requests, retries included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"provider", "chain", "outcome"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_errors_total",
			Help:      "Provider requests that failed after the retry policy, by error kind.",
		}, []string{"provider", "kind"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_requests_total",
			Help:      "Requests not sent because the address is not valid for the chain.",
		}, []string{"provider", "chain"}),
	}
	o.registry.MustRegister(o.duration, o.errors, o.skipped)
	return o
}

// ObserveRequest implements port.MetricsObserver.
func (o *Observer) ObserveRequest(provider string, chain entity.ChainID, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		o.errors.WithLabelValues(provider, entity.KindName(err)).Inc()
	}
	o.duration.WithLabelValues(provider, chain.String(), outcome).Observe(elapsed.Seconds())
}

// ObserveSkip implements port.MetricsObserver.
func (o *Observer) ObserveSkip(provider string, chain entity.ChainID) {
	o.skipped.WithLabelValues(provider, chain.String()).Inc()
}

// Registry exposes the underlying registry, e.g. for gathering in tests.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}
