package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the extraction pipeline's prometheus metrics.
type Metrics struct {
	Runs           *prometheus.CounterVec
	LLMFailures    *prometheus.CounterVec
	RecordsEmitted *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec
	gatherer       prometheus.Gatherer
}

// New registers the metrics on reg. Passing a fresh prometheus.NewRegistry() keeps
// tests isolated from the default registry.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_runs_total",
			Help:      "Extraction runs by strategy and source type.",
		}, []string{"strategy", "source"}),
		LLMFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_failures_total",
			Help:      "Model extractions that degraded to an empty result, by failure stage.",
		}, []string{"stage"}),
		RecordsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_records_emitted_total",
			Help:      "Flight records returned, by strategy.",
		}, []string{"strategy"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time spent choosing and running an extractor.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		gatherer: reg,
	}
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(strategy, source string, records int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(strategy, source).Inc()
	m.RecordsEmitted.WithLabelValues(strategy).Add(float64(records))
	m.RunDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// ObserveLLMFailure records a degraded model extraction.
func (m *Metrics) ObserveLLMFailure(stage string) {
	if m == nil {
		return
	}
	m.LLMFailures.WithLabelValues(stage).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
