package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsProcessed *prometheus.CounterVec
	signalsDropped   *prometheus.CounterVec
	signalsServed    *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	lastConfidence   *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecoin_signals_processed_total",
				Help: "Total number of canonical signals written to a backend",
			},
			[]string{"backend", "symbol"},
		),
		signalsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecoin_signals_dropped_total",
				Help: "Total number of raw signals dropped before storage",
			},
			[]string{"reason"},
		),
		signalsServed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecoin_signals_served_total",
				Help: "Total number of signals returned to clients after gating",
			},
			[]string{"tier"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecoin_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastConfidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradecoin_last_confidence",
				Help: "Last recorded confidence score for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradecoin_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSignal records a canonical signal delivered to a backend.
func (r *Recorder) RecordSignal(backend, symbol string) {
	r.signalsProcessed.WithLabelValues(backend, symbol).Inc()
}

// RecordDrop records a raw signal that was rejected before storage.
func (r *Recorder) RecordDrop(reason string) {
	r.signalsDropped.WithLabelValues(reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordConfidence records the last confidence score seen for a symbol.
func (r *Recorder) RecordConfidence(symbol string, score float64) {
	r.lastConfidence.WithLabelValues(symbol).Set(score)
}

// RecordServed records signals returned to a client of the given tier.
func (r *Recorder) RecordServed(tier string, n int) {
	r.signalsServed.WithLabelValues(tier).Add(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
