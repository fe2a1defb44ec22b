package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	rowsScored    prometheus.Counter
	anomalies     *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	lastNAV       *prometheus.GaugeVec
	snapshotBuild prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		rowsScored: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fundpulse_rows_scored_total",
				Help: "Total number of NAV rows scored by the analysis pipeline",
			},
		),
		anomalies: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundpulse_anomalies_total",
				Help: "Total number of anomalies detected",
			},
			[]string{"severity", "direction"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastNAV: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fundpulse_last_nav",
				Help: "Most recent NAV per scheme",
			},
			[]string{"scheme_code"},
		),
		snapshotBuild: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fundpulse_snapshot_build_duration_seconds",
				Help:    "Duration of analysis snapshot builds in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordRowsScored records the number of rows processed by a build.
func (r *Recorder) RecordRowsScored(n int) {
	r.rowsScored.Add(float64(n))
}

// RecordAnomaly records a detected anomaly.
func (r *Recorder) RecordAnomaly(severity, direction string) {
	r.anomalies.WithLabelValues(severity, direction).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastNAV records the latest NAV for a scheme.
func (r *Recorder) RecordLastNAV(schemeCode string, nav float64) {
	r.lastNAV.WithLabelValues(schemeCode).Set(nav)
}

// RecordSnapshotBuild records a snapshot build duration in seconds.
func (r *Recorder) RecordSnapshotBuild(seconds float64) {
	r.snapshotBuild.Observe(seconds)
}
