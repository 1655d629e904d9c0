package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"smartdeals/internal/domain/entity"
)

type scanMetrics struct {
	runs         *prometheus.CounterVec
	candidates   *prometheus.CounterVec
	sourceErrors *prometheus.CounterVec
	duration     prometheus.Histogram
}

// WithMetrics регистрирует метрики сканера в reg.
func (w *Scanner) WithMetrics(reg prometheus.Registerer) *Scanner {
	m := &scanMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartdeals",
			Name:      "scan_runs_total",
			Help:      "Scan ticks by final status.",
		}, []string{"status"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartdeals",
			Name:      "scan_candidates_total",
			Help:      "Candidates processed by outcome.",
		}, []string{"outcome"}),
		sourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartdeals",
			Name:      "scan_source_errors_total",
			Help:      "Failed source fetches.",
		}, []string{"source"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "smartdeals",
			Name:      "scan_duration_seconds",
			Help:      "Scan tick duration.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}

	reg.MustRegister(m.runs, m.candidates, m.sourceErrors, m.duration)

	w.metrics = m

	return w
}

func (m *scanMetrics) observeRun(run entity.ScanRun, d time.Duration) {
	if m == nil {
		return
	}

	m.runs.WithLabelValues(string(run.Status)).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *scanMetrics) observeCandidate(o outcome) {
	if m == nil {
		return
	}

	m.candidates.WithLabelValues(string(o)).Inc()
}

func (m *scanMetrics) observeSourceError(source string) {
	if m == nil {
		return
	}

	m.sourceErrors.WithLabelValues(source).Inc()
}
