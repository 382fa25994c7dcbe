package repository

import (
	"github.com/apiarycd/reposync/internal/progress"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "reposync"

type Metrics struct {
	fetchTotal      *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	fetchInProgress *prometheus.GaugeVec
	refreshErrors   *prometheus.CounterVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_total",
			Help:      "Finalized fetches by outcome and error category.",
		}, []string{"outcome", "category"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time from fetch start to finalization.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		fetchInProgress: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_in_progress",
			Help:      "Fetch progress per repository: 1 running, 0.5 paused for credentials, 0 idle.",
		}, []string{"repository"}),
		refreshErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "refresh_errors_total",
			Help:      "Refresh query failures that were not surfaced.",
		}, []string{"query"}),
	}

	if registerer != nil {
		registerer.MustRegister(m.fetchTotal, m.fetchDuration, m.fetchInProgress, m.refreshErrors)
	}

	return m
}

func (m *Metrics) observeFetch(outcome *FetchOutcome) {
	result, category := "success", "none"
	if outcome.Failed() {
		result, category = "failed", outcome.ErrorCode
	}

	m.fetchTotal.WithLabelValues(result, category).Inc()
	m.fetchDuration.Observe(outcome.CompletedAt.Sub(outcome.StartedAt).Seconds())
}

func (m *Metrics) setProgress(repository string, state progress.State) {
	value := 0.0
	switch state {
	case progress.StateRunning:
		value = 1
	case progress.StatePaused:
		value = 0.5
	case progress.StateIdle:
	}

	m.fetchInProgress.WithLabelValues(repository).Set(value)
}

func (m *Metrics) forget(repository string) {
	m.fetchInProgress.DeleteLabelValues(repository)
}

func (m *Metrics) refreshFailed(query string) {
	m.refreshErrors.WithLabelValues(query).Inc()
}
