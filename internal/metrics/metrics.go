// Package metrics exposes Prometheus collectors for rate queries.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the query collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	queries       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fxreader",
			Name:      "queries_total",
			Help:      "Rate queries by final status and applied row filter.",
		}, []string{"status", "filter"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fxreader",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching rate tables from their source.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.queries, m.fetchDuration)
	return m
}

// ObserveQuery counts a completed query.
func (m *Metrics) ObserveQuery(status, filter string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(status, filter).Inc()
}

// ObserveFetch records how long a table fetch took.
func (m *Metrics) ObserveFetch(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.fetchDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
