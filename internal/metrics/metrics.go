// Package metrics exposes pipeline counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Day outcomes
const (
	OutcomeProcessed = "processed"
	OutcomeMissed    = "missed"
	OutcomeFailed    = "failed"
)

// Manager owns the almanac's collectors and the registry they live on.
type Manager struct {
	registry *prometheus.Registry

	days            *prometheus.CounterVec
	readings        prometheus.Counter
	rowsInserted    prometheus.Counter
	updateDuration  prometheus.Histogram
	fetchDuration   prometheus.Histogram
	lastSaveUnix    prometheus.Gauge
	missedDaysTotal prometheus.Gauge
}

// Option configures a Manager
type Option func(*Manager)

// WithRegistry registers the collectors on r instead of a fresh registry
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		m.registry = r
	}
}

// NewManager creates the collectors. Nil-safe recording methods let callers
// hold a nil *Manager when metrics are disabled.
func NewManager(opts ...Option) *Manager {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(m.registry)
	m.days = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lake_almanac",
		Name:      "days_total",
		Help:      "Days handled by the pipeline, by outcome",
	}, []string{"outcome"})
	m.readings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "lake_almanac",
		Name:      "readings_total",
		Help:      "Temperature readings folded into the almanac",
	})
	m.rowsInserted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "lake_almanac",
		Name:      "database_rows_inserted_total",
		Help:      "Rows written to lake_temperature_readings",
	})
	m.updateDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lake_almanac",
		Name:      "update_duration_seconds",
		Help:      "Time spent folding one day into the almanac",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lake_almanac",
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching one day of sensor data",
		Buckets:   prometheus.DefBuckets,
	})
	m.lastSaveUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lake_almanac",
		Name:      "last_save_timestamp_seconds",
		Help:      "Unix time the almanac was last saved",
	})
	m.missedDaysTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lake_almanac",
		Name:      "missed_days",
		Help:      "Days currently recorded as missed in the almanac metadata",
	})
	return m
}

// Registry returns the registry backing the collectors
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Day counts one day with the given outcome
func (m *Manager) Day(outcome string) {
	if m == nil {
		return
	}
	m.days.WithLabelValues(outcome).Inc()
}

// Readings counts readings folded into the almanac
func (m *Manager) Readings(n int) {
	if m == nil {
		return
	}
	m.readings.Add(float64(n))
}

// RowsInserted counts rows written to the readings table
func (m *Manager) RowsInserted(n int) {
	if m == nil {
		return
	}
	m.rowsInserted.Add(float64(n))
}

// ObserveUpdate records how long an almanac update took
func (m *Manager) ObserveUpdate(d time.Duration) {
	if m == nil {
		return
	}
	m.updateDuration.Observe(d.Seconds())
}

// ObserveFetch records how long a day fetch took
func (m *Manager) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(d.Seconds())
}

// Saved records a successful save and the resulting missed-day count
func (m *Manager) Saved(at time.Time, missedDays int) {
	if m == nil {
		return
	}
	m.lastSaveUnix.Set(float64(at.Unix()))
	m.missedDaysTotal.Set(float64(missedDays))
}
