package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/handiism/hot100-history/internal/dataset"
)

const namespace = "hot100"

// Metrics holds the application collectors.
type Metrics struct {
	registry *prometheus.Registry

	lookups        *prometheus.CounterVec
	lookupDuration prometheus.Histogram
	exports        *prometheus.CounterVec
	refreshes      *prometheus.CounterVec
	datasetRows    prometheus.Gauge
	skippedRows    prometheus.Gauge
	loadedAt       prometheus.Gauge
}

// New creates and registers all collectors, plus the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Artist lookups by outcome.",
		}, []string{"outcome"}),
		lookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Time spent matching, aggregating and building a report.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Reports written, by format.",
		}, []string{"format"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_refreshes_total",
			Help:      "Dataset load attempts by result.",
		}, []string{"result"}),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Chart entries in the current dataset.",
		}),
		skippedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_skipped_rows",
			Help:      "Malformed rows left out of the current dataset.",
		}),
		loadedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_loaded_timestamp_seconds",
			Help:      "Unix time the current dataset was loaded.",
		}),
	}

	m.registry.MustRegister(
		m.lookups,
		m.lookupDuration,
		m.exports,
		m.refreshes,
		m.datasetRows,
		m.skippedRows,
		m.loadedAt,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveLookup records one lookup.
func (m *Metrics) ObserveLookup(outcome string, duration time.Duration) {
	m.lookups.WithLabelValues(outcome).Inc()
	m.lookupDuration.Observe(duration.Seconds())
}

// ObserveExport records one written report.
func (m *Metrics) ObserveExport(format string) {
	m.exports.WithLabelValues(format).Inc()
}

// ObserveRefresh records a dataset load attempt. It has the signature of
// dataset.RefresherOptions.OnRefresh.
func (m *Metrics) ObserveRefresh(table *dataset.Table, err error) {
	if err != nil {
		m.refreshes.WithLabelValues("error").Inc()
		return
	}
	m.refreshes.WithLabelValues("ok").Inc()
	m.datasetRows.Set(float64(table.Len()))
	m.skippedRows.Set(float64(table.Skipped))
	m.loadedAt.Set(float64(table.LoadedAt.Unix()))
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
