// Package metrics exposes Prometheus instrumentation for the catalog.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pokedex"

// Metrics holds the catalog collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	pages         *prometheus.CounterVec
	records       *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	searches      *prometheus.CounterVec
	detailLookups *prometheus.CounterVec
	storeSize     prometheus.Gauge
}

// New creates a registry with the catalog collectors and the Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "List page requests by outcome.",
		}, []string{"outcome"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_fetches_total",
			Help:      "Per-entry record fetches by outcome.",
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_cache_lookups_total",
			Help:      "Record cache lookups on detail views by result.",
		}, []string{"result"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches by how they were answered.",
		}, []string{"source"}),
		detailLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_lookups_total",
			Help:      "Species and evolution chain lookups by stage and outcome.",
		}, []string{"stage", "outcome"}),
		storeSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_records",
			Help:      "Records currently in the collection store.",
		}),
	}
	reg.MustRegister(
		m.pages, m.records, m.cacheLookups, m.searches, m.detailLookups, m.storeSize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// PageFetched counts a list page request.
func (m *Metrics) PageFetched(ok bool) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(outcome(ok)).Inc()
}

// RecordFetched counts a per-entry record fetch.
func (m *Metrics) RecordFetched(ok bool) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(outcome(ok)).Inc()
}

// CacheLookup counts a record cache lookup.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Searched counts a search answered from source ("all", "local", "remote", "none").
func (m *Metrics) Searched(source string) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(source).Inc()
}

// DetailStage counts a species or evolution lookup.
func (m *Metrics) DetailStage(stage string, ok bool) {
	if m == nil {
		return
	}
	m.detailLookups.WithLabelValues(stage, outcome(ok)).Inc()
}

// SetStoreSize records the collection store length.
func (m *Metrics) SetStoreSize(n int) {
	if m == nil {
		return
	}
	m.storeSize.Set(float64(n))
}
