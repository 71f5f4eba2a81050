// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes the instrumentation surface shared by the hat-trie
// packages. It starts in a no-op state so importing hattrie never forces a
// Prometheus dependency on a caller that does not want one; calling
// InitializePrometheusMetrics switches every metric created from then on
// (and every not-yet-resolved lazy metric) to a real Prometheus collector.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namePrefix = "hattrie_"

// CounterMeter is a monotonically increasing counter.
type CounterMeter interface {
	Add(int64)
}

// CounterVecMeter is a counter partitioned by label values.
type CounterVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a value that can move up or down.
type GaugeMeter interface {
	Add(int64)
}

// GaugeVecMeter is a gauge partitioned by label values.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// HistogramMeter records observations into buckets.
type HistogramMeter interface {
	Observe(int64)
}

// HistogramVecMeter is a histogram partitioned by label values.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// backend creates and caches the concrete meters backing the package-level
// functions below. There are two implementations: a no-op one (the
// default) and a Prometheus-backed one installed by
// InitializePrometheusMetrics.
type backend interface {
	counter(name string) CounterMeter
	counterVec(name string, labels []string) CounterVecMeter
	gauge(name string) GaugeMeter
	gaugeVec(name string, labels []string) GaugeVecMeter
	histogram(name string, buckets []float64) HistogramMeter
	histogramVec(name string, labels []string, buckets []float64) HistogramVecMeter
	httpHandler() http.Handler
}

var (
	mu      sync.Mutex
	metrics = defaultNoopMetrics()
)

// InitializePrometheusMetrics switches the package to a Prometheus-backed
// implementation registered against prometheus.DefaultRegisterer. It is
// idempotent-ish in spirit but, matching promauto's own behavior, calling
// it twice with metrics of the same name already created will panic on
// duplicate registration — call it once, early, the way a long-running
// process initializes its metrics exporter.
func InitializePrometheusMetrics() {
	mu.Lock()
	defer mu.Unlock()
	metrics = newPromMetrics()
}

// HTTPHandler returns the handler serving the current backend's metrics
// page (a 404 handler for the no-op backend, /metrics-shaped output for
// the Prometheus backend).
func HTTPHandler() http.Handler {
	mu.Lock()
	defer mu.Unlock()
	return metrics.httpHandler()
}

// Counter returns (creating if necessary) the named counter.
func Counter(name string) CounterMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.counter(name)
}

// CounterVec returns (creating if necessary) the named, label-partitioned counter.
func CounterVec(name string, labels []string) CounterVecMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.counterVec(name, labels)
}

// Gauge returns (creating if necessary) the named gauge.
func Gauge(name string) GaugeMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.gauge(name)
}

// GaugeVec returns (creating if necessary) the named, label-partitioned gauge.
func GaugeVec(name string, labels []string) GaugeVecMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.gaugeVec(name, labels)
}

// Histogram returns (creating if necessary) the named histogram.
func Histogram(name string, buckets []float64) HistogramMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.histogram(name, buckets)
}

// HistogramVec returns (creating if necessary) the named, label-partitioned histogram.
func HistogramVec(name string, labels []string, buckets []float64) HistogramVecMeter {
	mu.Lock()
	defer mu.Unlock()
	return metrics.histogramVec(name, labels, buckets)
}

// LazyLoadCounter defers resolving name to a concrete meter until the
// returned func is first called, so a package-level var can be declared
// before it is known whether the process will ever call
// InitializePrometheusMetrics.
func LazyLoadCounter(name string) func() CounterMeter {
	var once sync.Once
	var m CounterMeter
	return func() CounterMeter {
		once.Do(func() { m = Counter(name) })
		return m
	}
}

// LazyLoadCounterVec is the label-partitioned counterpart of LazyLoadCounter.
func LazyLoadCounterVec(name string, labels []string) func() CounterVecMeter {
	var once sync.Once
	var m CounterVecMeter
	return func() CounterVecMeter {
		once.Do(func() { m = CounterVec(name, labels) })
		return m
	}
}

// LazyLoadGauge is the gauge counterpart of LazyLoadCounter.
func LazyLoadGauge(name string) func() GaugeMeter {
	var once sync.Once
	var m GaugeMeter
	return func() GaugeMeter {
		once.Do(func() { m = Gauge(name) })
		return m
	}
}

// LazyLoadGaugeVec is the label-partitioned counterpart of LazyLoadGauge.
func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	var once sync.Once
	var m GaugeVecMeter
	return func() GaugeVecMeter {
		once.Do(func() { m = GaugeVec(name, labels) })
		return m
	}
}

// LazyLoadHistogram is the histogram counterpart of LazyLoadCounter.
func LazyLoadHistogram(name string, buckets []float64) func() HistogramMeter {
	var once sync.Once
	var m HistogramMeter
	return func() HistogramMeter {
		once.Do(func() { m = Histogram(name, buckets) })
		return m
	}
}

// LazyLoadHistogramVec is the label-partitioned counterpart of LazyLoadHistogram.
func LazyLoadHistogramVec(name string, labels []string, buckets []float64) func() HistogramVecMeter {
	var once sync.Once
	var m HistogramVecMeter
	return func() HistogramVecMeter {
		once.Do(func() { m = HistogramVec(name, labels, buckets) })
		return m
	}
}

// --- no-op backend ---

type noopMeters struct{}

func defaultNoopMetrics() backend { return noopBackend{} }

type noopBackend struct{}

func (noopBackend) counter(string) CounterMeter                                 { return noopMeters{} }
func (noopBackend) counterVec(string, []string) CounterVecMeter                 { return noopMeters{} }
func (noopBackend) gauge(string) GaugeMeter                                     { return noopMeters{} }
func (noopBackend) gaugeVec(string, []string) GaugeVecMeter                     { return noopMeters{} }
func (noopBackend) histogram(string, []float64) HistogramMeter                  { return noopMeters{} }
func (noopBackend) histogramVec(string, []string, []float64) HistogramVecMeter  { return noopMeters{} }
func (noopBackend) httpHandler() http.Handler                                   { return http.HandlerFunc(http.NotFound) }

func (noopMeters) Add(int64)                              {}
func (noopMeters) AddWithLabel(int64, map[string]string)  {}
func (noopMeters) Observe(int64)                          {}
func (noopMeters) ObserveWithLabels(int64, map[string]string) {}

// --- prometheus-backed backend ---

type promMetrics struct {
	mu         sync.Mutex
	counters   map[string]*promCountMeter
	countVecs  map[string]*promCountVecMeter
	gauges     map[string]*promGaugeMeter
	gaugeVecs  map[string]*promGaugeVecMeter
	hists      map[string]*promHistogramMeter
	histVecs   map[string]*promHistogramVecMeter
}

func newPromMetrics() *promMetrics {
	return &promMetrics{
		counters:  make(map[string]*promCountMeter),
		countVecs: make(map[string]*promCountVecMeter),
		gauges:    make(map[string]*promGaugeMeter),
		gaugeVecs: make(map[string]*promGaugeVecMeter),
		hists:     make(map[string]*promHistogramMeter),
		histVecs:  make(map[string]*promHistogramVecMeter),
	}
}

func (p *promMetrics) httpHandler() http.Handler {
	return promhttp.Handler()
}

type promCountMeter struct{ c prometheus.Counter }

func (m *promCountMeter) Add(v int64) { m.c.Add(float64(v)) }

func (p *promMetrics) counter(name string) CounterMeter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.counters[name]; ok {
		return m
	}
	m := &promCountMeter{c: promauto.NewCounter(prometheus.CounterOpts{Name: namePrefix + name})}
	p.counters[name] = m
	return m
}

type promCountVecMeter struct{ v *prometheus.CounterVec }

func (m *promCountVecMeter) AddWithLabel(val int64, labels map[string]string) {
	m.v.With(labels).Add(float64(val))
}

func (p *promMetrics) counterVec(name string, labels []string) CounterVecMeter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.countVecs[name]; ok {
		return m
	}
	m := &promCountVecMeter{v: promauto.NewCounterVec(prometheus.CounterOpts{Name: namePrefix + name}, labels)}
	p.countVecs[name] = m
	return m
}

type promGaugeMeter struct{ g prometheus.Gauge }

func (m *promGaugeMeter) Add(v int64) { m.g.Add(float64(v)) }

func (p *promMetrics) gauge(name string) GaugeMeter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.gauges[name]; ok {
		return m
	}
	m := &promGaugeMeter{g: promauto.NewGauge(prometheus.GaugeOpts{Name: namePrefix + name})}
	p.gauges[name] = m
	return m
}

type promGaugeVecMeter struct{ v *prometheus.GaugeVec }

func (m *promGaugeVecMeter) AddWithLabel(val int64, labels map[string]string) {
	m.v.With(labels).Add(float64(val))
}

func (p *promMetrics) gaugeVec(name string, labels []string) GaugeVecMeter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.gaugeVecs[name]; ok {
		return m
	}
	m := &promGaugeVecMeter{v: promauto.NewGaugeVec(prometheus.GaugeOpts{Name: namePrefix + name}, labels)}
	p.gaugeVecs[name] = m
	return m
}

type promHistogramMeter struct{ h prometheus.Histogram }

func (m *promHistogramMeter) Observe(v int64) { m.h.Observe(float64(v)) }

func (p *promMetrics) histogram(name string, buckets []float64) HistogramMeter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.hists[name]; ok {
		return m
	}
	m := &promHistogramMeter{h: promauto.NewHistogram(prometheus.HistogramOpts{Name: namePrefix + name, Buckets: buckets})}
	p.hists[name] = m
	return m
}

type promHistogramVecMeter struct{ v *prometheus.HistogramVec }

func (m *promHistogramVecMeter) ObserveWithLabels(val int64, labels map[string]string) {
	m.v.With(labels).Observe(float64(val))
}

func (p *promMetrics) histogramVec(name string, labels []string, buckets []float64) HistogramVecMeter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.histVecs[name]; ok {
		return m
	}
	m := &promHistogramVecMeter{v: promauto.NewHistogramVec(prometheus.HistogramOpts{Name: namePrefix + name, Buckets: buckets}, labels)}
	p.histVecs[name] = m
	return m
}
