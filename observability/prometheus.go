// Copyright 2026 The JazzPetri Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package observability

import (
	"errors"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics adapts a Prometheus registry to MetricsCollector.
//
// Metrics are created lazily on first use and registered on the supplied
// registerer. Names ending in "_total" are counters, every other name used
// with Inc, Add or Set is a gauge, and names used with Observe are
// histograms with the default buckets.
type PrometheusMetrics struct {
	mu         sync.Mutex
	registerer prometheus.Registerer
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// NewPrometheusMetrics creates a collector registering on reg.
// A nil reg selects prometheus.DefaultRegisterer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		registerer: reg,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// Inc increments the counter or gauge name by one.
func (p *PrometheusMetrics) Inc(name string) {
	p.Add(name, 1)
}

// Add adds value to the counter or gauge name.
// Negative values on counters are dropped.
func (p *PrometheusMetrics) Add(name string, value float64) {
	if isCounter(name) {
		if value < 0 {
			return
		}
		p.counter(name).Add(value)
		return
	}
	p.gauge(name).Add(value)
}

// Observe records value in the histogram name.
func (p *PrometheusMetrics) Observe(name string, value float64) {
	p.histogram(name).Observe(value)
}

// Set sets the gauge name to value.
func (p *PrometheusMetrics) Set(name string, value float64) {
	p.gauge(name).Set(value)
}

func isCounter(name string) bool {
	return strings.HasSuffix(name, "_total")
}

func help(name string) string {
	return "probcheck metric " + name
}

func (p *PrometheusMetrics) counter(name string) prometheus.Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.counters[name]; ok {
		return c
	}
	c := register(p.registerer, prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help(name)}))
	p.counters[name] = c
	return c
}

func (p *PrometheusMetrics) gauge(name string) prometheus.Gauge {
	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok := p.gauges[name]; ok {
		return g
	}
	g := register(p.registerer, prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help(name)}))
	p.gauges[name] = g
	return g
}

func (p *PrometheusMetrics) histogram(name string) prometheus.Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.histograms[name]; ok {
		return h
	}
	h := register(p.registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Help:    help(name),
		Buckets: prometheus.DefBuckets,
	}))
	p.histograms[name] = h
	return h
}

// register registers c, reusing an identical collector that is already
// registered (for example by another checker sharing the registry).
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		// Unregistrable metrics still count locally instead of failing the solve.
	}
	return c
}
