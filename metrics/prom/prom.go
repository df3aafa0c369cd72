// Package prom exports cache and cache-aside signals to Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/kvcache/cache"
	"github.com/IvanBrykalov/kvcache/cacheaside"
)

// Adapter implements cache.Metrics and cacheaside.Metrics.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	reg         prometheus.Registerer
	ns, sub     string
	constLabels prometheus.Labels

	hits      prometheus.Counter
	misses    prometheus.Counter
	evicts    prometheus.Counter
	storeErrs *prometheus.CounterVec
}

// New constructs and registers the adapter's collectors.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}
	a := &Adapter{
		reg:         reg,
		ns:          ns,
		sub:         sub,
		constLabels: constLabels,
		hits:        counter("hits_total", "Reads served from the cache"),
		misses:      counter("misses_total", "Reads that fell through to the store"),
		evicts:      counter("evictions_total", "Entries evicted for capacity"),
		storeErrs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "store_errors_total",
				Help:        "Failed backing-store calls by operation",
				ConstLabels: constLabels,
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.storeErrs)
	return a
}

// ObserveSize registers a gauge that reports size() at scrape time.
// Typically size is a closure over Coordinator.Stats or Cache.Len.
func (a *Adapter) ObserveSize(size func() int) {
	a.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   a.ns,
		Subsystem:   a.sub,
		Name:        "size_entries",
		Help:        "Number of resident entries",
		ConstLabels: a.constLabels,
	}, func() float64 { return float64(size()) }))
}

func (a *Adapter) Hit()  { a.hits.Inc() }
func (a *Adapter) Miss() { a.misses.Inc() }

func (a *Adapter) Evict() { a.evicts.Inc() }

// StoreError increments the store error counter for op.
func (a *Adapter) StoreError(op string) { a.storeErrs.WithLabelValues(op).Inc() }

var (
	_ cache.Metrics      = (*Adapter)(nil)
	_ cacheaside.Metrics = (*Adapter)(nil)
)
