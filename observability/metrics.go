package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the Prometheus collectors exercised by transport during
// dispatch. A zero-value Metrics is unusable; build one
// with NewMetrics and register it with a prometheus.Registerer.
type Metrics struct {
	DispatchedEvents  prometheus.Counter
	DispatchLatency   prometheus.Histogram
	PatchesEmitted    prometheus.Counter
	RegistrySize      prometheus.Gauge
	RegistryEvictions prometheus.Counter
	UnknownComponent  prometheus.Counter
	FullReloads       prometheus.Counter
	RateLimited       prometheus.Counter
}

// NewMetrics constructs the collector set under the given namespace, e.g.
// "lively".
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		DispatchedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dispatched_total",
			Help:      "Number of component events dispatched to handlers.",
		}),
		DispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_dispatch_seconds",
			Help:      "Latency of a single component event dispatch, handler plus diff.",
			Buckets:   prometheus.DefBuckets,
		}),
		PatchesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "patches_emitted_total",
			Help:      "Number of VDOM patches streamed to clients.",
		}),
		RegistrySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_components",
			Help:      "Current number of components held in the UID registry.",
		}),
		RegistryEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_evictions_total",
			Help:      "Number of components evicted from the UID registry's LRU.",
		}),
		UnknownComponent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "component_unknown_total",
			Help:      "Number of inbound events referencing an unregistered UID.",
		}),
		FullReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigation_fullreloads_total",
			Help:      "Number of navigations that fell back to a full client reload.",
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_messages_total",
			Help:      "Number of inbound client messages dropped by the per-session rate limiter.",
		}),
	}
}

// MustRegister registers every collector with reg, panicking on duplicate
// registration (mirrors prometheus.MustRegister's contract).
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		m.DispatchedEvents,
		m.DispatchLatency,
		m.PatchesEmitted,
		m.RegistrySize,
		m.RegistryEvictions,
		m.UnknownComponent,
		m.FullReloads,
		m.RateLimited,
	)
}
