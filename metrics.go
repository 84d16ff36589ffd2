// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

import "github.com/prometheus/client_golang/prometheus"

// storeMetrics wraps the Prometheus instrumentation exposed by a Store. The
// collectors are unregistered — a host embeds a Store's Collectors() output
// into its own registry rather than touching the global one, so creating
// several stores in one process (e.g. in tests) never panics on duplicate
// registration.
type storeMetrics struct {
	hashconsHits   prometheus.Counter
	hashconsMisses prometheus.Counter
	flushes        prometheus.Counter
}

func newStoreMetrics() *storeMetrics {
	return &storeMetrics{
		hashconsHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "addcp_hashcons_hits_total",
			Help: "Number of getInternal/getConstant calls resolved from the unicity table.",
		}),
		hashconsMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "addcp_hashcons_misses_total",
			Help: "Number of getInternal/getConstant calls that allocated a fresh node.",
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "addcp_flushes_total",
			Help: "Number of times FlushCaches ran a mark/sweep pass.",
		}),
	}
}

func (m *storeMetrics) hashconsHit()  { m.hashconsHits.Inc() }
func (m *storeMetrics) hashconsMiss() { m.hashconsMisses.Inc() }
func (m *storeMetrics) gc()           { m.flushes.Inc() }

// Collectors returns the Prometheus collectors backing s, for a host to
// register with its own registry.
func (s *Store) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		s.metrics.hashconsHits,
		s.metrics.hashconsMisses,
		s.metrics.flushes,
	}
}
