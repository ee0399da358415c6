// Package metrics exposes the pattern-mining pipeline's running counters as
// Prometheus collectors, registered against a private registry so importing
// this package never clashes with a host process's default registerer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/model"
)

const namespace = "logpattern"

// Collectors bundles every metric the streaming engine and drift detector
// update while running.
type Collectors struct {
	Registry *prometheus.Registry

	LinesParsed      prometheus.Counter
	LinesMatched     prometheus.Counter
	PatternsLearned  prometheus.Gauge
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	DriftEventsTotal prometheus.Counter
	ParseDuration    prometheus.Histogram
}

// New builds a fresh, privately-registered Collectors set.
func New() *Collectors {
	reg := prometheus.NewRegistry()
	c := &Collectors{
		Registry: reg,
		LinesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_parsed_total",
			Help:      "Total log lines passed through StreamParse.",
		}),
		LinesMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_matched_total",
			Help:      "Total log lines matched against a known pattern.",
		}),
		PatternsLearned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "patterns_learned",
			Help:      "Number of patterns in the most recently learned set.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Pattern cache signature-index hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Pattern cache signature-index misses.",
		}),
		DriftEventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drift_events_total",
			Help:      "Total format changes reported by the drift detector.",
		}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Wall-clock time spent parsing one file.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		c.LinesParsed,
		c.LinesMatched,
		c.PatternsLearned,
		c.CacheHits,
		c.CacheMisses,
		c.DriftEventsTotal,
		c.ParseDuration,
	)
	return c
}

// Handler returns an http.Handler serving this Collectors' registry in the
// Prometheus text exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})
}

// WindowTimestamp converts a prometheus/common model.Time into the value the
// drift detector stamps onto each DominantPattern window when it reports
// over a wire format that carries wall-clock time.
func WindowTimestamp(t model.Time) int64 {
	return t.Unix()
}
