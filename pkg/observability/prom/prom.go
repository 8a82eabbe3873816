// Package prom implements the observability hooks with Prometheus metrics.
//
// Metrics are registered on a caller-supplied registerer, so tests and
// embedded servers can use their own registry instead of the global one:
//
//	reg := prometheus.NewRegistry()
//	hooks, err := prom.New(reg)
//	if err != nil {
//	    return err
//	}
//	hooks.Install()
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/steamvent/pkg/observability"
)

const namespace = "steamvent"

// Hooks records pipeline, search and cache events as Prometheus metrics.
// It implements observability.PipelineHooks, observability.SearchHooks and
// observability.CacheHooks.
type Hooks struct {
	distanceDuration prometheus.Histogram
	distanceEntries  prometheus.Histogram

	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	pressure       prometheus.Histogram

	generationWidth prometheus.Histogram
	terminals       prometheus.Counter

	cacheRequests *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Hooks, error) {
	h := &Hooks{
		distanceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "distance_duration_seconds",
			Help:      "Time spent computing all-pairs valve distances.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		distanceEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "distance_table_entries",
			Help:      "Number of entries in computed distance tables.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Completed searches by outcome.",
		}, []string{"outcome"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent enumerating valve opening orders.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		pressure: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "released_pressure",
			Help:      "Maximum pressure released per successful search.",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 12),
		}),
		generationWidth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_generation_width",
			Help:      "Number of states per search generation.",
			Buckets:   prometheus.ExponentialBuckets(1, 8, 8),
		}),
		terminals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_terminal_states_total",
			Help:      "Terminal states recorded by searches.",
		}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
	}

	for _, c := range []prometheus.Collector{
		h.distanceDuration, h.distanceEntries,
		h.searches, h.searchDuration, h.pressure,
		h.generationWidth, h.terminals,
		h.cacheRequests, h.cacheBytes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Install registers h as the global pipeline, search and cache hooks.
func (h *Hooks) Install() {
	observability.SetPipelineHooks(h)
	observability.SetSearchHooks(h)
	observability.SetCacheHooks(h)
}

func (h *Hooks) OnDistanceStart(context.Context, int) {}

func (h *Hooks) OnDistanceComplete(_ context.Context, _, entries int, d time.Duration) {
	h.distanceDuration.Observe(d.Seconds())
	h.distanceEntries.Observe(float64(entries))
}

func (h *Hooks) OnSearchStart(context.Context, string, int, int) {}

func (h *Hooks) OnSearchComplete(_ context.Context, _ string, _, pressure int, d time.Duration, err error) {
	h.searchDuration.Observe(d.Seconds())
	if err != nil {
		h.searches.WithLabelValues("error").Inc()
		return
	}
	h.searches.WithLabelValues("ok").Inc()
	h.pressure.Observe(float64(pressure))
}

func (h *Hooks) OnGeneration(_ context.Context, _, width, terminals int) {
	h.generationWidth.Observe(float64(width))
	h.terminals.Add(float64(terminals))
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.SearchHooks   = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
)
