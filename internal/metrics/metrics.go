// Package metrics holds Prometheus instruments that are used across the
// onion-skin engine.  All collectors are registered with the global
// registry, so importing this package in main.go is enough to expose them
// on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CachedFrames = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "onionskin_cached_frames",
			Help: "Number of frames currently held in the geometry cache.",
		})

	DirtyFrames = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "onionskin_dirty_frames",
			Help: "Number of cached frames currently marked dirty.",
		})

	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "onionskin_cache_hits_total",
			Help: "Cumulative number of batch requests served from cache.",
		})

	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "onionskin_cache_misses_total",
			Help: "Cumulative number of frames stored after a cache miss.",
		})

	CacheEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "onionskin_cache_evict_total",
			Help: "Cumulative number of frames evicted from the cache.",
		})

	ExtractionErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "onionskin_extraction_errors_total",
			Help: "Cumulative number of geometry extraction failures.",
		})

	PrecacheRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "onionskin_precache_runs_total",
			Help: "Cumulative number of background precache runs started.",
		})

	PrecacheFramesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "onionskin_precache_frames_total",
			Help: "Cumulative number of frames filled by the background precacher.",
		})
)

func init() {
	prometheus.MustRegister(
		CachedFrames,
		DirtyFrames,
		CacheHitsTotal,
		CacheMissesTotal,
		CacheEvictTotal,
		ExtractionErrorsTotal,
		PrecacheRunsTotal,
		PrecacheFramesTotal,
	)
}
