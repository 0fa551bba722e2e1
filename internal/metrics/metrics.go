// Package metrics registers the Prometheus collectors exposed on /metrics.
// All collectors use the default registry so handlers can serve them via
// promhttp without extra wiring.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Translation request metrics
	translationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emakua_translations_total",
			Help: "Total number of translation requests",
		},
		[]string{"direction", "status"},
	)

	translationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emakua_translation_duration_seconds",
			Help:    "Duration of translation requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"direction"},
	)

	missingWordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emakua_missing_words_total",
			Help: "Total number of word tokens that resolved to no candidate",
		},
	)

	// Resource provider metrics
	resourceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emakua_resource_fetches_total",
			Help: "Total number of resource fetches against the backing store",
		},
		[]string{"resource", "status"},
	)

	resourceCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emakua_resource_cache_total",
			Help: "Resource cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// Asset proxy metrics
	assetCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emakua_asset_cache_total",
			Help: "Asset cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// Analytics metrics
	missingQueueDropsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emakua_missing_queue_drops_total",
			Help: "Missing-word batches dropped because the queue was full",
		},
	)

	breakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "emakua_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"breaker"},
	)
)

// RecordTranslation records the outcome of one translation request. Duration
// and missing-word counts are only observed for successful requests.
func RecordTranslation(direction string, err error, duration time.Duration, missing int) {
	status := "success"
	if err != nil {
		status = "error"
	}
	translationsTotal.WithLabelValues(direction, status).Inc()
	if err == nil {
		translationDuration.WithLabelValues(direction).Observe(duration.Seconds())
		missingWordsTotal.Add(float64(missing))
	}
}

// RecordResourceFetch records one fetch of a named resource from the backing
// store.
func RecordResourceFetch(resource string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	resourceFetchesTotal.WithLabelValues(resource, status).Inc()
}

// RecordResourceCache records a resource cache lookup.
func RecordResourceCache(hit bool) {
	resourceCacheTotal.WithLabelValues(outcome(hit)).Inc()
}

// RecordAssetCache records an asset cache lookup.
func RecordAssetCache(hit bool) {
	assetCacheTotal.WithLabelValues(outcome(hit)).Inc()
}

// RecordMissingQueueDrop records a missing-word batch that was discarded
// because the analytics queue was full.
func RecordMissingQueueDrop() {
	missingQueueDropsTotal.Inc()
}

// RecordBreakerState records a circuit breaker transition. The value follows
// gobreaker's state order: closed, half-open, open.
func RecordBreakerState(name string, state int) {
	breakerState.WithLabelValues(name).Set(float64(state))
}

func outcome(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
