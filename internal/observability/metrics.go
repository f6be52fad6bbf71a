package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PageCacheRequests counts cached page lookups by result (hit, miss, unreachable).
	PageCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_page_cache_requests_total",
		Help: "Total page cache lookups by result",
	}, []string{"result"})

	// PageCacheResets counts explicit page cache invalidations.
	PageCacheResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_page_cache_resets_total",
		Help: "Total number of page cache resets",
	})

	// ContentCreated counts created domain entities by kind (post, comment, follow, user).
	ContentCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_content_created_total",
		Help: "Total number of created entities by kind",
	}, []string{"kind"})

	// MediaUploadBytes records the size of uploaded post images.
	MediaUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "yatube_media_upload_bytes",
		Help:    "Size of uploaded media files in bytes",
		Buckets: prometheus.ExponentialBuckets(16*1024, 4, 7),
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
