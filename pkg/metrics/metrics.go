package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Change feed (outbox) metrics
	ChangeEventsPublished prometheus.Counter
	ChangeEventsFailed    prometheus.Counter
	ChangeFeedLatency     prometheus.Histogram
	ChangeFeedQueueSize   prometheus.Gauge
	ChangeFeedRetries     *prometheus.CounterVec

	// Record store metrics
	StoreOperations  *prometheus.CounterVec
	StoreLatency     *prometheus.HistogramVec
	StoreConnections prometheus.Gauge

	// Draft workflow metrics
	DraftSubmissions   *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		ChangeEventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "change_events_published_total",
			Help:      "Total number of record change events published",
		}),
		ChangeEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "change_events_failed_total",
			Help:      "Total number of record change events that failed to publish",
		}),
		ChangeFeedLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "change_feed_duration_seconds",
			Help:      "Time spent draining the change event queue",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		ChangeFeedQueueSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "change_feed_queue_size",
			Help:      "Current number of unpublished change events",
		}),
		ChangeFeedRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "change_feed_retry_attempts_total",
			Help:      "Total number of publish retry attempts",
		}, []string{"collection"}),

		StoreOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_operations_total",
			Help:      "Total number of record store operations",
		}, []string{"operation", "status"}),
		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of record store operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		StoreConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_connections",
			Help:      "Current number of record store connections",
		}),

		DraftSubmissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "draft_submissions_total",
			Help:      "Total number of entity draft submissions",
		}, []string{"entity", "status"}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "draft_validation_failures_total",
			Help:      "Total number of draft validation failures",
		}, []string{"entity"}),
	}
}

// WatchStoreConnections keeps the connection gauge in step with the store's
// pool until ctx is cancelled. The pool size is read through open so the
// metrics package stays free of driver imports.
func (m *Metrics) WatchStoreConnections(ctx context.Context, open func() int, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.StoreConnections.Set(float64(open()))
		}
	}
}
