package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tag_service"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	StorageOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_operations_total",
		Help:      "Object storage calls by operation and outcome.",
	}, []string{"op", "outcome"})

	BucketCleanups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bucket_cleanups_total",
		Help:      "Buckets handed to or processed by the cleanup worker.",
	}, []string{"stage", "reason"})
)

// ObserveStorage records the outcome of one storage call.
func ObserveStorage(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StorageOps.WithLabelValues(op, outcome).Inc()
}
