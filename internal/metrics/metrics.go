package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LessonsCreated  prometheus.Counter
	LessonsReturned prometheus.Histogram
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// NewMetrics creates and registers the collectors once per process.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lessonplan_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "lessonplan_http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
			LessonsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "lessonplan_lessons_created_total",
					Help: "Total number of lessons created from recurrence commands",
				},
			),
			LessonsReturned: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "lessonplan_lessons_returned",
					Help:    "Number of lessons returned per listing request",
					Buckets: prometheus.LinearBuckets(0, 5, 10),
				},
			),
		}
	})
	return sharedMetrics
}
