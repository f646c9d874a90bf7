// Package observability exposes Prometheus metrics for the service.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	trainingsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "training",
		Name:      "created_total",
		Help:      "Number of trainings created.",
	})
	notificationsComposedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "notification",
		Name:      "composed_total",
		Help:      "Number of completion notifications composed.",
	})
	notificationSendFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "notification",
		Name:      "send_failures_total",
		Help:      "Number of notification deliveries that failed.",
	})
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests handled, by method and status code.",
	}, []string{"method", "code"})
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitness_tracker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func init() {
	prometheus.MustRegister(
		trainingsCreatedTotal,
		notificationsComposedTotal,
		notificationSendFailuresTotal,
		httpRequestsTotal,
		httpRequestDuration,
	)
}

// TrainingCreated increments the created-trainings counter.
func TrainingCreated() {
	trainingsCreatedTotal.Inc()
}

// NotificationComposed increments the composed-notifications counter.
func NotificationComposed() {
	notificationsComposedTotal.Inc()
}

// NotificationSendFailed increments the delivery-failure counter.
func NotificationSendFailed() {
	notificationSendFailuresTotal.Inc()
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method string, code int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
