// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EnrollmentOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_enrollment_operations_total",
			Help: "Total number of signup and unregister operations by result",
		},
		[]string{"operation", "result"},
	)

	RosterSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "registry_roster_size",
			Help: "Current number of participants per activity",
		},
		[]string{"activity"},
	)

	RosterCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "registry_roster_capacity",
			Help: "Maximum number of participants per activity",
		},
		[]string{"activity"},
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_event_publish_failures_total",
			Help: "Total number of enrollment events that could not be delivered",
		},
		[]string{"sink"},
	)

	NotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registry_notification_failures_total",
			Help: "Total number of confirmation emails that could not be sent",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registry_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordOperation counts one enrollment operation. result is "success" or an error code.
func RecordOperation(operation, result string) {
	EnrollmentOperations.WithLabelValues(operation, result).Inc()
}

// SetRoster publishes the roster size and capacity for an activity.
func SetRoster(activity string, size, capacity int) {
	RosterSize.WithLabelValues(activity).Set(float64(size))
	RosterCapacity.WithLabelValues(activity).Set(float64(capacity))
}
