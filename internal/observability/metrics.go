package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	httpRequestsTotal       *prometheus.CounterVec
	httpLatencySeconds      *prometheus.HistogramVec
	notificationsSentTotal  *prometheus.CounterVec
	remindersAttemptedTotal prometheus.Counter
	remindersFailedTotal    prometheus.Counter
	tickDurationSeconds     prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used across the API
// and the deadline scheduler.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		notificationsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications accepted for delivery, by topic.",
		}, []string{"topic"})

		remindersAttemptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deadline_reminders_attempted_total",
			Help: "Total number of deadline reminder dispatch attempts.",
		})

		remindersFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deadline_reminders_failed_total",
			Help: "Total number of deadline reminder dispatches that failed.",
		})

		tickDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "deadline_tick_duration_seconds",
			Help:    "Duration of deadline scheduler ticks.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			notificationsSentTotal,
			remindersAttemptedTotal,
			remindersFailedTotal,
			tickDurationSeconds,
		)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for served requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// NotificationsSentTotal exposes the per-topic notification counter.
func NotificationsSentTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsSentTotal
}

// RemindersAttempted exposes the reminder attempt counter.
func RemindersAttempted() prometheus.Counter {
	RegisterMetrics()
	return remindersAttemptedTotal
}

// RemindersFailed exposes the failed reminder counter.
func RemindersFailed() prometheus.Counter {
	RegisterMetrics()
	return remindersFailedTotal
}

// TickDuration exposes the tick duration histogram.
func TickDuration() prometheus.Histogram {
	RegisterMetrics()
	return tickDurationSeconds
}
