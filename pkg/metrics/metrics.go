package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Business metrics
	RideRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ride_requests_total",
			Help: "Total number of ride request transitions",
		},
		[]string{"status"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Total number of booking transitions",
		},
		[]string{"status"},
	)

	ReviewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "driver_reviews_total",
			Help: "Total number of driver reviews submitted",
		},
	)

	EmergencyAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emergency_alerts_total",
			Help: "Total number of emergency alerts triggered",
		},
		[]string{"status"},
	)

	MatchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_queries_total",
			Help: "Total number of nearby-driver/nearby-ride lookups",
		},
		[]string{"kind"},
	)

	DatabaseQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"exchange", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery() {
	DatabaseQueriesTotal.Inc()
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(exchange string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMQMessagesPublished.WithLabelValues(exchange, status).Inc()
}
