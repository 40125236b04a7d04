package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "dd",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dd",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	readFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dd",
			Subsystem: "reads",
			Name:      "fallbacks_total",
			Help:      "Total number of reads served from placeholder data.",
		},
		[]string{"resource"},
	)

	streamReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dd",
			Subsystem: "rtdb",
			Name:      "stream_reconnects_total",
			Help:      "Total number of dropped realtime connections that were re-established.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		readFallbacks,
		streamReconnects,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordRequest records one handled HTTP request.
func RecordRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncInFlight marks a request as started.
func IncInFlight() {
	httpInFlight.Inc()
}

// DecInFlight marks a request as finished.
func DecInFlight() {
	httpInFlight.Dec()
}

// RecordFallback notes a read that was served from placeholder data
// because the backend was unreachable or returned nothing usable.
func RecordFallback(resource string) {
	if resource == "" {
		resource = "unknown"
	}
	readFallbacks.WithLabelValues(resource).Inc()
}

// RecordStreamReconnect notes a dropped realtime connection.
func RecordStreamReconnect() {
	streamReconnects.Inc()
}
