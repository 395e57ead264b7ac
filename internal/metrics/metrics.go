// Package metrics holds the Prometheus collectors for the users server.
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

	connectionsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "users_server",
			Subsystem: "tcp",
			Name:      "connections_accepted_total",
			Help:      "Total number of accepted TCP connections.",
		},
	)

	acceptErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "users_server",
			Subsystem: "tcp",
			Name:      "accept_errors_total",
			Help:      "Total number of failed accepts.",
		},
	)

	readErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "users_server",
			Subsystem: "tcp",
			Name:      "read_errors_total",
			Help:      "Total number of connections dropped because the request could not be read.",
		},
	)

	inFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "users_server",
			Subsystem: "tcp",
			Name:      "inflight_connections",
			Help:      "Current number of connections being served.",
		},
	)

	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "users_server",
			Subsystem: "actions",
			Name:      "requests_total",
			Help:      "Total number of dispatched requests.",
		},
		[]string{"action", "status"},
	)

	duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "users_server",
			Subsystem: "actions",
			Name:      "duration_seconds",
			Help:      "Time from parsed request to written response.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"action"},
	)
)

func init() {
	Registry.MustRegister(
		connectionsAccepted,
		acceptErrors,
		readErrors,
		inFlight,
		requests,
		duration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ConnectionAccepted counts an accepted connection and marks it in flight.
// The returned func marks it done.
func ConnectionAccepted() func() {
	connectionsAccepted.Inc()
	inFlight.Inc()
	return inFlight.Dec
}

// AcceptFailed counts a failed accept.
func AcceptFailed() { acceptErrors.Inc() }

// ReadFailed counts a connection whose request could not be read.
func ReadFailed() { readErrors.Inc() }

// RecordRequest records one dispatched request.
func RecordRequest(action string, status int, d time.Duration) {
	if action == "" {
		action = "unknown"
	}
	requests.WithLabelValues(action, strconv.Itoa(status)).Inc()
	duration.WithLabelValues(action).Observe(d.Seconds())
}
