package config

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "groompro",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "groompro",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	// CloverCalls counts outbound POS requests by operation and outcome.
	CloverCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "groompro",
			Subsystem: "clover",
			Name:      "calls_total",
			Help:      "Total number of Clover API calls.",
		},
		[]string{"method", "status"},
	)

	// RemindersSent counts reminder attempts by outcome.
	RemindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "groompro",
			Subsystem: "reminders",
			Name:      "sent_total",
			Help:      "Total number of appointment reminders attempted.",
		},
		[]string{"status"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		CloverCalls,
		RemindersSent,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// MetricsHandler exposes the registry for scraping.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
