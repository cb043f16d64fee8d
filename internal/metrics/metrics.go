package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SolveTotal counts solve runs by algorithm and outcome
	SolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solve_total", Help: "Solve runs by algorithm and status."},
		[]string{"algorithm", "status"},
	)
	// SolveDuration records solve durations in seconds per algorithm
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "solve_duration_seconds", Help: "Solve duration in seconds.", Buckets: []float64{.001, .01, .05, .1, .5, 1, 5, 15, 60}},
		[]string{"algorithm"},
	)
	// MatrixBuildDuration records distance matrix build times in seconds
	MatrixBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "matrix_build_duration_seconds", Help: "Distance matrix build duration in seconds.", Buckets: []float64{.001, .01, .05, .1, .5, 1, 5, 15}},
	)
	// PointsIntegrated counts points attached to the network by outcome
	PointsIntegrated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "points_integrated_total", Help: "Points integrated into the network by status."},
		[]string{"status"},
	)

	// WebhookDeliveries counts webhook delivery outcomes by event type and status
	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "webhook_deliveries_total", Help: "Webhook deliveries by event type and status."},
		[]string{"event_type", "status"},
	)
	// WebhookLatency tracks webhook delivery latencies in milliseconds
	WebhookLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "webhook_delivery_latency_ms", Help: "Webhook delivery latency in ms.", Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000}},
		[]string{"event_type", "status"},
	)
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolveTotal)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(MatrixBuildDuration)
		Registry.MustRegister(PointsIntegrated)
		Registry.MustRegister(WebhookDeliveries)
		Registry.MustRegister(WebhookLatency)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
