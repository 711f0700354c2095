// Package metrics provides Prometheus metrics for the darion server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darion_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "darion_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	sortJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darion_sort_jobs_total",
			Help: "Total sort jobs by criteria and outcome",
		},
		[]string{"criteria", "status"},
	)

	sortFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darion_sort_files_total",
			Help: "Files processed by sort jobs",
		},
		[]string{"criteria", "outcome"},
	)

	sortBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darion_sort_bytes_total",
			Help: "Bytes placed by sort jobs",
		},
		[]string{"criteria"},
	)

	sortDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "darion_sort_duration_seconds",
			Help:    "Sort job duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"criteria"},
	)

	llmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darion_llm_requests_total",
			Help: "Total chat completion requests",
		},
		[]string{"status"},
	)

	llmRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "darion_llm_request_duration_seconds",
			Help:    "Chat completion latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	syncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darion_sync_runs_total",
			Help: "Integration sync runs by source and outcome",
		},
		[]string{"source", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSortJob records a finished sort job. status is "success",
// "partial" or "error".
func RecordSortJob(criteria, status string, placed, failed int, bytes uint64, duration time.Duration) {
	sortJobsTotal.WithLabelValues(criteria, status).Inc()
	sortFilesTotal.WithLabelValues(criteria, "placed").Add(float64(placed))
	sortFilesTotal.WithLabelValues(criteria, "failed").Add(float64(failed))
	sortBytesTotal.WithLabelValues(criteria).Add(float64(bytes))
	sortDuration.WithLabelValues(criteria).Observe(duration.Seconds())
}

// RecordLLMRequest records a chat completion call.
func RecordLLMRequest(duration time.Duration, success bool) {
	llmRequestDuration.Observe(duration.Seconds())
	llmRequestsTotal.WithLabelValues(statusLabel(success)).Inc()
}

// RecordSync records an integration sync.
func RecordSync(source string, success bool) {
	syncRunsTotal.WithLabelValues(source, statusLabel(success)).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
