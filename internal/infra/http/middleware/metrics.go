package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	draftsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drafts_generated_total",
			Help: "Total number of draft sessions created",
		},
		[]string{"source"},
	)

	webhookOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_webhook_outcomes_total",
			Help: "Automation webhook calls by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	aiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "AI completions by operation and status",
		},
		[]string{"operation", "status"},
	)

	finalizeDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finalize_deliveries_total",
			Help: "Finalize deliveries by mode and result",
		},
		[]string{"mode", "result"},
	)

	sweeperDeletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orphan_sweeper_objects_total",
			Help: "Orphaned uploads processed by the sweeper",
		},
		[]string{"result"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps ids out of the path label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordDraftGenerated(source string) {
	draftsGenerated.WithLabelValues(source).Inc()
}

func RecordWebhook(endpoint, outcome string) {
	webhookOutcomes.WithLabelValues(endpoint, outcome).Inc()
}

func RecordAIRequest(operation, status string) {
	aiRequests.WithLabelValues(operation, status).Inc()
}

func RecordFinalize(mode string, delivered bool) {
	result := "delivered"
	if !delivered {
		result = "failed"
	}
	finalizeDeliveries.WithLabelValues(mode, result).Inc()
}

func RecordSweep(deleted, failed int) {
	sweeperDeletions.WithLabelValues("deleted").Add(float64(deleted))
	sweeperDeletions.WithLabelValues("failed").Add(float64(failed))
}
