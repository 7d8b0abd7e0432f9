// Package monitoring provides Prometheus metrics collection
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Planning metrics
	plansGeneratedTotal *prometheus.CounterVec
	planDuration        prometheus.Histogram
	alternativesTotal   *prometheus.CounterVec
	usageRecordedTotal  prometheus.Counter
	feedbackTotal       prometheus.Counter
}

// NewMetricsCollector creates a new metrics collector with its own registry
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger,
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		plansGeneratedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meal_plans_generated_total",
				Help: "Total number of meal plans generated, by outcome and relaxation level",
			},
			[]string{"outcome", "level"},
		),
		planDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "meal_plan_generation_duration_seconds",
				Help:    "Meal plan generation duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
		),
		alternativesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_alternatives_total",
				Help: "Total number of alternative recipe lookups",
			},
			[]string{"result"},
		),
		usageRecordedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "recipe_usage_recorded_total",
				Help: "Total number of recipe usage records",
			},
		),
		feedbackTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "recipe_feedback_recorded_total",
				Help: "Total number of feedback records",
			},
		),
	}
}

// ObservePlan records a finished plan generation
func (m *MetricsCollector) ObservePlan(outcome, level string, duration time.Duration) {
	m.plansGeneratedTotal.WithLabelValues(outcome, level).Inc()
	m.planDuration.Observe(duration.Seconds())
}

// ObserveAlternative records an alternative lookup result
func (m *MetricsCollector) ObserveAlternative(found bool) {
	result := "found"
	if !found {
		result = "not_found"
	}
	m.alternativesTotal.WithLabelValues(result).Inc()
}

// ObserveUsageRecorded counts a stored usage entry
func (m *MetricsCollector) ObserveUsageRecorded() {
	m.usageRecordedTotal.Inc()
}

// ObserveFeedbackRecorded counts a stored feedback record
func (m *MetricsCollector) ObserveFeedbackRecorded() {
	m.feedbackTotal.Inc()
}

// Handler returns the Prometheus scrape handler for this collector's registry
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware instruments every request with count and duration metrics
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		status := strconv.Itoa(recorder.status)
		m.httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).
			Observe(time.Since(started).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
