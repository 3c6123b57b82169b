// Package metrics exposes Prometheus collectors for the study guide API.
//
// Collectors are registered on the default registry at init and served by
// promhttp on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "studyguide"

var (
	// HTTPRequestsTotal counts handled requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// PredictionsTotal counts prediction requests by outcome.
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Total number of study/break predictions by outcome",
		},
		[]string{"outcome"},
	)

	// PredictionConfidence is the distribution of reported confidence.
	PredictionConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_confidence",
			Help:      "Confidence reported with each prediction",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	// FeedbackReportsTotal counts feedback reports by outcome.
	FeedbackReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_reports_total",
			Help:      "Total number of feedback reports by outcome",
		},
		[]string{"outcome"},
	)

	// SessionsSavedTotal counts save-session attempts by result.
	SessionsSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_saved_total",
			Help:      "Total number of save-session requests by result",
		},
		[]string{"result"},
	)

	// RateLimitHitsTotal counts requests rejected by a rate limiter.
	RateLimitHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Total number of requests rejected by rate limiting",
		},
		[]string{"limiter"},
	)
)

// RecordHTTPRequest records one handled request. An empty route (no match)
// is reported as "unmatched" to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordPrediction records a prediction outcome and its confidence.
func RecordPrediction(outcome string, confidence float64) {
	PredictionsTotal.WithLabelValues(outcome).Inc()
	PredictionConfidence.Observe(confidence)
}

// RecordFeedback records a feedback outcome.
func RecordFeedback(outcome string) {
	FeedbackReportsTotal.WithLabelValues(outcome).Inc()
}

// RecordSessionSave records a save-session result.
func RecordSessionSave(result string) {
	SessionsSavedTotal.WithLabelValues(result).Inc()
}

// RecordRateLimitHit records a rejected request for the named limiter.
func RecordRateLimitHit(limiter string) {
	RateLimitHitsTotal.WithLabelValues(limiter).Inc()
}
