// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package metrics

import (
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - API endpoint latency and throughput
// - Model training runs and evaluation scores
// - Prediction latency and confidence
// - Prediction cache efficiency
// - Training data source circuit breakers

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10}, // Predictions are sub-millisecond, retrains are not
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	RetrainThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_retrain_throttled_total",
			Help: "Total number of retrain requests rejected by the cooldown limiter",
		},
	)

	// Training Metrics
	TrainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_training_runs_total",
			Help: "Total number of model training runs",
		},
		[]string{"result"}, // "success", "failure", "rejected"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	TrainingSamples = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_training_samples",
			Help: "Number of samples used by the most recent successful training run",
		},
	)

	TrainingLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_training_last_success_timestamp",
			Help: "Unix timestamp of the last successful training run",
		},
	)

	ModelEvaluationScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_evaluation_score",
			Help: "Holdout evaluation scores of the serving model",
		},
		[]string{"metric"}, // accuracy, precision_macro, recall_macro, f1_macro
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_serving_version",
			Help: "Artifact version of the model currently serving predictions",
		},
	)

	ModelReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_ready",
			Help: "Whether a fitted model is serving predictions (1=ready, 0=not ready)",
		},
	)

	ModelReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_reloads_total",
			Help: "Total number of model artifact reloads",
		},
		[]string{"result"},
	)

	// Prediction Metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of predictions served",
		},
		[]string{"confidence"}, // "high", "low"
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_errors_total",
			Help: "Total number of rejected prediction requests",
		},
		[]string{"error_type"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prediction_duration_seconds",
			Help:    "Duration of predictions in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	PredictionConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prediction_confidence",
			Help:    "Top-class probability of served predictions",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)

	// Prediction Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prediction_cache_hits_total",
			Help: "Total number of prediction cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prediction_cache_misses_total",
			Help: "Total number of prediction cache misses",
		},
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prediction_cache_entries",
			Help: "Current number of cached predictions",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prediction_cache_evictions_total",
			Help: "Total number of prediction cache evictions",
		},
	)

	// Data Source Metrics
	DataSourceLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datasource_load_duration_seconds",
			Help:    "Duration of training sample loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	DataSourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datasource_errors_total",
			Help: "Total number of failed training sample loads",
		},
		[]string{"source"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTraining records the outcome of a training run.
// A nil err counts as success and refreshes the last-success timestamp.
func RecordTraining(duration time.Duration, samples int, err error) {
	TrainingDuration.Observe(duration.Seconds())
	if err != nil {
		TrainingRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	TrainingRunsTotal.WithLabelValues("success").Inc()
	TrainingSamples.Set(float64(samples))
	TrainingLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordTrainingRejected counts a training request refused because another
// run holds the training lock.
func RecordTrainingRejected() {
	TrainingRunsTotal.WithLabelValues("rejected").Inc()
}

// RecordEvaluation publishes holdout scores for the serving model.
func RecordEvaluation(accuracy, precisionMacro, recallMacro, f1Macro float64) {
	ModelEvaluationScore.WithLabelValues("accuracy").Set(accuracy)
	ModelEvaluationScore.WithLabelValues("precision_macro").Set(precisionMacro)
	ModelEvaluationScore.WithLabelValues("recall_macro").Set(recallMacro)
	ModelEvaluationScore.WithLabelValues("f1_macro").Set(f1Macro)
}

// SetServingModel records the version of the model that just went live.
func SetServingModel(version int) {
	ModelVersion.Set(float64(version))
	ModelReady.Set(1)
}

// RecordReload records an artifact reload attempt.
func RecordReload(err error) {
	if err != nil {
		ModelReloads.WithLabelValues("failure").Inc()
		return
	}
	ModelReloads.WithLabelValues("success").Inc()
}

// RecordPrediction records a served prediction.
func RecordPrediction(duration time.Duration, probability float64, highConfidence bool) {
	PredictionDuration.Observe(duration.Seconds())
	PredictionConfidence.Observe(probability)
	if highConfidence {
		PredictionsTotal.WithLabelValues("high").Inc()
	} else {
		PredictionsTotal.WithLabelValues("low").Inc()
	}
}

// errorClassifier lets domain errors report a stable metric label.
type errorClassifier interface {
	ErrorType() string
}

// RecordPredictionError counts a rejected prediction. Errors exposing an
// ErrorType() method are labeled with it; others count as "other".
func RecordPredictionError(err error) {
	errorType := "other"
	var ec errorClassifier
	if errors.As(err, &ec) {
		errorType = ec.ErrorType()
	}
	PredictionErrors.WithLabelValues(errorType).Inc()
}

// RecordDataSourceLoad records a training sample load.
func RecordDataSourceLoad(source string, duration time.Duration, err error) {
	DataSourceLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		DataSourceErrors.WithLabelValues(source).Inc()
	}
}

// RecordRateLimitHit counts a request rejected by the per-IP rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRetrainThrottled counts a retrain request rejected by the cooldown.
func RecordRetrainThrottled() {
	RetrainThrottled.Inc()
}

// SetAppInfo publishes the build version and records the start time used by
// UpdateUptime.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	startTime.Store(time.Now().UnixNano())
}

// UpdateUptime refreshes the uptime gauge.
func UpdateUptime() {
	if started := startTime.Load(); started != 0 {
		AppUptime.Set(time.Since(time.Unix(0, started)).Seconds())
	}
}

var startTime atomic.Int64
