// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed at /metrics in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Training Metrics:
  - model_training_runs_total: Training runs (counter)
    Labels: result (success, failure, rejected)
  - model_training_duration_seconds: Run duration (histogram)
  - model_training_samples: Samples used by the last successful run (gauge)
  - model_training_last_success_timestamp: Unix time of the last success (gauge)
  - model_evaluation_score: Holdout scores of the serving model (gauge)
    Labels: metric (accuracy, precision_macro, recall_macro, f1_macro)
  - model_serving_version: Artifact version currently serving (gauge)
  - model_ready: 1 once a model is serving (gauge)
  - model_reloads_total: Artifact reloads (counter)
    Labels: result

Prediction Metrics:
  - predictions_total: Served predictions (counter)
    Labels: confidence (high, low)
  - prediction_errors_total: Rejected predictions (counter)
    Labels: error_type (dimension_mismatch, non_finite, not_ready, other)
  - prediction_duration_seconds: Prediction latency (histogram)
  - prediction_confidence: Top-class probability (histogram)
  - prediction_cache_{hits,misses,evictions}_total, prediction_cache_entries

Data Source Metrics:
  - datasource_load_duration_seconds: Sample load latency (histogram)
    Labels: source (mongo, badger, file, synthetic)
  - datasource_errors_total: Failed loads (counter)
    Labels: source

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests by result (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures: Current failure streak (gauge)
  - circuit_breaker_state_transitions_total: Transitions (counter)
    Labels: name, from_state, to_state

# Example Alerts

	groups:
	  - name: nichecompass
	    rules:
	      - alert: ModelNotReady
	        expr: model_ready == 0
	        for: 10m
	      - alert: TrainingFailing
	        expr: increase(model_training_runs_total{result="failure"}[1h]) > 3
	      - alert: CircuitBreakerOpen
	        expr: circuit_breaker_state == 2
	        for: 5m
*/
package metrics
