// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

/*
Package api provides the HTTP REST API layer for NicheCompass.

Key Components:

  - Router: chi route tree and middleware stack
  - Handler: request handlers backed by the recommendation engine
  - Response formatting: the {success, data, error, meta} envelope
  - Error mapping: engine errors to HTTP status codes and error codes
  - Rate limiting: per-IP limits via go-chi/httprate, plus a global retrain cooldown
  - CORS: Cross-Origin Resource Sharing via go-chi/cors

Endpoints:

	GET  /                          service info
	GET  /health                    health summary
	GET  /metrics                   Prometheus metrics
	GET  /api/v1/health             health summary
	GET  /api/v1/health/live        liveness, always 200
	GET  /api/v1/health/ready       readiness, 503 until a model is serving
	POST /api/v1/predict            classify a feature vector
	GET  /api/v1/model              serving model description
	GET  /api/v1/model/features     per-feature ANOVA importance
	GET  /api/v1/model/performance  holdout evaluation report
	GET  /api/v1/model/versions     persisted artifacts, newest first
	GET  /api/v1/model/status       training status
	POST /api/v1/model/retrain      start training (202), or ?sync=true
	POST /api/v1/model/reload       load the newest artifact

Error Mapping:

	MODEL_NOT_READY          503  no model is serving
	DIMENSION_MISMATCH       422  vector length differs from the model
	VALIDATION_ERROR         400  malformed request, non-finite feature, bad threshold
	INSUFFICIENT_DATA        422  training data too small or single-label
	INVALID_HYPERPARAMETER   422  k larger than the training set
	CONFLICT                 409  training already in progress
	TOO_MANY_REQUESTS        429  rate limit or retrain cooldown
	ARTIFACT_NOT_FOUND       404  reload with no persisted model
	ARTIFACT_CORRUPT         500  reload of an unreadable artifact
	DATASOURCE_UNAVAILABLE   503  training data could not be read

Usage Example:

	handler := api.NewHandler(engine, api.HandlerConfig{
	    Version:         version,
	    RetrainCooldown: cfg.Security.RetrainCooldown,
	})
	router := api.NewRouter(handler, &api.ChiMiddlewareConfig{...})
	srv := &http.Server{Addr: cfg.Addr(), Handler: router.Setup()}

Thread Safety:

All handlers are safe for concurrent use. Predictions never block on a
running retrain; the engine swaps models atomically.
*/
package api
