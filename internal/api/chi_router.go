// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/nichecompass/internal/metrics"
	"github.com/tomtom215/nichecompass/internal/middleware"
)

// Router wires the handlers into a chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID)) // X-Request-ID + logging context
	r.Use(chimiddleware.RealIP)                // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)             // Recover from panics
	r.Use(router.chiMiddleware.CORS())         // CORS must be global to handle OPTIONS preflight
	r.Use(RequestLogging())

	// Set before any Route call so sub-routers inherit them.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).MethodNotAllowed()
	})

	// ========================
	// Service Info & Probes
	// ========================
	r.With(router.chiMiddleware.RateLimitHealth()).Get("/", router.handler.Root)
	r.With(router.chiMiddleware.RateLimitHealth()).Get("/health", router.handler.Health)
	metricsHandler := promhttp.Handler()
	r.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		metrics.UpdateUptime()
		metricsHandler.ServeHTTP(w, req)
	}))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/predict", router.handler.Predict)

		r.Route("/model", func(r chi.Router) {
			r.Get("/", router.handler.ModelInfo)
			r.Get("/features", router.handler.FeatureImportance)
			r.Get("/performance", router.handler.ModelPerformance)
			r.Get("/versions", router.handler.ModelVersions)
			r.Get("/status", router.handler.TrainingStatus)

			// Each accepted request can start a full training run
			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitTraining())
				r.Post("/retrain", router.handler.Retrain)
				r.Post("/reload", router.handler.Reload)
			})
		})
	})

	return r
}
