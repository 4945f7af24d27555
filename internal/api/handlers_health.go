// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package api

import (
	"net/http"
	"time"
)

// ServiceInfo is returned by the root endpoint.
type ServiceInfo struct {
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	Environment string            `json:"environment,omitempty"`
	Status      string            `json:"status"`
	Endpoints   map[string]string `json:"endpoints"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status       string  `json:"status"`
	Version      string  `json:"version"`
	ModelLoaded  bool    `json:"model_loaded"`
	ModelState   string  `json:"model_state"`
	ModelVersion int     `json:"model_version"`
	IsTraining   bool    `json:"is_training"`
	Uptime       float64 `json:"uptime"`
}

// Root handles GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	status := "running"
	if !h.engine.Ready() {
		status = "degraded"
	}

	WriteSuccess(w, r, ServiceInfo{
		Service:     h.config.ServiceName,
		Version:     h.config.Version,
		Environment: h.config.Environment,
		Status:      status,
		Endpoints: map[string]string{
			"predict":     "POST /api/v1/predict",
			"model":       "GET /api/v1/model",
			"features":    "GET /api/v1/model/features",
			"performance": "GET /api/v1/model/performance",
			"versions":    "GET /api/v1/model/versions",
			"retrain":     "POST /api/v1/model/retrain",
			"reload":      "POST /api/v1/model/reload",
			"health":      "GET /api/v1/health",
			"metrics":     "GET /metrics",
		},
	})
}

// Health handles GET /api/v1/health
// The service is "healthy" when a model is serving and "degraded" otherwise;
// the endpoint itself always answers 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()
	loaded := h.engine.Ready()

	status := "healthy"
	if !loaded {
		status = "degraded"
	}

	WriteSuccess(w, r, HealthStatus{
		Status:       status,
		Version:      h.config.Version,
		ModelLoaded:  loaded,
		ModelState:   st.SlotState.String(),
		ModelVersion: st.ModelVersion,
		IsTraining:   st.IsTraining,
		Uptime:       time.Since(h.startTime).Seconds(),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of model state
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if a model is serving, 503 otherwise
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()
	ready := h.engine.Ready()
	details := map[string]interface{}{
		"ready_to_serve": ready,
		"model_state":    st.SlotState.String(),
		"model_version":  st.ModelVersion,
	}

	rw := NewResponseWriter(w, r)
	if !ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeModelNotReady, "No model is serving", details)
		return
	}
	rw.Success(details)
}
