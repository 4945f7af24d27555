// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/nichecompass/internal/logging"
	"github.com/tomtom215/nichecompass/internal/metrics"
	"github.com/tomtom215/nichecompass/internal/recommend"
	"github.com/tomtom215/nichecompass/internal/recommend/storage"
)

// ModelInfo handles GET /api/v1/model
func (h *Handler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.engine.Info()
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteSuccess(w, r, info)
}

// FeatureImportance handles GET /api/v1/model/features
func (h *Handler) FeatureImportance(w http.ResponseWriter, r *http.Request) {
	importance, err := h.engine.FeatureImportance()
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	NewResponseWriter(w, r).SuccessWithCount(importance, len(importance))
}

// ModelPerformance handles GET /api/v1/model/performance
func (h *Handler) ModelPerformance(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.Performance()
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteSuccess(w, r, report)
}

// ModelVersions handles GET /api/v1/model/versions
func (h *Handler) ModelVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.engine.Versions(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	if versions == nil {
		versions = []storage.ArtifactMetadata{}
	}
	NewResponseWriter(w, r).SuccessWithCount(versions, len(versions))
}

// TrainingStatus handles GET /api/v1/model/status
func (h *Handler) TrainingStatus(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.engine.Status())
}

// RetrainAccepted is the payload of an accepted asynchronous retrain.
type RetrainAccepted struct {
	RunID   string `json:"run_id"`
	Message string `json:"message"`
}

// Retrain handles POST /api/v1/model/retrain.
//
// By default training runs in the background and the handler answers 202
// with the run ID. With ?sync=true the handler trains inline and returns the
// training report. Requests inside the retrain cooldown get 429; requests
// while another run holds the training lock get 409.
func (h *Handler) Retrain(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	sync := false
	if v := r.URL.Query().Get("sync"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			rw.BadRequest("sync must be a boolean")
			return
		}
		sync = parsed
	}

	if !h.retrainLimiter.Allow() {
		metrics.RecordRetrainThrottled()
		rw.TooManyRequests("Retraining was requested too recently, retry later")
		return
	}

	if sync {
		report, err := h.engine.Train(r.Context(), recommend.TriggerAPI)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		rw.Success(report)
		return
	}

	runID, err := h.engine.StartTraining(r.Context(), recommend.TriggerAPI)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	logging.CtxInfo(r.Context()).Str("run_id", runID).Msg("Retraining started")
	rw.Accepted(RetrainAccepted{
		RunID:   runID,
		Message: "Training started",
	})
}

// Reload handles POST /api/v1/model/reload
// Loads the newest persisted artifact into the serving slot.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	info, err := h.engine.Reload(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteSuccess(w, r, info)
}
