// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nichecompass/internal/logging"
	"github.com/tomtom215/nichecompass/internal/recommend"
	"github.com/tomtom215/nichecompass/internal/recommend/feature"
	"github.com/tomtom215/nichecompass/internal/validation"
)

// PredictRequest is the body of POST /api/v1/predict.
type PredictRequest struct {
	Features            []float64 `json:"features" validate:"required,min=1,max=1024,dive,finite"`
	ConfidenceThreshold *float64  `json:"confidence_threshold,omitempty" validate:"omitempty,finite,gte=0,lte=1"`
	TopK                int       `json:"top_k,omitempty" validate:"omitempty,min=1,max=100"`
}

// PredictResponse is the data payload of a successful prediction.
type PredictResponse struct {
	Recommendations  []recommend.Recommendation `json:"recommendations"`
	PredictedLabel   string                     `json:"predicted_label"`
	Confidence       float64                    `json:"confidence"`
	HighConfidence   bool                       `json:"high_confidence"`
	ConfidenceScores []float64                  `json:"confidence_scores"`
	Probabilities    map[string]float64         `json:"probabilities"`
	Metadata         PredictMetadata            `json:"metadata"`
}

// PredictMetadata describes how a prediction was produced.
type PredictMetadata struct {
	InputFeaturesCount        int       `json:"input_features_count"`
	ConfidenceThreshold       float64   `json:"confidence_threshold"`
	HighConfidencePredictions int       `json:"high_confidence_predictions"`
	ModelVersion              int       `json:"model_version"`
	CacheHit                  bool      `json:"cache_hit"`
	Timestamp                 time.Time `json:"timestamp"`
}

// Predict handles POST /api/v1/predict.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PredictRequest
	if !h.decodeJSON(rw, w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.PredictTimeout)
	defer cancel()

	pred, err := h.engine.Predict(ctx, feature.Vector(req.Features), recommend.PredictOptions{
		Threshold: req.ConfidenceThreshold,
		TopK:      req.TopK,
	})
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	rw.Success(newPredictResponse(pred, len(req.Features)))
}

func newPredictResponse(p *recommend.Prediction, inputCount int) PredictResponse {
	highCount := 0
	for _, rec := range p.Recommendations {
		if rec.Probability >= p.Threshold {
			highCount++
		}
	}

	return PredictResponse{
		Recommendations:  p.Recommendations,
		PredictedLabel:   p.Label,
		Confidence:       p.Confidence,
		HighConfidence:   p.HighConfidence,
		ConfidenceScores: p.ConfidenceScores(),
		Probabilities:    p.Probabilities,
		Metadata: PredictMetadata{
			InputFeaturesCount:        inputCount,
			ConfidenceThreshold:       p.Threshold,
			HighConfidencePredictions: highCount,
			ModelVersion:              p.ModelVersion,
			CacheHit:                  p.CacheHit,
			Timestamp:                 time.Now().UTC(),
		},
	}
}

// decodeJSON reads a size-limited JSON body into dst. It writes the error
// response and returns false on failure.
func (h *Handler) decodeJSON(rw *ResponseWriter, w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
		case errors.Is(err, io.EOF):
			rw.BadRequest("Request body is required")
		default:
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Invalid JSON body")
			rw.BadRequest("Invalid JSON body")
		}
		return false
	}
	return true
}
