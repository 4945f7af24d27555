// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/nichecompass/internal/logging"
	"github.com/tomtom215/nichecompass/internal/recommend"
	"github.com/tomtom215/nichecompass/internal/recommend/feature"
	"github.com/tomtom215/nichecompass/internal/recommend/storage"
)

// errorStatus maps an engine error to an HTTP status, error code and details.
// The boolean result is false for errors that have no client-facing mapping.
func errorStatus(err error) (status int, code string, details map[string]interface{}, ok bool) {
	var (
		dimErr    *feature.DimensionMismatchError
		finiteErr *feature.NonFiniteError
		dataErr   *feature.InsufficientDataError
		hyperErr  *feature.InvalidHyperparameterError
		notReady  *recommend.NotReadyError
		sourceErr *recommend.DataSourceError
	)

	switch {
	case errors.As(err, &notReady):
		return http.StatusServiceUnavailable, ErrCodeModelNotReady,
			map[string]interface{}{"state": notReady.State.String()}, true
	case errors.As(err, &dimErr):
		return http.StatusUnprocessableEntity, ErrCodeDimensionMismatch,
			map[string]interface{}{"expected": dimErr.Want, "received": dimErr.Got}, true
	case errors.As(err, &finiteErr):
		return http.StatusBadRequest, ErrCodeValidation,
			map[string]interface{}{"field": "features", "index": finiteErr.Index}, true
	case errors.Is(err, recommend.ErrInvalidThreshold):
		return http.StatusBadRequest, ErrCodeValidation,
			map[string]interface{}{"field": "confidence_threshold"}, true
	case errors.As(err, &dataErr):
		return http.StatusUnprocessableEntity, ErrCodeInsufficientData,
			map[string]interface{}{"samples": dataErr.Samples, "labels": dataErr.Labels}, true
	case errors.As(err, &hyperErr):
		return http.StatusUnprocessableEntity, ErrCodeInvalidHyperparameter,
			map[string]interface{}{"param": hyperErr.Param, "value": hyperErr.Value}, true
	case errors.Is(err, recommend.ErrTrainingInProgress):
		return http.StatusConflict, ErrCodeConflict, nil, true
	case errors.Is(err, storage.ErrArtifactNotFound):
		return http.StatusNotFound, ErrCodeArtifactNotFound, nil, true
	case errors.Is(err, storage.ErrArtifactCorrupt):
		return http.StatusInternalServerError, ErrCodeArtifactCorrupt, nil, true
	case errors.Is(err, recommend.ErrNoEvaluation):
		return http.StatusNotFound, ErrCodeNoEvaluation, nil, true
	case errors.Is(err, recommend.ErrNoDataSource):
		return http.StatusServiceUnavailable, ErrCodeDataSourceUnavailable, nil, true
	case errors.As(err, &sourceErr):
		return http.StatusServiceUnavailable, ErrCodeDataSourceUnavailable,
			map[string]interface{}{"source": sourceErr.Source}, true
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout, nil, true
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, nil, false
	}
}

// writeEngineError writes the envelope for an engine error. Unmapped errors
// are logged and answered with a generic 500.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, details, ok := errorStatus(err)
	if !ok {
		logging.CtxErr(r.Context(), err).Str("path", r.URL.Path).Msg("Unhandled engine error")
		NewResponseWriter(w, r).InternalError("Internal server error")
		return
	}
	if status >= http.StatusInternalServerError {
		logging.CtxErr(r.Context(), err).Str("code", code).Msg("Engine request failed")
	}
	var d interface{}
	if details != nil {
		d = details
	}
	NewResponseWriter(w, r).ErrorWithDetails(status, code, err.Error(), d)
}
