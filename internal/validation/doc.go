// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator with application tags and
// user-facing messages, and converts failures to the API's VALIDATION_ERROR
// format.
//
// # Overview
//
//   - Singleton validator created with WithRequiredStructEnabled
//   - Field names are reported by their json tag (features, top_k)
//   - A custom finite tag rejects NaN and ±Inf floats
//   - Details never contain values JSON cannot encode
//
// # Quick Start
//
//	type PredictRequest struct {
//	    Features  []float64 `json:"features" validate:"required,min=1,dive,finite"`
//	    Threshold *float64  `json:"confidence_threshold" validate:"omitempty,finite,gte=0,lte=1"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
//
// # Error Messages
//
//	features is required
//	features[2] must be a finite number
//	features must contain at least 1 items
//	confidence_threshold must be less than or equal to 1
//
// With several failures, ToAPIError joins "field: message" pairs with "; "
// and lists each field under Details["fields"].
//
// # Thread Safety
//
// ValidateStruct is safe for concurrent use.
package validation
