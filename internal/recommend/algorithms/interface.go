// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package algorithms

import (
	"context"
	"errors"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// ErrNotTrained is returned when a classifier is queried before Fit.
var ErrNotTrained = errors.New("classifier is not trained")

// Classifier is a fitted-once, read-many label predictor.
type Classifier interface {
	// Name returns the algorithm identifier.
	Name() string

	// Fit stores or learns from the transformed training samples.
	Fit(ctx context.Context, samples []feature.Sample) error

	// Classify returns the predicted label and per-class probabilities.
	Classify(v feature.Vector) (Result, error)

	// Classes returns the training labels in lexicographic order.
	Classes() []string

	// Dim returns the expected input dimensionality.
	Dim() int
}

// Compile-time interface check.
var _ Classifier = (*KNN)(nil)

// ContextCancelled checks if the context has been cancelled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
