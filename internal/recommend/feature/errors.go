// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package feature

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	ErrDimensionMismatch     = errors.New("dimension mismatch")
	ErrInsufficientData      = errors.New("insufficient data")
	ErrInvalidHyperparameter = errors.New("invalid hyperparameter")
	ErrNonFinite             = errors.New("non-finite feature value")
)

// DimensionMismatchError reports a vector whose length differs from the
// dimensionality the model was fitted on.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d features, got %d", e.Want, e.Got)
}

// Is allows errors.Is(err, ErrDimensionMismatch).
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// ErrorType labels the error in metrics.
func (e *DimensionMismatchError) ErrorType() string { return "dimension_mismatch" }

// InsufficientDataError reports a fit requested on empty or under-diverse data.
type InsufficientDataError struct {
	Reason  string
	Samples int
	Labels  int
}

func (e *InsufficientDataError) Error() string {
	if e.Samples == 0 && e.Labels == 0 {
		return "insufficient data: " + e.Reason
	}
	return fmt.Sprintf("insufficient data: %s (samples=%d, labels=%d)", e.Reason, e.Samples, e.Labels)
}

// Is allows errors.Is(err, ErrInsufficientData).
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// ErrorType labels the error in metrics.
func (e *InsufficientDataError) ErrorType() string { return "insufficient_data" }

// InvalidHyperparameterError reports a hyperparameter that cannot be used
// with the given training set, such as k larger than the sample count.
type InvalidHyperparameterError struct {
	Param  string
	Value  any
	Reason string
}

func (e *InvalidHyperparameterError) Error() string {
	return fmt.Sprintf("invalid hyperparameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

// Is allows errors.Is(err, ErrInvalidHyperparameter).
func (e *InvalidHyperparameterError) Is(target error) bool {
	return target == ErrInvalidHyperparameter
}

// ErrorType labels the error in metrics.
func (e *InvalidHyperparameterError) ErrorType() string { return "invalid_hyperparameter" }

// NonFiniteError reports a NaN or infinite vector component.
type NonFiniteError struct {
	Index int
	Value float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("feature %d is not finite (%v)", e.Index, e.Value)
}

// Is allows errors.Is(err, ErrNonFinite).
func (e *NonFiniteError) Is(target error) bool {
	return target == ErrNonFinite
}

// ErrorType labels the error in metrics.
func (e *NonFiniteError) ErrorType() string { return "non_finite" }
