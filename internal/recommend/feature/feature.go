// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

// Package feature defines the model's atomic data types: feature vectors,
// labeled samples, and the error taxonomy shared by the preprocessing,
// classification and training packages.
package feature

import (
	"math"
	"sort"
	"strconv"
)

// Names lists the profile features in column order.
// Models may be trained on other dimensionalities; names beyond this list
// are reported as "feature_N".
var Names = []string{
	"education_level",
	"target_audience",
	"investment",
	"available_time",
	"creativity",
	"tech_affinity",
}

// Name returns the display name of feature column i.
func Name(i int) string {
	if i >= 0 && i < len(Names) {
		return Names[i]
	}
	return "feature_" + strconv.Itoa(i)
}

// Vector is an ordered, fixed-length sequence of real numbers.
type Vector []float64

// Clone returns a copy of the vector.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// CheckDim returns a DimensionMismatchError if len(v) != want.
func (v Vector) CheckDim(want int) error {
	if len(v) != want {
		return &DimensionMismatchError{Want: want, Got: len(v)}
	}
	return nil
}

// CheckFinite returns a NonFiniteError for the first NaN or Inf component.
func (v Vector) CheckFinite() error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &NonFiniteError{Index: i, Value: x}
		}
	}
	return nil
}

// Sample is a labeled feature vector.
type Sample struct {
	Features Vector `json:"features" yaml:"features" bson:"features"`
	Label    string `json:"label" yaml:"label" bson:"label"`
}

// Labels returns the distinct labels of samples in lexicographic order.
func Labels(samples []Sample) []string {
	seen := make(map[string]struct{}, 16)
	for i := range samples {
		seen[samples[i].Label] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Vectors returns the feature vectors of samples without copying them.
func Vectors(samples []Sample) []Vector {
	out := make([]Vector, len(samples))
	for i := range samples {
		out[i] = samples[i].Features
	}
	return out
}

// Dimension returns the common dimension of samples.
// An empty slice yields InsufficientDataError; ragged input yields
// DimensionMismatchError naming the first offending sample's length.
func Dimension(samples []Sample) (int, error) {
	if len(samples) == 0 {
		return 0, &InsufficientDataError{Reason: "no samples"}
	}
	d := len(samples[0].Features)
	if d == 0 {
		return 0, &InsufficientDataError{Reason: "samples have no features", Samples: len(samples)}
	}
	for i := 1; i < len(samples); i++ {
		if err := samples[i].Features.CheckDim(d); err != nil {
			return 0, err
		}
	}
	return d, nil
}
