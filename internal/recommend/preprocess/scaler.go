// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package preprocess

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// Scaler standardizes features to zero mean and unit variance using the
// population moments learned at fit time.
//
// Fields are exported for gob serialization; treat a fitted Scaler as
// immutable.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// Fit computes per-feature population mean and standard deviation.
func (s *Scaler) Fit(vectors []feature.Vector) error {
	if len(vectors) == 0 {
		return &feature.InsufficientDataError{Reason: "cannot fit scaler on empty data"}
	}
	d := len(vectors[0])
	if d == 0 {
		return &feature.InsufficientDataError{Reason: "cannot fit scaler on zero-width vectors", Samples: len(vectors)}
	}

	for _, v := range vectors {
		if err := v.CheckDim(d); err != nil {
			return err
		}
	}

	mean := make([]float64, d)
	std := make([]float64, d)
	col := make([]float64, len(vectors))
	for j := 0; j < d; j++ {
		for i, v := range vectors {
			col[i] = v[j]
		}
		m, variance := stat.PopMeanVariance(col, nil)
		mean[j] = m
		std[j] = math.Sqrt(variance)
	}

	s.Mean = mean
	s.Std = std
	return nil
}

// Dim returns the fitted input dimensionality, or 0 if unfitted.
func (s *Scaler) Dim() int {
	return len(s.Mean)
}

// Fitted reports whether Fit (or a load) populated the scaler.
func (s *Scaler) Fitted() bool {
	return s != nil && len(s.Mean) > 0 && len(s.Mean) == len(s.Std)
}

// Validate checks a loaded scaler: every mean must be finite and every
// std finite and non-negative.
func (s *Scaler) Validate() error {
	if !s.Fitted() {
		return ErrNotFitted
	}
	for i, m := range s.Mean {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("scaler mean[%d] = %v is not finite", i, m)
		}
		if sd := s.Std[i]; math.IsNaN(sd) || math.IsInf(sd, 0) || sd < 0 {
			return fmt.Errorf("scaler std[%d] = %v is not a finite non-negative value", i, sd)
		}
	}
	return nil
}

// Transform returns (v[i]-mean[i])/std[i], using 1 for a zero std.
func (s *Scaler) Transform(v feature.Vector) (feature.Vector, error) {
	if !s.Fitted() {
		return nil, ErrNotFitted
	}
	if err := v.CheckDim(len(s.Mean)); err != nil {
		return nil, err
	}
	out := make(feature.Vector, len(v))
	for i, x := range v {
		sd := s.Std[i]
		if sd == 0 {
			sd = 1
		}
		out[i] = (x - s.Mean[i]) / sd
	}
	return out, nil
}
