// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

// Package preprocess implements the stateful transform from raw feature
// vectors to model-ready vectors: standard scaling followed by ANOVA F
// feature selection.
//
// A Pipeline is fit once on training data and then applied through the same
// Transform method at training and serving time. Serving never refits.
package preprocess

import (
	"errors"
	"fmt"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// ErrNotFitted is returned when Transform is called before Fit or a load.
var ErrNotFitted = errors.New("preprocessing pipeline is not fitted")

// Pipeline chains a Scaler and a Selector.
type Pipeline struct {
	Scaler   *Scaler
	Selector *Selector
}

// NewPipeline returns an unfitted pipeline that keeps selectK features
// (0 keeps all).
func NewPipeline(selectK int) *Pipeline {
	return &Pipeline{
		Scaler:   &Scaler{},
		Selector: &Selector{K: selectK},
	}
}

// Fit learns scaler moments, then scores features on the scaled data.
func (p *Pipeline) Fit(samples []feature.Sample) error {
	if _, err := feature.Dimension(samples); err != nil {
		return err
	}
	vectors := feature.Vectors(samples)
	if err := p.Scaler.Fit(vectors); err != nil {
		return err
	}

	scaled := make([]feature.Vector, len(vectors))
	labels := make([]string, len(samples))
	for i, v := range vectors {
		sv, err := p.Scaler.Transform(v)
		if err != nil {
			return err
		}
		scaled[i] = sv
		labels[i] = samples[i].Label
	}
	return p.Selector.Fit(scaled, labels)
}

// Transform applies the fitted scaler then the selector.
func (p *Pipeline) Transform(v feature.Vector) (feature.Vector, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	scaled, err := p.Scaler.Transform(v)
	if err != nil {
		return nil, err
	}
	return p.Selector.Transform(scaled)
}

// FitTransform fits the pipeline and returns the samples transformed
// through Transform, labels preserved.
func (p *Pipeline) FitTransform(samples []feature.Sample) ([]feature.Sample, error) {
	if err := p.Fit(samples); err != nil {
		return nil, err
	}
	return p.TransformSamples(samples)
}

// TransformSamples applies Transform to every sample.
func (p *Pipeline) TransformSamples(samples []feature.Sample) ([]feature.Sample, error) {
	out := make([]feature.Sample, len(samples))
	for i := range samples {
		v, err := p.Transform(samples[i].Features)
		if err != nil {
			return nil, err
		}
		out[i] = feature.Sample{Features: v, Label: samples[i].Label}
	}
	return out, nil
}

// Fitted reports whether both stages are fitted and agree on dimensions.
func (p *Pipeline) Fitted() bool {
	return p != nil && p.Scaler.Fitted() && p.Selector.Fitted() && p.Scaler.Dim() == p.Selector.Dim
}

// Validate checks state restored from storage before it serves requests.
func (p *Pipeline) Validate() error {
	if p == nil || p.Scaler == nil || p.Selector == nil {
		return ErrNotFitted
	}
	if err := p.Scaler.Validate(); err != nil {
		return err
	}
	if err := p.Selector.Validate(); err != nil {
		return err
	}
	if p.Scaler.Dim() != p.Selector.Dim {
		return fmt.Errorf("scaler width %d does not match selector width %d", p.Scaler.Dim(), p.Selector.Dim)
	}
	return nil
}

// InputDim is the raw dimensionality d requests must match.
func (p *Pipeline) InputDim() int {
	if p == nil || p.Scaler == nil {
		return 0
	}
	return p.Scaler.Dim()
}

// OutputDim is the dimensionality after feature selection.
func (p *Pipeline) OutputDim() int {
	if p == nil || p.Selector == nil {
		return 0
	}
	return len(p.Selector.Selected)
}
