// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

// Package dataset supplies labeled training samples to the engine.
//
// # Sources
//
//   - MongoSource: the production document store (compath.training_data)
//   - BadgerSource: an embedded key-value store for single-node deployments
//   - FileSource: JSON or YAML files for fixtures and offline training
//   - SyntheticSource: generated profiles around built-in niche archetypes
//
// BreakerSource wraps any remote source with a circuit breaker so a flapping
// database fails fast instead of stalling every scheduled retrain.
//
// Validate produces a data-quality report; Require enforces the minimum
// conditions under which classification is meaningful.
package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// Source yields labeled samples.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Samples returns every available labeled sample.
	Samples(ctx context.Context) ([]feature.Sample, error)
}

// Writer is implemented by sources that accept new samples (used by seeding).
type Writer interface {
	// Write appends samples and returns how many were stored.
	Write(ctx context.Context, samples []feature.Sample) (int, error)
}

// Require fails with InsufficientDataError when samples is empty or has
// fewer than two distinct labels.
func Require(samples []feature.Sample) error {
	if len(samples) == 0 {
		return &feature.InsufficientDataError{Reason: "no training samples"}
	}
	labels := feature.Labels(samples)
	if len(labels) < 2 {
		return &feature.InsufficientDataError{
			Reason:  "need at least 2 distinct labels",
			Samples: len(samples),
			Labels:  len(labels),
		}
	}
	return nil
}

// Type names a configured source kind.
type Type string

// Supported source kinds.
const (
	TypeMongo     Type = "mongo"
	TypeBadger    Type = "badger"
	TypeFile      Type = "file"
	TypeSynthetic Type = "synthetic"
)

// ParseType parses a source kind (case-insensitive).
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeMongo, TypeBadger, TypeFile, TypeSynthetic:
		return t, nil
	default:
		return "", fmt.Errorf("unknown datasource type %q (want mongo, badger, file or synthetic)", s)
	}
}
