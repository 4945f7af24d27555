// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package algorithms

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Metric selects the distance function used by the neighbor index.
type Metric uint8

// Supported metrics.
const (
	MetricEuclidean Metric = iota + 1
	MetricManhattan
	MetricMinkowski
)

// distanceFunc computes the distance between equal-length vectors.
// p is only consulted by Minkowski.
type distanceFunc func(a, b []float64, p float64) float64

var metricTable = map[Metric]struct {
	name     string
	distance distanceFunc
}{
	MetricEuclidean: {"euclidean", func(a, b []float64, _ float64) float64 { return floats.Distance(a, b, 2) }},
	MetricManhattan: {"manhattan", func(a, b []float64, _ float64) float64 { return floats.Distance(a, b, 1) }},
	MetricMinkowski: {"minkowski", func(a, b []float64, p float64) float64 { return floats.Distance(a, b, p) }},
}

// ParseMetric parses a metric name (case-insensitive).
func ParseMetric(s string) (Metric, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, entry := range metricTable {
		if entry.name == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown distance metric %q (want euclidean, manhattan or minkowski)", s)
}

// String returns the metric name.
func (m Metric) String() string {
	if entry, ok := metricTable[m]; ok {
		return entry.name
	}
	return fmt.Sprintf("metric(%d)", uint8(m))
}

// Valid reports whether m is a supported metric.
func (m Metric) Valid() bool {
	_, ok := metricTable[m]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Distance returns the distance between a and b under m.
// The caller guarantees len(a) == len(b).
func (m Metric) Distance(a, b []float64, p float64) float64 {
	return metricTable[m].distance(a, b, p)
}

// validMinkowskiP reports whether p yields a proper metric.
func validMinkowskiP(p float64) bool {
	return !math.IsNaN(p) && p >= 1
}
