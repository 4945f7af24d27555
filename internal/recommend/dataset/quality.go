// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package dataset

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// Issue severities.
const (
	SeverityBlocking = "blocking"
	SeverityWarning  = "warning"
)

// imbalanceWarnRatio flags label distributions whose largest class is this
// many times the smallest.
const imbalanceWarnRatio = 10.0

// Issue is a data-quality finding.
type Issue struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// FeatureStats summarizes one feature column over finite values.
type FeatureStats struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Zeros int     `json:"zeros"`
}

// QualityReport describes a training set.
type QualityReport struct {
	Samples        int            `json:"samples"`
	Dimension      int            `json:"dimension"`
	Labels         map[string]int `json:"labels"`
	EmptyLabels    int            `json:"empty_labels"`
	NaNCount       int            `json:"nan_count"`
	InfCount       int            `json:"inf_count"`
	RaggedSamples  int            `json:"ragged_samples"`
	ImbalanceRatio float64        `json:"imbalance_ratio"`
	Features       []FeatureStats `json:"features"`
	Issues         []Issue        `json:"issues"`

	err error
}

// Validate inspects samples. Dimension is taken from the first sample;
// samples of other lengths count as ragged and are excluded from the
// per-feature statistics.
func Validate(samples []feature.Sample) *QualityReport {
	r := &QualityReport{
		Samples: len(samples),
		Labels:  make(map[string]int),
	}
	if len(samples) == 0 {
		r.block(&feature.InsufficientDataError{Reason: "no training samples"}, "dataset is empty")
		return r
	}

	r.Dimension = len(samples[0].Features)
	if r.Dimension == 0 {
		r.block(&feature.InsufficientDataError{Reason: "samples have no features", Samples: len(samples)},
			"first sample has no features")
		return r
	}

	columns := make([][]float64, r.Dimension)
	var firstRagged, firstNonFinite error
	for i := range samples {
		s := &samples[i]
		if s.Label == "" {
			r.EmptyLabels++
		} else {
			r.Labels[s.Label]++
		}

		if len(s.Features) != r.Dimension {
			r.RaggedSamples++
			if firstRagged == nil {
				firstRagged = &feature.DimensionMismatchError{Want: r.Dimension, Got: len(s.Features)}
			}
			continue
		}
		for j, v := range s.Features {
			switch {
			case math.IsNaN(v):
				r.NaNCount++
			case math.IsInf(v, 0):
				r.InfCount++
			default:
				columns[j] = append(columns[j], v)
				continue
			}
			if firstNonFinite == nil {
				firstNonFinite = &feature.NonFiniteError{Index: j, Value: v}
			}
		}
	}

	r.Features = make([]FeatureStats, r.Dimension)
	for j, col := range columns {
		fs := FeatureStats{Name: feature.Name(j)}
		if len(col) > 0 {
			mean, variance := stat.PopMeanVariance(col, nil)
			fs.Mean = mean
			fs.Std = math.Sqrt(variance)
			fs.Min = floats.Min(col)
			fs.Max = floats.Max(col)
			for _, v := range col {
				if v == 0 {
					fs.Zeros++
				}
			}
		}
		if len(col) > 1 && fs.Std == 0 {
			r.warn(fmt.Sprintf("feature %s is constant (%.4g)", fs.Name, fs.Mean))
		}
		r.Features[j] = fs
	}

	if firstRagged != nil {
		r.block(firstRagged, fmt.Sprintf("%d samples do not have %d features", r.RaggedSamples, r.Dimension))
	}
	if firstNonFinite != nil {
		r.block(firstNonFinite, fmt.Sprintf("%d NaN and %d infinite feature values", r.NaNCount, r.InfCount))
	}
	if r.EmptyLabels > 0 {
		r.block(&feature.InsufficientDataError{Reason: "samples with empty labels", Samples: r.EmptyLabels},
			fmt.Sprintf("%d samples have an empty label", r.EmptyLabels))
	}
	if len(r.Labels) < 2 {
		r.block(&feature.InsufficientDataError{
			Reason:  "need at least 2 distinct labels",
			Samples: len(samples),
			Labels:  len(r.Labels),
		}, fmt.Sprintf("only %d distinct labels", len(r.Labels)))
	}

	if len(r.Labels) > 0 {
		minCount, maxCount := math.MaxInt, 0
		for _, c := range r.Labels {
			minCount = min(minCount, c)
			maxCount = max(maxCount, c)
		}
		r.ImbalanceRatio = float64(maxCount) / float64(minCount)
		if r.ImbalanceRatio >= imbalanceWarnRatio {
			r.warn(fmt.Sprintf("label distribution is imbalanced (ratio %.1f)", r.ImbalanceRatio))
		}
		if minCount == 1 {
			r.warn("some labels have a single sample and cannot appear in both train and test splits")
		}
	}

	return r
}

func (r *QualityReport) block(err error, msg string) {
	if r.err == nil {
		r.err = err
	}
	r.Issues = append(r.Issues, Issue{Severity: SeverityBlocking, Message: msg})
}

func (r *QualityReport) warn(msg string) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityWarning, Message: msg})
}

// Err returns the first blocking issue as a typed error (InsufficientData,
// DimensionMismatch or NonFinite), or nil when the data can be trained on.
func (r *QualityReport) Err() error {
	return r.err
}

// OK reports whether there are no blocking issues.
func (r *QualityReport) OK() bool {
	return r.err == nil
}

// SortedLabels returns the label names in ascending order.
func (r *QualityReport) SortedLabels() []string {
	out := make([]string, 0, len(r.Labels))
	for l := range r.Labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
