// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package recommend

import (
	"math"
	"sort"
)

// ValidThreshold reports whether t is a usable confidence threshold.
func ValidThreshold(t float64) bool {
	return !math.IsNaN(t) && t >= 0 && t <= 1
}

// IsHighConfidence reports whether the most probable label reaches threshold.
func IsHighConfidence(probs map[string]float64, threshold float64) bool {
	_, p := MaxProbability(probs)
	return p >= threshold
}

// MaxProbability returns the most probable label and its probability.
// Ties go to the lexicographically lowest label.
func MaxProbability(probs map[string]float64) (string, float64) {
	var (
		best  string
		bestP = -1.0
	)
	for label, p := range probs {
		if p > bestP || (p == bestP && label < best) {
			best, bestP = label, p
		}
	}
	if bestP < 0 {
		return "", 0
	}
	return best, bestP
}

// Rank orders every label by descending probability, ties by label, and
// returns the first topK. topK <= 0 returns all labels.
func Rank(probs map[string]float64, topK int) []Recommendation {
	labels := make([]string, 0, len(probs))
	for l := range probs {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		pi, pj := probs[labels[i]], probs[labels[j]]
		if pi != pj {
			return pi > pj
		}
		return labels[i] < labels[j]
	})

	if topK > 0 && topK < len(labels) {
		labels = labels[:topK]
	}

	recs := make([]Recommendation, len(labels))
	for i, l := range labels {
		recs[i] = Recommendation{
			Label:       l,
			Probability: probs[l],
			Rank:        i + 1,
		}
	}
	return recs
}
