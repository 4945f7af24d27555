// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package preprocess

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// Selector keeps the K features with the highest one-way ANOVA F score
// against the labels. K <= 0 or K >= d keeps every feature.
//
// Selected holds column indices in ascending order so the output preserves
// the input column order.
type Selector struct {
	K        int
	Dim      int
	Scores   []float64
	Selected []int
}

// Fit scores every feature and chooses the selected columns.
func (s *Selector) Fit(vectors []feature.Vector, labels []string) error {
	if len(vectors) == 0 {
		return &feature.InsufficientDataError{Reason: "cannot fit selector on empty data"}
	}
	if len(vectors) != len(labels) {
		return &feature.InsufficientDataError{
			Reason:  "vector and label counts differ",
			Samples: len(vectors),
			Labels:  len(labels),
		}
	}
	d := len(vectors[0])
	for _, v := range vectors {
		if err := v.CheckDim(d); err != nil {
			return err
		}
	}

	scores := fScores(vectors, labels, d)

	k := s.K
	if k <= 0 || k > d {
		k = d
	}
	order := make([]int, d)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	selected := append([]int(nil), order[:k]...)
	sort.Ints(selected)

	s.Dim = d
	s.Scores = scores
	s.Selected = selected
	return nil
}

// Fitted reports whether the selector has been fitted.
func (s *Selector) Fitted() bool {
	return s != nil && s.Dim > 0 && len(s.Selected) > 0
}

// Validate checks a loaded selector: one non-negative score per input
// column, and selected columns strictly ascending within [0, Dim).
func (s *Selector) Validate() error {
	if !s.Fitted() {
		return ErrNotFitted
	}
	if len(s.Scores) != s.Dim {
		return fmt.Errorf("selector has %d scores for %d columns", len(s.Scores), s.Dim)
	}
	for i, sc := range s.Scores {
		if math.IsNaN(sc) || sc < 0 {
			return fmt.Errorf("selector score[%d] = %v is invalid", i, sc)
		}
	}
	for i, col := range s.Selected {
		if col < 0 || col >= s.Dim {
			return fmt.Errorf("selected column %d outside [0, %d)", col, s.Dim)
		}
		if i > 0 && col <= s.Selected[i-1] {
			return fmt.Errorf("selected columns are not strictly ascending at position %d", i)
		}
	}
	return nil
}

// Transform projects v onto the selected columns.
func (s *Selector) Transform(v feature.Vector) (feature.Vector, error) {
	if !s.Fitted() {
		return nil, ErrNotFitted
	}
	if err := v.CheckDim(s.Dim); err != nil {
		return nil, err
	}
	out := make(feature.Vector, len(s.Selected))
	for i, col := range s.Selected {
		out[i] = v[col]
	}
	return out, nil
}

// Importance returns each feature's F score divided by the largest score,
// so the most discriminative feature scores 1. Infinite scores (perfectly
// separating features) map to 1 and all-zero scores map to 0.
func (s *Selector) Importance() []float64 {
	out := make([]float64, len(s.Scores))
	if len(s.Scores) == 0 {
		return out
	}
	maxScore := floats.Max(s.Scores)
	for i, sc := range s.Scores {
		switch {
		case math.IsInf(maxScore, 1):
			if math.IsInf(sc, 1) {
				out[i] = 1
			}
		case maxScore > 0:
			out[i] = sc / maxScore
		}
	}
	return out
}

// fScores computes the one-way ANOVA F statistic of each column grouped by
// label. Constant columns score 0.
func fScores(vectors []feature.Vector, labels []string, d int) []float64 {
	groups := make(map[string][]int)
	var names []string
	for i, l := range labels {
		if _, ok := groups[l]; !ok {
			names = append(names, l)
		}
		groups[l] = append(groups[l], i)
	}
	sort.Strings(names)

	n := float64(len(vectors))
	g := float64(len(names))
	scores := make([]float64, d)
	if len(names) < 2 {
		return scores
	}

	col := make([]float64, len(vectors))
	for j := 0; j < d; j++ {
		for i, v := range vectors {
			col[i] = v[j]
		}
		grand := floats.Sum(col) / n

		var between, within float64
		for _, name := range names {
			idx := groups[name]
			var sum float64
			for _, i := range idx {
				sum += col[i]
			}
			gm := sum / float64(len(idx))
			between += float64(len(idx)) * (gm - grand) * (gm - grand)
			for _, i := range idx {
				within += (col[i] - gm) * (col[i] - gm)
			}
		}

		dfWithin := n - g
		switch {
		case between == 0:
			scores[j] = 0
		case within == 0 || dfWithin <= 0:
			scores[j] = math.Inf(1)
		default:
			scores[j] = (between / (g - 1)) / (within / dfWithin)
		}
	}
	return scores
}
