// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

// Package algorithms implements the nearest-neighbor classifier that maps a
// preprocessed profile vector to niche probabilities.
//
// # Distance Metrics
//
// Metrics form a closed set dispatched through a strategy table:
//
//   - euclidean: L2 distance
//   - manhattan: L1 distance
//   - minkowski: Lp distance with p >= 1
//
// # Weighting
//
//   - uniform: every neighbor casts one vote
//   - distance: a neighbor at distance d casts 1/(d+Epsilon)
//
// # Determinism
//
// Neighbors are chosen by stable sort on distance, so equal distances keep
// training-set order. Label ties resolve to the lexicographically lowest
// label.
//
// # Usage
//
//	knn := algorithms.NewKNN(algorithms.DefaultKNNConfig())
//	if err := knn.Fit(ctx, samples); err != nil {
//	    return err
//	}
//	result, err := knn.Classify(vector)
package algorithms
