// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package algorithms

import (
	"context"
	"sort"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// KNNConfig contains the k-nearest-neighbors hyperparameters.
type KNNConfig struct {
	// K is the number of neighbors that vote. Must satisfy 1 <= K <= n.
	K int `json:"k"`

	// Metric is the distance function.
	Metric Metric `json:"metric"`

	// P is the Minkowski exponent. Ignored by other metrics; must be >= 1.
	P float64 `json:"p,omitempty"`

	// Weighting controls each neighbor's vote weight.
	Weighting Weighting `json:"weighting"`
}

// DefaultKNNConfig returns the serving defaults.
func DefaultKNNConfig() KNNConfig {
	return KNNConfig{
		K:         3,
		Metric:    MetricEuclidean,
		P:         2,
		Weighting: WeightUniform,
	}
}

// Validate checks the hyperparameters against a training set of n samples.
func (c KNNConfig) Validate(n int) error {
	if c.K < 1 {
		return &feature.InvalidHyperparameterError{Param: "k", Value: c.K, Reason: "must be at least 1"}
	}
	if n > 0 && c.K > n {
		return &feature.InvalidHyperparameterError{Param: "k", Value: c.K, Reason: "exceeds the number of training samples"}
	}
	if !c.Metric.Valid() {
		return &feature.InvalidHyperparameterError{Param: "metric", Value: c.Metric, Reason: "unsupported metric"}
	}
	if c.Metric == MetricMinkowski && !validMinkowskiP(c.P) {
		return &feature.InvalidHyperparameterError{Param: "p", Value: c.P, Reason: "minkowski p must be >= 1"}
	}
	if !c.Weighting.Valid() {
		return &feature.InvalidHyperparameterError{Param: "weighting", Value: c.Weighting, Reason: "unsupported weighting"}
	}
	return nil
}

// Neighbor is a training sample selected for a query.
type Neighbor struct {
	Index    int     `json:"index"`
	Label    string  `json:"label"`
	Distance float64 `json:"distance"`
}

// Result is the outcome of classifying one vector.
type Result struct {
	Label         string
	Probabilities map[string]float64
	Neighbors     []Neighbor
}

// KNN is a brute-force k-nearest-neighbors classifier.
//
// Samples are stored verbatim in insertion order. A fitted KNN is read-only
// and safe for concurrent Classify calls.
type KNN struct {
	config  KNNConfig
	vectors []feature.Vector
	labels  []string
	classes []string
	classID map[string]int
	dim     int
}

// NewKNN creates an unfitted classifier.
func NewKNN(cfg KNNConfig) *KNN {
	return &KNN{config: cfg}
}

// Name returns the algorithm identifier.
func (k *KNN) Name() string {
	return "knn"
}

// Config returns the hyperparameters.
func (k *KNN) Config() KNNConfig {
	return k.config
}

// Fit stores the samples and validates the hyperparameters against them.
func (k *KNN) Fit(ctx context.Context, samples []feature.Sample) error {
	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	d, err := feature.Dimension(samples)
	if err != nil {
		return err
	}
	if err := k.config.Validate(len(samples)); err != nil {
		return err
	}

	vectors := make([]feature.Vector, len(samples))
	labels := make([]string, len(samples))
	for i := range samples {
		vectors[i] = samples[i].Features.Clone()
		labels[i] = samples[i].Label
	}

	classes := feature.Labels(samples)
	classID := make(map[string]int, len(classes))
	for i, c := range classes {
		classID[c] = i
	}

	k.vectors = vectors
	k.labels = labels
	k.classes = classes
	k.classID = classID
	k.dim = d
	return nil
}

// Fitted reports whether Fit completed.
func (k *KNN) Fitted() bool {
	return k.dim > 0
}

// Dim returns the dimensionality of stored samples.
func (k *KNN) Dim() int {
	return k.dim
}

// Len returns the number of stored samples.
func (k *KNN) Len() int {
	return len(k.vectors)
}

// Classes returns the training labels in lexicographic order.
func (k *KNN) Classes() []string {
	return append([]string(nil), k.classes...)
}

// Neighbors returns the K nearest samples to v. Samples at equal distance
// keep insertion order, so the first-seen sample wins ties.
func (k *KNN) Neighbors(v feature.Vector) ([]Neighbor, error) {
	if !k.Fitted() {
		return nil, ErrNotTrained
	}
	if err := v.CheckDim(k.dim); err != nil {
		return nil, err
	}

	all := make([]Neighbor, len(k.vectors))
	for i, sample := range k.vectors {
		all[i] = Neighbor{
			Index:    i,
			Label:    k.labels[i],
			Distance: k.config.Metric.Distance(v, sample, k.config.P),
		}
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Distance < all[b].Distance
	})
	return all[:k.config.K], nil
}

// Classify predicts the label of v and its per-class probabilities.
// The predicted label has the highest aggregate weight; ties go to the
// lexicographically lowest label.
func (k *KNN) Classify(v feature.Vector) (Result, error) {
	neighbors, err := k.Neighbors(v)
	if err != nil {
		return Result{}, err
	}

	scores := make([]float64, len(k.classes))
	var total float64
	for _, n := range neighbors {
		w := k.config.Weighting.Weight(n.Distance)
		scores[k.classID[n.Label]] += w
		total += w
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	probs := make(map[string]float64, len(k.classes))
	for i, c := range k.classes {
		probs[c] = scores[i] / total
	}

	return Result{
		Label:         k.classes[best],
		Probabilities: probs,
		Neighbors:     neighbors,
	}, nil
}

// Predict returns the predicted label of v.
func (k *KNN) Predict(v feature.Vector) (string, error) {
	r, err := k.Classify(v)
	if err != nil {
		return "", err
	}
	return r.Label, nil
}

// PredictProba returns a probability for every training label.
// Labels absent from the neighborhood have probability 0.
func (k *KNN) PredictProba(v feature.Vector) (map[string]float64, error) {
	r, err := k.Classify(v)
	if err != nil {
		return nil, err
	}
	return r.Probabilities, nil
}

// KNNState is the serializable form of a fitted KNN.
type KNNState struct {
	Config  KNNConfig
	Vectors [][]float64
	Labels  []string
}

// State exports the fitted index for persistence.
func (k *KNN) State() KNNState {
	vectors := make([][]float64, len(k.vectors))
	for i, v := range k.vectors {
		vectors[i] = v
	}
	return KNNState{
		Config:  k.config,
		Vectors: vectors,
		Labels:  append([]string(nil), k.labels...),
	}
}

// RestoreKNN rebuilds a classifier from persisted state, re-running the
// same validation as Fit.
func RestoreKNN(state KNNState) (*KNN, error) {
	if len(state.Vectors) != len(state.Labels) {
		return nil, &feature.InsufficientDataError{
			Reason:  "persisted vector and label counts differ",
			Samples: len(state.Vectors),
			Labels:  len(state.Labels),
		}
	}
	samples := make([]feature.Sample, len(state.Vectors))
	for i := range state.Vectors {
		samples[i] = feature.Sample{Features: state.Vectors[i], Label: state.Labels[i]}
	}
	k := NewKNN(state.Config)
	if err := k.Fit(context.Background(), samples); err != nil {
		return nil, err
	}
	return k, nil
}
