// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package recommend

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/nichecompass/internal/recommend/algorithms"
	"github.com/tomtom215/nichecompass/internal/recommend/dataset"
	"github.com/tomtom215/nichecompass/internal/recommend/feature"
	"github.com/tomtom215/nichecompass/internal/recommend/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestFit_Predict(t *testing.T) {
	samples := dataset.Generate(8, 11)
	m, err := Fit(context.Background(), samples, algorithms.DefaultKNNConfig(), 4)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if m.Dimension() != len(feature.Names) {
		t.Errorf("Dimension() = %d, want %d", m.Dimension(), len(feature.Names))
	}
	if len(m.Labels()) != len(dataset.Archetypes) {
		t.Errorf("Labels() = %d, want %d", len(m.Labels()), len(dataset.Archetypes))
	}

	r, err := m.Predict(samples[0].Features)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	var sum float64
	for _, p := range r.Probabilities {
		sum += p
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("probabilities sum to %v, want 1", sum)
	}
	if len(r.Probabilities) != len(m.Labels()) {
		t.Errorf("probabilities cover %d labels, want %d", len(r.Probabilities), len(m.Labels()))
	}

	info := m.Info(StateReady)
	if !info.HasScaler || !info.HasFeatureSelector || info.Ensemble || info.ModelType != "knn" {
		t.Errorf("Info() = %+v", info)
	}
	if len(info.SelectedFeatures) != 4 {
		t.Errorf("SelectedFeatures = %v, want 4 names", info.SelectedFeatures)
	}

	fi := m.FeatureImportance()
	selected := 0
	maxImportance := 0.0
	for _, f := range fi {
		if f.Selected {
			selected++
		}
		maxImportance = math.Max(maxImportance, f.Importance)
	}
	if len(fi) != 6 || selected != 4 || maxImportance != 1 {
		t.Errorf("FeatureImportance() = %+v", fi)
	}
}

func TestModel_PredictRejectsBadInput(t *testing.T) {
	m, err := Fit(context.Background(), dataset.Generate(3, 1), algorithms.DefaultKNNConfig(), 0)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	tests := []struct {
		name string
		v    feature.Vector
		want error
	}{
		{"too short", feature.Vector{1, 2, 3, 4, 5}, feature.ErrDimensionMismatch},
		{"too long", feature.Vector{1, 2, 3, 4, 5, 6, 7}, feature.ErrDimensionMismatch},
		{"NaN", feature.Vector{1, 2, math.NaN(), 4, 5, 6}, feature.ErrNonFinite},
		{"Inf", feature.Vector{1, 2, 3, math.Inf(-1), 5, 6}, feature.ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Predict(tt.v); !errors.Is(err, tt.want) {
				t.Errorf("Predict() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFit_KLargerThanSamples(t *testing.T) {
	samples := []feature.Sample{
		{Features: feature.Vector{1, 2}, Label: "A"},
		{Features: feature.Vector{2, 1}, Label: "B"},
	}
	cfg := algorithms.DefaultKNNConfig()
	cfg.K = 3
	if _, err := Fit(context.Background(), samples, cfg, 0); !errors.Is(err, feature.ErrInvalidHyperparameter) {
		t.Errorf("Fit() error = %v, want ErrInvalidHyperparameter", err)
	}
}

func TestSaveLoadModel_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	samples := dataset.Generate(10, 5)
	train, heldOut := StratifiedSplit(samples, 0.3, 9)

	cfg := algorithms.KNNConfig{K: 5, Metric: algorithms.MetricMinkowski, P: 3, Weighting: algorithms.WeightInverseDistance}
	m, err := Fit(ctx, train, cfg, 5)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	m.meta.RunID = "run-1"
	m.meta.Evaluation = &EvaluationReport{Accuracy: 0.9, Labels: []string{"A"}, ConfusionMatrix: [][]int{{1}}}

	saved, artifact, err := SaveModel(ctx, store, "niche_knn", m, time.Second)
	if err != nil {
		t.Fatalf("SaveModel() error = %v", err)
	}
	if saved.Version() != 1 || artifact.Version != 1 {
		t.Errorf("saved version = %d/%d, want 1", saved.Version(), artifact.Version)
	}
	if artifact.Hyperparameters["p"] != "3" || artifact.Hyperparameters["weighting"] != "distance" {
		t.Errorf("artifact hyperparameters = %v", artifact.Hyperparameters)
	}

	loaded, err := LoadModel(ctx, store, "niche_knn", 0)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	if loaded.Version() != 1 || loaded.Metadata().RunID != "run-1" || loaded.Evaluation().Accuracy != 0.9 {
		t.Errorf("loaded metadata = %+v", loaded.Metadata())
	}
	if loaded.Metadata().KNN != cfg {
		t.Errorf("loaded KNN config = %+v, want %+v", loaded.Metadata().KNN, cfg)
	}

	for i, s := range heldOut {
		want, err := m.Predict(s.Features)
		if err != nil {
			t.Fatalf("original Predict() error = %v", err)
		}
		got, err := loaded.Predict(s.Features)
		if err != nil {
			t.Fatalf("loaded Predict() error = %v", err)
		}
		if got.Label != want.Label {
			t.Errorf("sample %d: label %q, want %q", i, got.Label, want.Label)
		}
		for label, p := range want.Probabilities {
			if math.Float64bits(got.Probabilities[label]) != math.Float64bits(p) {
				t.Errorf("sample %d: P(%s) = %v, want bit-identical %v", i, label, got.Probabilities[label], p)
			}
		}
	}
}

func TestLoadModel_Errors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := LoadModel(ctx, store, "niche_knn", 0); !errors.Is(err, storage.ErrArtifactNotFound) {
		t.Errorf("LoadModel() on empty store error = %v, want ErrArtifactNotFound", err)
	}

	// A well-formed artifact that does not hold a usable bundle is corrupt.
	if _, err := store.Save(ctx, "niche_knn", 0, &bundle{}, storage.ArtifactMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := LoadModel(ctx, store, "niche_knn", 0); !errors.Is(err, storage.ErrArtifactCorrupt) {
		t.Errorf("LoadModel() of empty bundle error = %v, want ErrArtifactCorrupt", err)
	}

	path := filepath.Join(store.Dir(), "niche_knn_v2.gob.gz")
	if err := os.WriteFile(path, []byte("not a model"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadModel(ctx, store, "niche_knn", 2); !errors.Is(err, storage.ErrArtifactCorrupt) {
		t.Errorf("LoadModel() of garbage file error = %v, want ErrArtifactCorrupt", err)
	}
}

func TestLoadModel_RejectsInconsistentPreprocessing(t *testing.T) {
	ctx := context.Background()
	samples := dataset.Generate(4, 1)
	cfg := algorithms.KNNConfig{K: 3, Metric: algorithms.MetricEuclidean, Weighting: algorithms.WeightUniform}

	tests := []struct {
		name   string
		mutate func(b *bundle)
	}{
		{
			name:   "selected column out of range",
			mutate: func(b *bundle) { b.Selector.Selected[len(b.Selector.Selected)-1] = b.Selector.Dim + 1 },
		},
		{
			name:   "negative selected column",
			mutate: func(b *bundle) { b.Selector.Selected[0] = -1 },
		},
		{
			name:   "duplicate selected column",
			mutate: func(b *bundle) { b.Selector.Selected[1] = b.Selector.Selected[0] },
		},
		{
			name:   "score count differs from width",
			mutate: func(b *bundle) { b.Selector.Scores = b.Selector.Scores[:2] },
		},
		{
			name:   "NaN score",
			mutate: func(b *bundle) { b.Selector.Scores[0] = math.NaN() },
		},
		{
			name:   "NaN mean",
			mutate: func(b *bundle) { b.Scaler.Mean[1] = math.NaN() },
		},
		{
			name:   "negative std",
			mutate: func(b *bundle) { b.Scaler.Std[2] = -1 },
		},
		{
			name:   "infinite std",
			mutate: func(b *bundle) { b.Scaler.Std[0] = math.Inf(1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			m, err := Fit(ctx, samples, cfg, 3)
			if err != nil {
				t.Fatalf("Fit() error = %v", err)
			}
			b := m.toBundle()
			tt.mutate(b)
			if _, err := store.Save(ctx, "niche_knn", 0, b, storage.ArtifactMetadata{}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			loaded, err := LoadModel(ctx, store, "niche_knn", 0)
			if !errors.Is(err, storage.ErrArtifactCorrupt) {
				t.Fatalf("LoadModel() error = %v, want ErrArtifactCorrupt", err)
			}
			if loaded != nil {
				t.Error("LoadModel() returned a model for a corrupt bundle")
			}
		})
	}
}
