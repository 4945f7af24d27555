// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package recommend

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/nichecompass/internal/recommend/algorithms"
	"github.com/tomtom215/nichecompass/internal/recommend/dataset"
	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

func TestStratifiedSplit(t *testing.T) {
	samples := dataset.Generate(10, 7)
	samples = append(samples, feature.Sample{Features: feature.Vector{1, 1, 0, 5, 0.5, 0.5}, Label: "Singleton"})

	train, test := StratifiedSplit(samples, 0.2, 42)
	if len(train)+len(test) != len(samples) {
		t.Fatalf("split lost samples: %d + %d != %d", len(train), len(test), len(samples))
	}

	testCounts := make(map[string]int)
	for _, s := range test {
		testCounts[s.Label]++
	}
	for _, a := range dataset.Archetypes {
		if testCounts[a.Niche] != 2 {
			t.Errorf("label %q has %d test samples, want 2", a.Niche, testCounts[a.Niche])
		}
	}
	if testCounts["Singleton"] != 0 {
		t.Error("single-sample label must stay in the training split")
	}

	train2, test2 := StratifiedSplit(samples, 0.2, 42)
	if !reflect.DeepEqual(train, train2) || !reflect.DeepEqual(test, test2) {
		t.Error("StratifiedSplit() is not deterministic for a fixed seed")
	}

	_, test3 := StratifiedSplit(samples, 0.2, 43)
	if reflect.DeepEqual(test, test3) {
		t.Error("different seeds produced the same split")
	}
}

func TestStratifiedSplit_KeepsOneTrainingSample(t *testing.T) {
	samples := []feature.Sample{
		{Features: feature.Vector{1}, Label: "A"},
		{Features: feature.Vector{2}, Label: "A"},
		{Features: feature.Vector{3}, Label: "B"},
		{Features: feature.Vector{4}, Label: "B"},
	}
	train, test := StratifiedSplit(samples, 0.9, 1)
	if len(train) != 2 || len(test) != 2 {
		t.Errorf("split = %d train, %d test; want 2, 2", len(train), len(test))
	}

	train, test = StratifiedSplit(samples, 0, 1)
	if len(train) != 4 || test != nil {
		t.Errorf("test_size 0 should keep every sample for training, got %d/%d", len(train), len(test))
	}
}

func TestScore(t *testing.T) {
	actual := []string{"A", "A", "A", "B", "B", "C"}
	predicted := []string{"A", "A", "B", "B", "C", "C"}

	r := Score(actual, predicted)

	if want := 4.0 / 6.0; math.Abs(r.Accuracy-want) > 1e-12 {
		t.Errorf("Accuracy = %v, want %v", r.Accuracy, want)
	}
	if r.F1Micro != r.Accuracy || r.PrecisionMicro != r.Accuracy {
		t.Errorf("micro averages = %v/%v, want accuracy %v", r.PrecisionMicro, r.F1Micro, r.Accuracy)
	}

	wantMatrix := [][]int{
		{2, 1, 0},
		{0, 1, 1},
		{0, 0, 1},
	}
	if !reflect.DeepEqual(r.ConfusionMatrix, wantMatrix) {
		t.Errorf("ConfusionMatrix = %v, want %v", r.ConfusionMatrix, wantMatrix)
	}

	a := r.PerLabel["A"]
	if a.Precision != 1 || math.Abs(a.Recall-2.0/3.0) > 1e-12 || a.Support != 3 {
		t.Errorf("PerLabel[A] = %+v", a)
	}
	b := r.PerLabel["B"]
	if b.Precision != 0.5 || b.Recall != 0.5 || b.F1 != 0.5 {
		t.Errorf("PerLabel[B] = %+v", b)
	}

	wantPrecision := (1 + 0.5 + 0.5) / 3
	if math.Abs(r.PrecisionMacro-wantPrecision) > 1e-12 {
		t.Errorf("PrecisionMacro = %v, want %v", r.PrecisionMacro, wantPrecision)
	}
}

func TestScore_Empty(t *testing.T) {
	r := Score(nil, nil)
	if r.TestSamples != 0 || r.Accuracy != 0 || len(r.Labels) != 0 {
		t.Errorf("Score(nil) = %+v", r)
	}
}

func TestEvaluate(t *testing.T) {
	samples := dataset.Generate(10, 3)
	train, test := StratifiedSplit(samples, 0.2, 42)

	m, err := Fit(context.Background(), train, algorithms.DefaultKNNConfig(), 0)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	r, err := Evaluate(context.Background(), m, train, test)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if r.TrainSamples != len(train) || r.TestSamples != len(test) {
		t.Errorf("sample counts = %d/%d, want %d/%d", r.TrainSamples, r.TestSamples, len(train), len(test))
	}

	// Evaluate must agree with sequential prediction.
	var actual, predicted []string
	for _, s := range test {
		res, err := m.Predict(s.Features)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		actual = append(actual, s.Label)
		predicted = append(predicted, res.Label)
	}
	want := Score(actual, predicted)
	if r.Accuracy != want.Accuracy || !reflect.DeepEqual(r.ConfusionMatrix, want.ConfusionMatrix) {
		t.Errorf("Evaluate() accuracy %v differs from sequential %v", r.Accuracy, want.Accuracy)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Evaluate(ctx, m, train, test); err == nil {
		t.Error("Evaluate() with cancelled context error = nil")
	}
}
