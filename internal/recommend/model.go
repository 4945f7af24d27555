// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package recommend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/nichecompass/internal/recommend/algorithms"
	"github.com/tomtom215/nichecompass/internal/recommend/feature"
	"github.com/tomtom215/nichecompass/internal/recommend/preprocess"
	"github.com/tomtom215/nichecompass/internal/recommend/storage"
)

// Model is a fitted preprocessing pipeline plus classifier. It is immutable
// and safe for concurrent Predict calls; a retrain produces a new Model.
type Model struct {
	pipeline   *preprocess.Pipeline
	classifier *algorithms.KNN
	meta       ModelMetadata
}

// bundle is the persisted form of a Model.
type bundle struct {
	Scaler   preprocess.Scaler
	Selector preprocess.Selector
	KNN      algorithms.KNNState
	Meta     ModelMetadata
}

// Fit fits a pipeline and classifier on samples. The samples must already
// have passed data-quality validation.
func Fit(ctx context.Context, samples []feature.Sample, knn algorithms.KNNConfig, selectK int) (*Model, error) {
	pipeline := preprocess.NewPipeline(selectK)
	transformed, err := pipeline.FitTransform(samples)
	if err != nil {
		return nil, fmt.Errorf("fit preprocessing: %w", err)
	}

	classifier := algorithms.NewKNN(knn)
	if err := classifier.Fit(ctx, transformed); err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}

	return &Model{
		pipeline:   pipeline,
		classifier: classifier,
		meta: ModelMetadata{
			Dimension:   pipeline.InputDim(),
			Labels:      classifier.Classes(),
			SampleCount: classifier.Len(),
			KNN:         knn,
			SelectK:     selectK,
		},
	}, nil
}

// Predict classifies a raw feature vector.
func (m *Model) Predict(v feature.Vector) (algorithms.Result, error) {
	if err := v.CheckDim(m.meta.Dimension); err != nil {
		return algorithms.Result{}, err
	}
	if err := v.CheckFinite(); err != nil {
		return algorithms.Result{}, err
	}
	x, err := m.pipeline.Transform(v)
	if err != nil {
		return algorithms.Result{}, err
	}
	return m.classifier.Classify(x)
}

// Metadata returns a copy of the model metadata.
func (m *Model) Metadata() ModelMetadata {
	meta := m.meta
	meta.Labels = append([]string(nil), m.meta.Labels...)
	return meta
}

// Version returns the artifact version, 0 before the model is saved.
func (m *Model) Version() int {
	return m.meta.Version
}

// Dimension returns the raw input dimensionality.
func (m *Model) Dimension() int {
	return m.meta.Dimension
}

// Labels returns the sorted label set.
func (m *Model) Labels() []string {
	return append([]string(nil), m.meta.Labels...)
}

// Evaluation returns the holdout report, or nil when evaluation was skipped.
func (m *Model) Evaluation() *EvaluationReport {
	return m.meta.Evaluation
}

// FeatureImportance returns the selector's per-feature scores.
func (m *Model) FeatureImportance() []FeatureImportance {
	sel := m.pipeline.Selector
	importance := sel.Importance()
	selected := make(map[int]bool, len(sel.Selected))
	for _, idx := range sel.Selected {
		selected[idx] = true
	}

	out := make([]FeatureImportance, len(sel.Scores))
	for i, score := range sel.Scores {
		out[i] = FeatureImportance{
			Index:      i,
			Name:       feature.Name(i),
			Score:      score,
			Importance: importance[i],
			Selected:   selected[i],
		}
	}
	return out
}

// Info describes the model for the API.
func (m *Model) Info(state SlotState) *ModelInfo {
	info := &ModelInfo{
		Status:             state.String(),
		ModelType:          m.classifier.Name(),
		Name:               m.meta.Name,
		Version:            m.meta.Version,
		RunID:              m.meta.RunID,
		TrainedAt:          m.meta.TrainedAt,
		BestParams:         m.meta.KNN,
		SelectK:            m.meta.SelectK,
		HasScaler:          m.pipeline.Scaler.Fitted(),
		HasFeatureSelector: m.pipeline.Selector.Fitted(),
		Ensemble:           false,
		Dimension:          m.meta.Dimension,
		SelectedFeatures:   featureNames(m.pipeline.Selector.Selected),
		Labels:             m.Labels(),
		SampleCount:        m.meta.SampleCount,
	}
	if m.meta.Evaluation != nil {
		acc := m.meta.Evaluation.Accuracy
		info.Accuracy = &acc
	}
	return info
}

// withMeta returns a copy of m sharing the fitted state.
func (m *Model) withMeta(meta ModelMetadata) *Model {
	return &Model{pipeline: m.pipeline, classifier: m.classifier, meta: meta}
}

func (m *Model) toBundle() *bundle {
	return &bundle{
		Scaler:   *m.pipeline.Scaler,
		Selector: *m.pipeline.Selector,
		KNN:      m.classifier.State(),
		Meta:     m.meta,
	}
}

// fromBundle rebuilds a model and checks that its parts agree.
func fromBundle(b *bundle) (*Model, error) {
	scaler, selector := b.Scaler, b.Selector
	pipeline := &preprocess.Pipeline{Scaler: &scaler, Selector: &selector}
	if err := pipeline.Validate(); err != nil {
		return nil, fmt.Errorf("preprocessing state: %w", err)
	}

	classifier, err := algorithms.RestoreKNN(b.KNN)
	if err != nil {
		return nil, fmt.Errorf("restore classifier: %w", err)
	}
	if classifier.Dim() != pipeline.OutputDim() {
		return nil, fmt.Errorf("classifier dimension %d does not match pipeline output %d",
			classifier.Dim(), pipeline.OutputDim())
	}
	if b.Meta.Dimension != pipeline.InputDim() {
		return nil, fmt.Errorf("metadata dimension %d does not match pipeline input %d",
			b.Meta.Dimension, pipeline.InputDim())
	}

	meta := b.Meta
	meta.Labels = classifier.Classes()
	return &Model{pipeline: pipeline, classifier: classifier, meta: meta}, nil
}

// SaveModel persists m as the next version of name and returns the saved
// model with its version set.
func SaveModel(ctx context.Context, store *storage.Store, name string, m *Model, trainingDuration time.Duration) (*Model, *storage.ArtifactMetadata, error) {
	meta := m.meta
	meta.Name = name

	saved, err := store.Save(ctx, name, 0, m.withMeta(meta).toBundle(), storage.ArtifactMetadata{
		RunID:              meta.RunID,
		TrainedAt:          meta.TrainedAt,
		Dimension:          meta.Dimension,
		Labels:             meta.Labels,
		SampleCount:        meta.SampleCount,
		Hyperparameters:    hyperparameters(meta),
		TrainingDurationMS: trainingDuration.Milliseconds(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("save model: %w", err)
	}

	meta.Version = saved.Version
	return m.withMeta(meta), &saved, nil
}

// LoadModel loads version of name from store (0 loads the latest).
// A bundle that decodes but does not form a usable model is reported as
// storage.ErrArtifactCorrupt.
func LoadModel(ctx context.Context, store *storage.Store, name string, version int) (*Model, error) {
	var b bundle
	artifact, err := store.Load(ctx, name, version, &b)
	if err != nil {
		return nil, err
	}

	m, err := fromBundle(&b)
	if err != nil {
		return nil, fmt.Errorf("%w: %s v%d: %v", storage.ErrArtifactCorrupt, name, artifact.Version, err)
	}
	m.meta.Name = artifact.Name
	m.meta.Version = artifact.Version
	return m, nil
}

func hyperparameters(meta ModelMetadata) map[string]string {
	h := map[string]string{
		"k":         strconv.Itoa(meta.KNN.K),
		"metric":    meta.KNN.Metric.String(),
		"weighting": meta.KNN.Weighting.String(),
		"select_k":  strconv.Itoa(meta.SelectK),
	}
	if meta.KNN.Metric == algorithms.MetricMinkowski {
		h["p"] = strconv.FormatFloat(meta.KNN.P, 'g', -1, 64)
	}
	return h
}
