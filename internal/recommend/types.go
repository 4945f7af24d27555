// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package recommend

import (
	"time"

	"github.com/tomtom215/nichecompass/internal/recommend/algorithms"
	"github.com/tomtom215/nichecompass/internal/recommend/dataset"
	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// Recommendation is one ranked niche suggestion.
type Recommendation struct {
	// Label is the niche name.
	Label string `json:"label"`

	// Probability is the label's share of the neighbor vote.
	Probability float64 `json:"probability"`

	// Rank is 1 for the most probable label.
	Rank int `json:"rank"`
}

// PredictOptions tunes a single prediction.
type PredictOptions struct {
	// Threshold overrides the configured confidence threshold when non-nil.
	Threshold *float64

	// TopK overrides the configured number of recommendations when positive.
	TopK int
}

// Prediction is the result of classifying one feature vector.
// Cached predictions are shared between callers and must not be modified.
type Prediction struct {
	// Label is the predicted niche.
	Label string `json:"label"`

	// Probabilities holds every training label; values sum to 1.
	Probabilities map[string]float64 `json:"probabilities"`

	// Confidence is the probability of the predicted label.
	Confidence float64 `json:"confidence"`

	// HighConfidence reports Confidence >= Threshold.
	HighConfidence bool `json:"high_confidence"`

	// Threshold is the confidence threshold that was applied.
	Threshold float64 `json:"threshold"`

	// Recommendations lists the top labels by probability.
	Recommendations []Recommendation `json:"recommendations"`

	// ModelVersion is the artifact version that served the request.
	ModelVersion int `json:"model_version"`

	// CacheHit is set when the prediction came from the cache.
	CacheHit bool `json:"cache_hit"`
}

// ConfidenceScores returns the recommendation probabilities in rank order.
func (p *Prediction) ConfidenceScores() []float64 {
	scores := make([]float64, len(p.Recommendations))
	for i, r := range p.Recommendations {
		scores[i] = r.Probability
	}
	return scores
}

// ModelMetadata describes a fitted model.
type ModelMetadata struct {
	Name        string               `json:"name"`
	Version     int                  `json:"version"`
	RunID       string               `json:"run_id"`
	TrainedAt   time.Time            `json:"trained_at"`
	Dimension   int                  `json:"dimension"`
	Labels      []string             `json:"labels"`
	SampleCount int                  `json:"sample_count"`
	KNN         algorithms.KNNConfig `json:"knn"`
	SelectK     int                  `json:"select_k"`
	Evaluation  *EvaluationReport    `json:"evaluation,omitempty"`
}

// ModelInfo is the public description of the serving model.
type ModelInfo struct {
	Status             string               `json:"status"`
	ModelType          string               `json:"model_type"`
	Name               string               `json:"name"`
	Version            int                  `json:"version"`
	RunID              string               `json:"run_id"`
	TrainedAt          time.Time            `json:"trained_at"`
	BestParams         algorithms.KNNConfig `json:"best_params"`
	SelectK            int                  `json:"select_k"`
	HasScaler          bool                 `json:"has_scaler"`
	HasFeatureSelector bool                 `json:"has_feature_selector"`
	Ensemble           bool                 `json:"ensemble"`
	Dimension          int                  `json:"dimension"`
	SelectedFeatures   []string             `json:"selected_features"`
	Labels             []string             `json:"labels"`
	SampleCount        int                  `json:"sample_count"`
	Accuracy           *float64             `json:"accuracy,omitempty"`
}

// FeatureImportance is one feature's ANOVA F score and relative importance.
type FeatureImportance struct {
	Index      int     `json:"index"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Importance float64 `json:"importance"`
	Selected   bool    `json:"selected"`
}

// LabelScores are the holdout scores of one label.
type LabelScores struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// EvaluationReport holds holdout scores. ConfusionMatrix[i][j] counts test
// samples of Labels[i] predicted as Labels[j].
type EvaluationReport struct {
	TrainSamples    int                    `json:"train_samples"`
	TestSamples     int                    `json:"test_samples"`
	Accuracy        float64                `json:"accuracy"`
	PrecisionMacro  float64                `json:"precision_macro"`
	RecallMacro     float64                `json:"recall_macro"`
	F1Macro         float64                `json:"f1_macro"`
	PrecisionMicro  float64                `json:"precision_micro"`
	RecallMicro     float64                `json:"recall_micro"`
	F1Micro         float64                `json:"f1_micro"`
	PerLabel        map[string]LabelScores `json:"per_label"`
	Labels          []string               `json:"labels"`
	ConfusionMatrix [][]int                `json:"confusion_matrix"`
}

// TrainingReport summarizes a completed training run.
type TrainingReport struct {
	RunID        string                 `json:"run_id"`
	Trigger      string                 `json:"trigger"`
	ModelName    string                 `json:"model_name"`
	Version      int                    `json:"version"`
	Source       string                 `json:"source"`
	Samples      int                    `json:"samples"`
	Dimension    int                    `json:"dimension"`
	Labels       []string               `json:"labels"`
	DurationMS   int64                  `json:"duration_ms"`
	Evaluation   *EvaluationReport      `json:"evaluation,omitempty"`
	Quality      *dataset.QualityReport `json:"quality"`
	PrunedModels int                    `json:"pruned_models"`
}

// TrainingStatus represents the current training state.
type TrainingStatus struct {
	// IsTraining indicates whether training is currently in progress.
	IsTraining bool `json:"is_training"`

	// SlotState is the serving slot state.
	SlotState SlotState `json:"slot_state"`

	// ModelVersion is the serving model version, 0 when empty.
	ModelVersion int `json:"model_version"`

	// RunID identifies the current or last training run.
	RunID string `json:"run_id,omitempty"`

	// Trigger names what started the current or last run.
	Trigger string `json:"trigger,omitempty"`

	// LastStartedAt is when the current or last run began.
	LastStartedAt time.Time `json:"last_started_at,omitempty"`

	// LastTrainedAt is when training last succeeded.
	LastTrainedAt time.Time `json:"last_trained_at,omitempty"`

	// LastTrainingDurationMS is how long the last run took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError contains the last training error, if any.
	LastError string `json:"last_error,omitempty"`

	// LastReport is the report of the last successful run.
	LastReport *TrainingReport `json:"last_report,omitempty"`
}

// Training triggers.
const (
	TriggerStartup   = "startup"
	TriggerScheduled = "scheduled"
	TriggerAPI       = "api"
	TriggerCLI       = "cli"
)

// featureNames returns display names for column indices.
func featureNames(indices []int) []string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = feature.Name(idx)
	}
	return names
}
