// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/nichecompass/internal/cache"
	"github.com/tomtom215/nichecompass/internal/logging"
	"github.com/tomtom215/nichecompass/internal/metrics"
	"github.com/tomtom215/nichecompass/internal/recommend/dataset"
	"github.com/tomtom215/nichecompass/internal/recommend/feature"
	"github.com/tomtom215/nichecompass/internal/recommend/storage"
)

var (
	// ErrTrainingInProgress is returned when a training run or reload is
	// requested while another holds the training lock.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrNoDataSource is returned when Train is called before SetDataSource.
	ErrNoDataSource = errors.New("training data source not configured")

	// ErrInvalidThreshold is returned for a confidence threshold outside [0, 1].
	ErrInvalidThreshold = errors.New("confidence threshold must be within [0, 1]")

	// ErrNoEvaluation is returned when the serving model was trained
	// without a holdout split.
	ErrNoEvaluation = errors.New("serving model has no evaluation report")
)

// DataSourceError reports a failure to read training samples.
type DataSourceError struct {
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("load training data from %s: %v", e.Source, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// Engine owns the serving slot and runs training. It is safe for
// concurrent use: predictions read the slot without locking, while training
// and reloads are serialized by the training lock.
type Engine struct {
	config    *Config
	logger    zerolog.Logger
	lifecycle *logging.ModelLogger
	store     *storage.Store
	slot      *Slot
	cache     *cache.PredictionCache[*Prediction]

	sourceMu sync.RWMutex
	source   dataset.Source

	// trainMu serializes training runs and reloads.
	trainMu sync.Mutex

	statusMu sync.RWMutex
	status   TrainingStatus

	// ctx bounds background training started by StartTraining.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates an engine with an Empty slot.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store *storage.Store, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("model store is required")
	}

	logger = logger.With().Str("component", "recommend").Logger()
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		config:    cfg.Clone(),
		logger:    logger,
		lifecycle: logging.NewModelLoggerWithLogger(logger),
		store:     store,
		slot:      NewSlot(),
		ctx:       ctx,
		cancel:    cancel,
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewPredictionCache[*Prediction](cfg.Cache.Size, cfg.Cache.TTL)
	}
	return e, nil
}

// Close cancels background training and waits for it to return.
func (e *Engine) Close() {
	e.cancel()
	e.wg.Wait()
}

// SetDataSource sets the source used by Train.
func (e *Engine) SetDataSource(src dataset.Source) {
	e.sourceMu.Lock()
	defer e.sourceMu.Unlock()
	e.source = src
}

// DataSource returns the configured training source.
func (e *Engine) DataSource() dataset.Source {
	e.sourceMu.RLock()
	defer e.sourceMu.RUnlock()
	return e.source
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Store returns the artifact store.
func (e *Engine) Store() *storage.Store {
	return e.store
}

// Train runs one training pass and publishes the result. It returns
// ErrTrainingInProgress immediately if another run holds the lock. On any
// failure the previously serving model stays in place.
func (e *Engine) Train(ctx context.Context, trigger string) (*TrainingReport, error) {
	if !e.trainMu.TryLock() {
		metrics.RecordTrainingRejected()
		return nil, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	return e.runTraining(ctx, uuid.New().String(), trigger)
}

// StartTraining starts a training pass in the background and returns its
// run ID. The run keeps the values of ctx but not its cancellation; it is
// cancelled by Close.
func (e *Engine) StartTraining(ctx context.Context, trigger string) (string, error) {
	if !e.trainMu.TryLock() {
		metrics.RecordTrainingRejected()
		return "", ErrTrainingInProgress
	}

	runID := uuid.New().String()
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(e.ctx, cancel)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.trainMu.Unlock()
		defer cancel()
		defer stop()

		if _, err := e.runTraining(runCtx, runID, trigger); err != nil {
			logging.CtxErr(runCtx, err).
				Str("run_id", runID).
				Msg("background training failed")
		}
	}()
	return runID, nil
}

// runTraining must be called with trainMu held.
func (e *Engine) runTraining(ctx context.Context, runID, trigger string) (report *TrainingReport, err error) {
	start := time.Now()
	name := e.config.ModelName
	sampleCount := 0

	e.setTrainingStarted(runID, trigger, start)
	e.lifecycle.LogTrainingStarted(runID, name, trigger)

	defer func() {
		duration := time.Since(start)
		metrics.RecordTraining(duration, sampleCount, err)
		e.setTrainingFinished(start, report, err)
		if err != nil {
			e.lifecycle.LogTrainingFailed(runID, name, duration, err)
			return
		}
		e.lifecycle.LogTrainingCompleted(runID, name, report.Version, duration, map[string]string{
			"samples":  strconv.Itoa(report.Samples),
			"source":   report.Source,
			"accuracy": accuracyString(report.Evaluation),
		})
	}()

	ctx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()
	ctx = logging.ContextWithLogger(ctx, e.logger)
	ctx = logging.ContextWithCorrelationID(ctx, runID)

	src := e.DataSource()
	if src == nil {
		return nil, ErrNoDataSource
	}

	samples, err := e.loadSamples(ctx, src)
	if err != nil {
		return nil, err
	}
	sampleCount = len(samples)
	if err := dataset.Require(samples); err != nil {
		return nil, err
	}

	quality := dataset.Validate(samples)
	if err := quality.Err(); err != nil {
		return nil, fmt.Errorf("training data rejected: %w", err)
	}
	if len(samples) < e.config.Training.MinSamples {
		return nil, &feature.InsufficientDataError{
			Reason:  fmt.Sprintf("need at least %d samples", e.config.Training.MinSamples),
			Samples: len(samples),
			Labels:  len(quality.Labels),
		}
	}
	for _, issue := range quality.Issues {
		logging.CtxWarn(ctx).Str("issue", issue.Message).Msg("training data warning")
	}

	e.slot.BeginLoading()
	published := false
	defer func() {
		if !published {
			e.slot.Abort()
		}
	}()

	evaluation, err := e.evaluateHoldout(ctx, samples)
	if err != nil {
		return nil, err
	}

	model, err := Fit(ctx, samples, e.config.KNN, e.config.SelectK)
	if err != nil {
		return nil, err
	}
	meta := model.meta
	meta.RunID = runID
	meta.TrainedAt = time.Now().UTC()
	meta.Evaluation = evaluation
	model = model.withMeta(meta)

	// Persist before publishing so the serving model always has an artifact.
	model, artifact, err := SaveModel(ctx, e.store, name, model, time.Since(start))
	if err != nil {
		return nil, err
	}

	e.publish(model)
	published = true

	report = &TrainingReport{
		RunID:      runID,
		Trigger:    trigger,
		ModelName:  name,
		Version:    artifact.Version,
		Source:     src.Name(),
		Samples:    len(samples),
		Dimension:  model.Dimension(),
		Labels:     model.Labels(),
		DurationMS: time.Since(start).Milliseconds(),
		Evaluation: evaluation,
		Quality:    quality,
	}
	report.PrunedModels = e.prune(ctx)
	return report, nil
}

func (e *Engine) loadSamples(ctx context.Context, src dataset.Source) ([]feature.Sample, error) {
	start := time.Now()
	samples, err := src.Samples(ctx)
	metrics.RecordDataSourceLoad(src.Name(), time.Since(start), err)
	if err != nil {
		return nil, &DataSourceError{Source: src.Name(), Err: err}
	}

	logging.CtxInfo(ctx).
		Str("source", src.Name()).
		Int("samples", len(samples)).
		Dur("duration", time.Since(start)).
		Msg("loaded training data")
	return samples, nil
}

// evaluateHoldout fits a throwaway model on the training split and scores
// it on the test split. It returns nil when evaluation is disabled or the
// split leaves no test samples. K is capped at the training split size for
// the holdout fit only; the served model always uses the configured K.
func (e *Engine) evaluateHoldout(ctx context.Context, samples []feature.Sample) (*EvaluationReport, error) {
	train, test := StratifiedSplit(samples, e.config.Training.TestSize, e.config.Training.Seed)
	if len(test) == 0 {
		return nil, nil
	}

	knn := e.config.KNN
	if knn.K > len(train) {
		logging.CtxWarn(ctx).
			Int("k", knn.K).
			Int("train", len(train)).
			Msg("n_neighbors exceeds holdout training split, evaluating with reduced k")
		knn.K = len(train)
	}

	holdout, err := Fit(ctx, train, knn, e.config.SelectK)
	if err != nil {
		return nil, fmt.Errorf("fit holdout model: %w", err)
	}
	report, err := Evaluate(ctx, holdout, train, test)
	if err != nil {
		return nil, fmt.Errorf("evaluate holdout: %w", err)
	}

	metrics.RecordEvaluation(report.Accuracy, report.PrecisionMacro, report.RecallMacro, report.F1Macro)
	logging.CtxInfo(ctx).
		Int("train", len(train)).
		Int("test", len(test)).
		Float64("accuracy", report.Accuracy).
		Float64("f1_macro", report.F1Macro).
		Msg("holdout evaluation complete")
	return report, nil
}

// publish swaps m into the slot and drops cached predictions.
func (e *Engine) publish(m *Model) {
	e.slot.Publish(m)
	if e.cache != nil {
		e.cache.Purge()
	}
	metrics.SetServingModel(m.Version())
}

func (e *Engine) prune(ctx context.Context) int {
	keep := e.config.Training.KeepVersions
	if keep <= 0 {
		return 0
	}
	removed, err := e.store.Prune(ctx, e.config.ModelName, keep)
	if err != nil {
		e.logger.Warn().Err(err).Msg("failed to prune old model versions")
	}
	if removed > 0 {
		e.lifecycle.LogArtifactsPruned(e.config.ModelName, removed, keep)
	}
	return removed
}

// Reload loads the latest persisted artifact into the slot. On failure the
// slot keeps whatever it held before.
func (e *Engine) Reload(ctx context.Context) (*ModelInfo, error) {
	if !e.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	e.slot.BeginLoading()
	m, err := LoadModel(ctx, e.store, e.config.ModelName, 0)
	metrics.RecordReload(err)
	if err != nil {
		e.slot.Abort()
		e.lifecycle.LogModelReloaded(e.config.ModelName, 0, err)
		return nil, err
	}

	e.publish(m)
	e.lifecycle.LogModelReloaded(e.config.ModelName, m.Version(), nil)
	return m.Info(StateReady), nil
}

// Predict classifies a raw feature vector against the serving model.
func (e *Engine) Predict(ctx context.Context, v feature.Vector, opts PredictOptions) (*Prediction, error) {
	start := time.Now()

	p, err := e.predict(v, opts)
	if err != nil {
		metrics.RecordPredictionError(err)
		logging.Ctx(ctx).Debug().Err(err).Msg("prediction rejected")
		return nil, err
	}

	metrics.RecordPrediction(time.Since(start), p.Confidence, p.HighConfidence)
	return p, nil
}

func (e *Engine) predict(v feature.Vector, opts PredictOptions) (*Prediction, error) {
	m, err := e.slot.Current()
	if err != nil {
		return nil, err
	}

	threshold := e.config.Serving.DefaultThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}
	if !ValidThreshold(threshold) {
		return nil, ErrInvalidThreshold
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = e.config.Serving.TopK
	}

	var key cache.Key
	if e.cache != nil {
		key = cache.NewKey(m.Version(), v, threshold, topK)
		if cached, ok := e.cache.Get(key); ok {
			hit := *cached
			hit.CacheHit = true
			return &hit, nil
		}
	}

	result, err := m.Predict(v)
	if err != nil {
		return nil, err
	}

	_, confidence := MaxProbability(result.Probabilities)
	p := &Prediction{
		Label:           result.Label,
		Probabilities:   result.Probabilities,
		Confidence:      confidence,
		HighConfidence:  IsHighConfidence(result.Probabilities, threshold),
		Threshold:       threshold,
		Recommendations: Rank(result.Probabilities, topK),
		ModelVersion:    m.Version(),
	}

	if e.cache != nil {
		e.cache.Add(key, p)
	}
	return p, nil
}

// Model returns the serving model.
func (e *Engine) Model() (*Model, error) {
	return e.slot.Current()
}

// Info describes the serving model.
func (e *Engine) Info() (*ModelInfo, error) {
	m, err := e.slot.Current()
	if err != nil {
		return nil, err
	}
	return m.Info(e.slot.State()), nil
}

// FeatureImportance returns per-feature importance of the serving model.
func (e *Engine) FeatureImportance() ([]FeatureImportance, error) {
	m, err := e.slot.Current()
	if err != nil {
		return nil, err
	}
	return m.FeatureImportance(), nil
}

// Performance returns the holdout report of the serving model.
func (e *Engine) Performance() (*EvaluationReport, error) {
	m, err := e.slot.Current()
	if err != nil {
		return nil, err
	}
	if m.Evaluation() == nil {
		return nil, ErrNoEvaluation
	}
	return m.Evaluation(), nil
}

// Versions lists persisted artifacts, newest first.
func (e *Engine) Versions(ctx context.Context) ([]storage.ArtifactMetadata, error) {
	return e.store.ListVersions(ctx, e.config.ModelName)
}

// Ready reports whether a model is serving.
func (e *Engine) Ready() bool {
	_, err := e.slot.Current()
	return err == nil
}

// SlotState returns the serving slot state.
func (e *Engine) SlotState() SlotState {
	return e.slot.State()
}

// CacheStats returns prediction cache statistics, or nil when disabled.
func (e *Engine) CacheStats() *cache.Stats {
	if e.cache == nil {
		return nil
	}
	stats := e.cache.GetStats()
	return &stats
}

// Status returns the current training status.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	status := e.status
	e.statusMu.RUnlock()

	status.SlotState = e.slot.State()
	if m, err := e.slot.Current(); err == nil {
		status.ModelVersion = m.Version()
	}
	return status
}

func (e *Engine) setTrainingStarted(runID, trigger string, start time.Time) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.status.IsTraining = true
	e.status.RunID = runID
	e.status.Trigger = trigger
	e.status.LastStartedAt = start
	e.status.LastError = ""
}

func (e *Engine) setTrainingFinished(start time.Time, report *TrainingReport, err error) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.status.IsTraining = false
	e.status.LastTrainingDurationMS = time.Since(start).Milliseconds()
	if err != nil {
		e.status.LastError = err.Error()
		return
	}
	e.status.LastTrainedAt = time.Now()
	e.status.LastReport = report
}

func accuracyString(r *EvaluationReport) string {
	if r == nil {
		return "n/a"
	}
	return strconv.FormatFloat(r.Accuracy, 'f', 4, 64)
}
