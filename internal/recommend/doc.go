// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

// Package recommend serves business-niche recommendations from a
// k-nearest-neighbors model over entrepreneur profile vectors.
//
// # Architecture
//
// Training and serving share one preprocessing path:
//
//	Source -> dataset.Validate -> Pipeline.Fit -> KNN.Fit -> Store.Save -> Slot.Publish
//	request -> Pipeline.Transform -> KNN.Classify -> confidence gate -> ranked labels
//
// Subpackages hold the building blocks:
//
//   - feature: vectors, samples and the typed error taxonomy
//   - preprocess: standard scaler and ANOVA F feature selector
//   - algorithms: metric and weighting tables and the KNN classifier
//   - storage: versioned, checksummed, atomically written artifacts
//   - dataset: MongoDB, Badger, file and synthetic sources plus quality checks
//
// # Serving Slot
//
// The serving model lives in a Slot, an atomic pointer over the states
// Empty, Loading and Ready. Predictions load the pointer and never block.
// A Loading slot keeps serving its previous model; with no model at all,
// callers receive a *NotReadyError.
//
// # Training
//
// Engine.Train serializes runs with a TryLock, bounds each run with the
// configured timeout, evaluates a stratified holdout, refits on every
// sample, and persists the artifact before publishing it. Any failure
// leaves the previous model serving. Old artifacts are pruned to
// Training.KeepVersions after each successful run.
//
// # Usage
//
//	store, _ := storage.NewStore("./models")
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store, logger)
//	if err != nil {
//	    return err
//	}
//	engine.SetDataSource(dataset.SyntheticSource{PerNiche: 20, Seed: 42})
//
//	if _, err := engine.Train(ctx, recommend.TriggerStartup); err != nil {
//	    return err
//	}
//	p, err := engine.Predict(ctx, feature.Vector{3, 2, 5000, 20, 0.7, 0.4}, recommend.PredictOptions{})
//
// # Thread Safety
//
// Engine and Model are safe for concurrent use. Models are immutable; a
// retrain or reload publishes a new Model and purges the prediction cache.
package recommend
