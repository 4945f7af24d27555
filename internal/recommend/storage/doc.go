// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

// Package storage persists fitted model bundles as versioned artifacts.
//
// # Storage Format
//
// Each artifact is a single file:
//
//	filename: {model_name}_v{version}.gob.gz
//
//	structure (gob):
//	  - Metadata (ArtifactMetadata: format version, dimension, labels, checksum, ...)
//	  - CompressedData (gzip-compressed gob-encoded bundle)
//
// # Atomicity
//
// Save writes to a hidden temp file in the same directory, fsyncs it and
// hard-links it to the destination name. The link fails if that version
// already exists, so artifacts are never overwritten, and a concurrent Load
// never observes a partial write.
//
// Stores hold no version cache. The server and nichectl may share a
// directory: "latest" and "next version" are read from the directory on
// every call.
//
// # Errors
//
// Load returns ErrArtifactNotFound when the artifact is absent and
// ErrArtifactCorrupt when it cannot be decoded, fails its SHA-256 checksum,
// or carries a different FormatVersion. Both are wrapped; match with
// errors.Is.
//
// # Usage
//
//	store, err := storage.NewStore("/data/models")
//	meta, err := store.Save(ctx, "niche_knn", 0, bundle, storage.ArtifactMetadata{
//	    Dimension: 6,
//	    Labels:    labels,
//	})
//
//	var loaded Bundle
//	meta, err = store.Load(ctx, "niche_knn", 0, &loaded) // 0 = latest
//
// # Directory Structure
//
//	/data/models/
//	  niche_knn_v1.gob.gz
//	  niche_knn_v2.gob.gz
//	  niche_knn_v3.gob.gz     <- latest
//
// Prune keeps the newest N versions.
package storage
