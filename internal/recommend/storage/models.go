// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FormatVersion is the on-disk bundle layout version. Bundles written with
// a different FormatVersion are rejected as corrupt.
const FormatVersion = 1

const artifactExt = ".gob.gz"

var (
	// ErrArtifactNotFound is returned when no artifact exists for a name/version.
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrArtifactCorrupt is returned when an artifact cannot be decoded,
	// fails its checksum, or was written by an incompatible format version.
	ErrArtifactCorrupt = errors.New("model artifact corrupt")

	// ErrArtifactExists is returned when saving a version that is already
	// on disk. Stored artifacts are never replaced.
	ErrArtifactExists = errors.New("model artifact already exists")
)

// maxSaveAttempts bounds version allocation retries when another writer
// claims the same version first.
const maxSaveAttempts = 5

// ArtifactMetadata describes a stored model bundle.
type ArtifactMetadata struct {
	// Name is the model name (e.g., "niche_knn").
	Name string `json:"name"`

	// Version is the artifact version (monotonically increasing per name).
	Version int `json:"version"`

	// FormatVersion is the bundle layout version.
	FormatVersion int `json:"format_version"`

	// RunID identifies the training run that produced the artifact.
	RunID string `json:"run_id,omitempty"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	// Dimension is the raw feature dimensionality requests must match.
	Dimension int `json:"dimension"`

	// Labels is the label set known at fit time, sorted.
	Labels []string `json:"labels"`

	// SampleCount is the number of samples the classifier indexes.
	SampleCount int `json:"sample_count"`

	// Hyperparameters records the classifier settings for display.
	Hyperparameters map[string]string `json:"hyperparameters,omitempty"`

	// Checksum is the SHA-256 of the uncompressed model data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long training took.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// storedFile is the on-disk format for artifact files.
type storedFile struct {
	Metadata       ArtifactMetadata
	CompressedData []byte
}

// Store manages versioned model artifacts in a directory. Several stores
// (in one or more processes) may share a directory: version lookups always
// read the directory, and a version file is created at most once.
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates a store rooted at baseDir, creating it if necessary.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	if _, err := os.ReadDir(baseDir); err != nil {
		return nil, fmt.Errorf("read storage directory: %w", err)
	}

	return &Store{baseDir: baseDir}, nil
}

// Dir returns the store's base directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// artifactFromFilename parses "{name}_v{version}.gob.gz". Temp files and
// directories are skipped.
func artifactFromFilename(entry fs.DirEntry) (name string, version int, ok bool) {
	if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
		return "", 0, false
	}
	base, found := strings.CutSuffix(entry.Name(), artifactExt)
	if !found {
		return "", 0, false
	}
	name, version = parseModelFilename(base)
	return name, version, name != "" && version > 0
}

// parseModelFilename extracts the model name and version from "niche_knn_v3".
func parseModelFilename(name string) (modelName string, version int) {
	idx := strings.LastIndex(name, "_v")
	if idx <= 0 {
		return "", 0
	}

	version, err := strconv.Atoi(name[idx+2:])
	if err != nil {
		return "", 0
	}

	return name[:idx], version
}

// Save encodes data as a new artifact. A version of 0 allocates the next
// version after the latest one on disk, retrying if another writer takes it
// first. An explicit version that already exists fails with
// ErrArtifactExists. The file is written to a temp file in the same
// directory and linked into place, so readers only ever see complete files.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, data any, meta ArtifactMetadata) (ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return ArtifactMetadata{}, err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return ArtifactMetadata{}, fmt.Errorf("invalid model name %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return ArtifactMetadata{}, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return ArtifactMetadata{}, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return ArtifactMetadata{}, fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.Name = name
	meta.FormatVersion = FormatVersion

	allocate := version <= 0
	for attempt := 1; ; attempt++ {
		if allocate {
			latest, _, err := s.latestOnDisk(name)
			if err != nil {
				return ArtifactMetadata{}, err
			}
			version = latest + 1
		}
		meta.Version = version
		meta.SavedAt = time.Now().UTC()

		sf := storedFile{
			Metadata:       meta,
			CompressedData: compressed.Bytes(),
		}
		err := writeFileExclusive(s.modelPath(name, version), func(w io.Writer) error {
			return gob.NewEncoder(w).Encode(sf)
		})
		if err == nil {
			return meta, nil
		}
		if !allocate || !errors.Is(err, ErrArtifactExists) || attempt >= maxSaveAttempts {
			return ArtifactMetadata{}, err
		}
	}
}

// writeFileExclusive writes via a temp file and fsync, then hard-links the
// temp file to path. The link fails if path exists, so an existing artifact
// is never replaced.
func writeFileExclusive(path string, write func(io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close() //nolint:errcheck // already failing
		}
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync model file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close model file: %w", err)
	}
	if err = os.Link(tmpName, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrArtifactExists, filepath.Base(path))
		}
		return fmt.Errorf("link model file: %w", err)
	}
	return nil
}

// Load decodes an artifact into target. A version of 0 loads the latest.
func (s *Store) Load(ctx context.Context, name string, version int, target any) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sf, err := s.readStoredFile(name, version)
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress model: %v", ErrArtifactCorrupt, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("%w: read decompressed data: %v", ErrArtifactCorrupt, err)
	}

	hash := sha256.Sum256(rawData)
	checksum := hex.EncodeToString(hash[:])
	if checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch: expected %s, got %s", ErrArtifactCorrupt, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("%w: decode model: %v", ErrArtifactCorrupt, err)
	}

	return &sf.Metadata, nil
}

// LoadMetadata reads only the metadata of an artifact.
func (s *Store) LoadMetadata(ctx context.Context, name string, version int) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sf, err := s.readStoredFile(name, version)
	if err != nil {
		return nil, err
	}
	return &sf.Metadata, nil
}

// readStoredFile resolves version 0 to the latest on disk and decodes the
// envelope. Caller holds s.mu.
func (s *Store) readStoredFile(name string, version int) (*storedFile, error) {
	if version <= 0 {
		latest, ok, err := s.latestOnDisk(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no versions of %s", ErrArtifactNotFound, name)
		}
		version = latest
	}

	f, err := os.Open(s.modelPath(name, version)) //nolint:gosec // path is built from the store dir and a validated name
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s v%d", ErrArtifactNotFound, name, version)
		}
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: read model file: %v", ErrArtifactCorrupt, err)
	}
	if sf.Metadata.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: format version %d, want %d", ErrArtifactCorrupt, sf.Metadata.FormatVersion, FormatVersion)
	}
	return &sf, nil
}

// GetLatestVersion returns the latest version number for a model.
func (s *Store) GetLatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok, err := s.latestOnDisk(name)
	if err != nil {
		return 0, false
	}
	return version, ok
}

// latestOnDisk returns the highest stored version of name.
func (s *Store) latestOnDisk(name string) (int, bool, error) {
	versions, err := s.versionsOnDisk(name)
	if err != nil || len(versions) == 0 {
		return 0, false, err
	}
	return versions[0], true, nil
}

// ListVersions returns metadata for every readable version of name, newest
// first. Unreadable files are skipped.
func (s *Store) ListVersions(ctx context.Context, name string) ([]ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, err := s.versionsOnDisk(name)
	if err != nil {
		return nil, err
	}

	out := make([]ArtifactMetadata, 0, len(versions))
	for _, v := range versions {
		sf, err := s.readStoredFile(name, v)
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	return out, nil
}

// versionsOnDisk lists the stored versions of name, newest first.
func (s *Store) versionsOnDisk(name string) ([]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var versions []int
	for _, entry := range entries {
		modelName, v, ok := artifactFromFilename(entry)
		if !ok || modelName != name {
			continue
		}
		versions = append(versions, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

// Delete removes a specific version.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.modelPath(name, version)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s v%d", ErrArtifactNotFound, name, version)
		}
		return fmt.Errorf("delete model: %w", err)
	}
	return nil
}

// Prune removes old versions of name, keeping the newest keepVersions.
// It returns the number of files removed.
func (s *Store) Prune(ctx context.Context, name string, keepVersions int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if keepVersions < 1 {
		keepVersions = 1
	}

	versions, err := s.versionsOnDisk(name)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := keepVersions; i < len(versions); i++ {
		if err := os.Remove(s.modelPath(name, versions[i])); err == nil {
			removed++
		}
	}

	return removed, nil
}

// modelPath returns the file path for an artifact.
func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, artifactExt))
}

// Register gob types for serialization.
//
//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(ArtifactMetadata{})
	gob.Register(storedFile{})
}
