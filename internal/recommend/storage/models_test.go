// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package storage

import (
	"context"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"
)

type testBundle struct {
	Mean    []float64
	Vectors [][]float64
	Labels  []string
}

func sampleBundle() testBundle {
	return testBundle{
		Mean:    []float64{3.1, 2.9, 12000, 33.5, 0.41, 0.44},
		Vectors: [][]float64{{0.1, -0.2}, {1.5, 0.3}},
		Labels:  []string{"Padaria", "Podcast"},
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates directory if not exists",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "new_dir")
			},
			wantErr: false,
		},
		{
			name: "uses existing directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			store, err := NewStore(dir)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewStore() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && store == nil {
				t.Error("NewStore() returned nil store without error")
			}
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	trainedAt := time.Now().UTC().Truncate(time.Second)
	saved, err := store.Save(ctx, "niche_knn", 0, sampleBundle(), ArtifactMetadata{
		TrainedAt:   trainedAt,
		Dimension:   6,
		Labels:      []string{"Padaria", "Podcast"},
		SampleCount: 2,
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Version != 1 {
		t.Errorf("Save() version = %d, want 1", saved.Version)
	}
	if saved.Checksum == "" || saved.SizeBytes == 0 {
		t.Errorf("Save() metadata missing checksum/size: %+v", saved)
	}

	var loaded testBundle
	meta, err := store.Load(ctx, "niche_knn", 1, &loaded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, sampleBundle()) {
		t.Errorf("Load() data = %+v, want %+v", loaded, sampleBundle())
	}
	if meta.Dimension != 6 || !reflect.DeepEqual(meta.Labels, []string{"Padaria", "Podcast"}) {
		t.Errorf("Load() metadata = %+v", meta)
	}
	if meta.FormatVersion != FormatVersion {
		t.Errorf("FormatVersion = %d, want %d", meta.FormatVersion, FormatVersion)
	}
	if !meta.TrainedAt.Equal(trainedAt) {
		t.Errorf("TrainedAt = %v, want %v", meta.TrainedAt, trainedAt)
	}
}

func TestStore_LoadLatest(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		b := sampleBundle()
		b.Labels = append(b.Labels, "v"+string(rune('0'+i)))
		if _, err := store.Save(ctx, "niche_knn", 0, b, ArtifactMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	var loaded testBundle
	meta, err := store.Load(ctx, "niche_knn", 0, &loaded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if meta.Version != 3 {
		t.Errorf("latest version = %d, want 3", meta.Version)
	}
	if loaded.Labels[len(loaded.Labels)-1] != "v3" {
		t.Errorf("loaded labels = %v, want trailing v3", loaded.Labels)
	}
}

func TestStore_VersionsSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := store.Save(ctx, "niche_knn", 0, sampleBundle(), ArtifactMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() reopen error = %v", err)
	}
	if v, ok := reopened.GetLatestVersion("niche_knn"); !ok || v != 2 {
		t.Errorf("GetLatestVersion() = %d, %v; want 2, true", v, ok)
	}
}

func TestStore_LoadNotFound(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	var target testBundle
	if _, err := store.Load(ctx, "niche_knn", 0, &target); !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("Load(latest) error = %v, want ErrArtifactNotFound", err)
	}
	if _, err := store.Load(ctx, "niche_knn", 7, &target); !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("Load(v7) error = %v, want ErrArtifactNotFound", err)
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		corrupt func(t *testing.T, path string)
	}{
		{
			name: "truncated file",
			corrupt: func(t *testing.T, path string) {
				data, err := os.ReadFile(path)
				if err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, data[:len(data)/2], 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "garbage file",
			corrupt: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("not a gob stream"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "incompatible format version",
			corrupt: func(t *testing.T, path string) {
				writeEnvelope(t, path, func(sf *storedFile) { sf.Metadata.FormatVersion = FormatVersion + 1 })
			},
		},
		{
			name: "checksum mismatch",
			corrupt: func(t *testing.T, path string) {
				writeEnvelope(t, path, func(sf *storedFile) { sf.Metadata.Checksum = "deadbeef" })
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(t.TempDir())
			if err != nil {
				t.Fatalf("NewStore() error = %v", err)
			}
			if _, err := store.Save(ctx, "niche_knn", 1, sampleBundle(), ArtifactMetadata{}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			tt.corrupt(t, store.modelPath("niche_knn", 1))

			var target testBundle
			if _, err := store.Load(ctx, "niche_knn", 1, &target); !errors.Is(err, ErrArtifactCorrupt) {
				t.Errorf("Load() error = %v, want ErrArtifactCorrupt", err)
			}
		})
	}
}

// writeEnvelope rewrites an artifact's envelope after applying mutate.
func writeEnvelope(t *testing.T, path string, mutate func(*storedFile)) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	var sf storedFile
	err = gob.NewDecoder(f).Decode(&sf)
	_ = f.Close()
	if err != nil {
		t.Fatal(err)
	}

	mutate(&sf)

	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	if err := gob.NewEncoder(out).Encode(sf); err != nil {
		t.Fatal(err)
	}
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, err := store.Save(context.Background(), "niche_knn", 0, sampleBundle(), ArtifactMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "niche_knn_v1.gob.gz" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory entries = %v, want [niche_knn_v1.gob.gz]", names)
	}
}

func TestStore_ConcurrentSaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()
	if _, err := store.Save(ctx, "niche_knn", 0, sampleBundle(), ArtifactMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	const writers = 8
	saved := make(chan int, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			meta, err := store.Save(ctx, "niche_knn", 0, sampleBundle(), ArtifactMetadata{})
			if err != nil {
				t.Errorf("concurrent Save() error = %v", err)
				return
			}
			saved <- meta.Version
		}()
		go func() {
			defer wg.Done()
			var target testBundle
			if _, err := store.Load(ctx, "niche_knn", 0, &target); err != nil {
				t.Errorf("concurrent Load() error = %v", err)
			}
		}()
	}
	wg.Wait()
	close(saved)

	seen := make(map[int]bool)
	for v := range saved {
		if seen[v] {
			t.Errorf("version %d allocated twice", v)
		}
		seen[v] = true
	}
	if v, _ := store.GetLatestVersion("niche_knn"); v != writers+1 {
		t.Errorf("GetLatestVersion() = %d, want %d", v, writers+1)
	}
}

func TestStore_SharedDirectory(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	server, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	cli, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, err := server.Save(ctx, "niche_knn", 0, sampleBundle(), ArtifactMetadata{RunID: "server-1"}); err != nil {
		t.Fatalf("server Save() error = %v", err)
	}
	cliMeta, err := cli.Save(ctx, "niche_knn", 0, sampleBundle(), ArtifactMetadata{RunID: "cli-1"})
	if err != nil {
		t.Fatalf("cli Save() error = %v", err)
	}
	if cliMeta.Version != 2 {
		t.Errorf("cli Save() version = %d, want 2", cliMeta.Version)
	}

	var target testBundle
	latest, err := server.Load(ctx, "niche_knn", 0, &target)
	if err != nil {
		t.Fatalf("server Load(latest) error = %v", err)
	}
	if latest.Version != 2 || latest.RunID != "cli-1" {
		t.Errorf("server Load(latest) = v%d %q, want v2 %q", latest.Version, latest.RunID, "cli-1")
	}

	next, err := server.Save(ctx, "niche_knn", 0, sampleBundle(), ArtifactMetadata{RunID: "server-2"})
	if err != nil {
		t.Fatalf("server Save() error = %v", err)
	}
	if next.Version != 3 {
		t.Errorf("server Save() version = %d, want 3", next.Version)
	}

	kept, err := cli.Load(ctx, "niche_knn", 2, &target)
	if err != nil {
		t.Fatalf("cli Load(v2) error = %v", err)
	}
	if kept.RunID != "cli-1" {
		t.Errorf("v2 RunID = %q, want %q", kept.RunID, "cli-1")
	}
}

func TestStore_SaveExistingVersion(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	if _, err := store.Save(ctx, "niche_knn", 1, sampleBundle(), ArtifactMetadata{RunID: "first"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Save(ctx, "niche_knn", 1, sampleBundle(), ArtifactMetadata{RunID: "second"}); !errors.Is(err, ErrArtifactExists) {
		t.Errorf("Save(existing) error = %v, want ErrArtifactExists", err)
	}

	meta, err := store.LoadMetadata(ctx, "niche_knn", 1)
	if err != nil {
		t.Fatalf("LoadMetadata() error = %v", err)
	}
	if meta.RunID != "first" {
		t.Errorf("LoadMetadata() RunID = %q, want %q", meta.RunID, "first")
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestStore_ListVersionsAndPrune(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Save(ctx, "niche_knn", 0, sampleBundle(), ArtifactMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	if _, err := store.Save(ctx, "other", 0, sampleBundle(), ArtifactMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	removed, err := store.Prune(ctx, "niche_knn", 2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("Prune() removed = %d, want 3", removed)
	}

	list, err := store.ListVersions(ctx, "niche_knn")
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	var got []int
	for _, m := range list {
		got = append(got, m.Version)
	}
	if !reflect.DeepEqual(got, []int{5, 4}) {
		t.Errorf("ListVersions() versions = %v, want [5 4]", got)
	}

	if _, ok := store.GetLatestVersion("other"); !ok {
		t.Error("Prune() affected an unrelated model")
	}
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := store.Save(ctx, "niche_knn", 0, sampleBundle(), ArtifactMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	if err := store.Delete(ctx, "niche_knn", 2); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if v, _ := store.GetLatestVersion("niche_knn"); v != 1 {
		t.Errorf("latest after delete = %d, want 1", v)
	}
	if err := store.Delete(ctx, "niche_knn", 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := store.GetLatestVersion("niche_knn"); ok {
		t.Error("GetLatestVersion() ok = true after deleting every version")
	}
	if err := store.Delete(ctx, "niche_knn", 1); !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrArtifactNotFound", err)
	}
}

func TestParseModelFilename(t *testing.T) {
	tests := []struct {
		in          string
		wantName    string
		wantVersion int
	}{
		{"niche_knn_v3", "niche_knn", 3},
		{"model_v12", "model", 12},
		{"noversion", "", 0},
		{"_v1", "", 0},
		{"model_vx", "", 0},
	}
	for _, tt := range tests {
		name, version := parseModelFilename(tt.in)
		if name != tt.wantName || version != tt.wantVersion {
			t.Errorf("parseModelFilename(%q) = %q, %d; want %q, %d", tt.in, name, version, tt.wantName, tt.wantVersion)
		}
	}
}
