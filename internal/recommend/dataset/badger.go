// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package dataset

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

var (
	badgerSamplePrefix = []byte("sample/")
	badgerSequenceKey  = []byte("meta/sample_seq")
)

// BadgerSource stores samples in an embedded BadgerDB under "sample/{seq}".
// Keys are big-endian sequence numbers so iteration follows insertion order.
type BadgerSource struct {
	db     *badger.DB
	seq    *badger.Sequence
	closed bool
}

// OpenBadgerSource opens (or creates) a BadgerDB at path. An empty path
// opens an in-memory database.
func OpenBadgerSource(path string) (*BadgerSource, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	seq, err := db.GetSequence(badgerSequenceKey, 256)
	if err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("open sample sequence: %w", err)
	}
	return &BadgerSource{db: db, seq: seq}, nil
}

// Name implements Source.
func (b *BadgerSource) Name() string {
	return "badger"
}

// Samples implements Source.
func (b *BadgerSource) Samples(ctx context.Context) ([]feature.Sample, error) {
	var samples []feature.Sample
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = badgerSamplePrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %s: %w", item.Key(), err)
			}
			var s feature.Sample
			if err := json.Unmarshal(val, &s); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
			samples = append(samples, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// Write implements Writer.
func (b *BadgerSource) Write(ctx context.Context, samples []feature.Sample) (int, error) {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range samples {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		id, err := b.seq.Next()
		if err != nil {
			return 0, fmt.Errorf("next sample id: %w", err)
		}
		val, err := json.Marshal(samples[i])
		if err != nil {
			return 0, fmt.Errorf("encode sample %d: %w", i, err)
		}
		if err := wb.Set(sampleKey(id), val); err != nil {
			return 0, fmt.Errorf("stage sample %d: %w", i, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush samples: %w", err)
	}
	return len(samples), nil
}

// Clear removes every stored sample.
func (b *BadgerSource) Clear() error {
	return b.db.DropPrefix(badgerSamplePrefix)
}

// Close releases the sequence lease and closes the database.
func (b *BadgerSource) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if err := b.seq.Release(); err != nil {
		_ = b.db.Close() //nolint:errcheck // report the release error
		return fmt.Errorf("release sample sequence: %w", err)
	}
	return b.db.Close()
}

func sampleKey(id uint64) []byte {
	key := make([]byte, len(badgerSamplePrefix)+8)
	copy(key, badgerSamplePrefix)
	binary.BigEndian.PutUint64(key[len(badgerSamplePrefix):], id)
	return key
}
