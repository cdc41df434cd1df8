// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

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
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/filmwise/internal/dataset"
	"github.com/tomtom215/filmwise/internal/logging"
	"github.com/tomtom215/filmwise/internal/metrics"
	"github.com/tomtom215/filmwise/internal/recommend/algorithms"
)

// ErrModelNotFound is returned when no model is stored under a key.
var ErrModelNotFound = errors.New("model not found")

// Key prefixes for BadgerDB storage
const (
	modelKeyPrefix = "model:"
	metaKeyPrefix  = "meta:"
)

// ModelMetadata contains information about a stored model.
type ModelMetadata struct {
	// Name is the model name (e.g., "svd").
	Name string `json:"name"`

	// Fingerprint identifies the training data and configuration.
	Fingerprint string `json:"fingerprint"`

	// Version is the in-process model version at save time.
	Version int `json:"version"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was saved.
	SavedAt time.Time `json:"saved_at"`

	// RatingCount is the number of ratings used for training.
	RatingCount int `json:"rating_count"`

	// UserCount is the number of unique users.
	UserCount int `json:"user_count"`

	// ItemCount is the number of unique movies.
	ItemCount int `json:"item_count"`

	// RMSE is the error measured on the held-out ratings, if any.
	RMSE float64 `json:"rmse,omitempty"`

	// Checksum is the SHA-256 checksum of the uncompressed model data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long training took.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// Store persists trained models in BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a model store at path.
// An empty path opens an in-memory store.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	opts.Logger = logging.NewPrintfLogger(logging.WithComponent("badger"))

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Debug().Str("path", path).Bool("in_memory", path == "").Msg("Model store opened")
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func modelKey(name, fingerprint string) []byte {
	return []byte(modelKeyPrefix + name + ":" + fingerprint)
}

func metaKey(name, fingerprint string) []byte {
	return []byte(metaKeyPrefix + name + ":" + fingerprint)
}

// Save stores a model under name and fingerprint, replacing any previous
// model with the same key.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name, fingerprint string, data interface{}, meta ModelMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Serialize model data
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()
	meta.Name = name
	meta.Fingerprint = fingerprint

	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(modelKey(name, fingerprint), compressed.Bytes()); err != nil {
			return fmt.Errorf("set model: %w", err)
		}
		if err := txn.Set(metaKey(name, fingerprint), metaData); err != nil {
			return fmt.Errorf("set metadata: %w", err)
		}
		return nil
	})
}

// Load decodes the model stored under name and fingerprint into target.
// It returns ErrModelNotFound when nothing is stored under the key.
func (s *Store) Load(ctx context.Context, name, fingerprint string, target interface{}) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meta ModelMetadata
	var compressed []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(name, fingerprint))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("get metadata: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		}); err != nil {
			return fmt.Errorf("decode metadata: %w", err)
		}

		item, err = txn.Get(modelKey(name, fingerprint))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("get model: %w", err)
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	checksum := hex.EncodeToString(hash[:])
	if checksum != meta.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", meta.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	return &meta, nil
}

// ListModels returns metadata for all stored models.
func (s *Store) ListModels(ctx context.Context) ([]ModelMetadata, error) {
	var models []ModelMetadata

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metaKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var meta ModelMetadata
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return fmt.Errorf("decode metadata: %w", err)
			}
			models = append(models, meta)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return models, nil
}

// Delete removes the model stored under name and fingerprint.
func (s *Store) Delete(ctx context.Context, name, fingerprint string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(modelKey(name, fingerprint)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete model: %w", err)
		}
		if err := txn.Delete(metaKey(name, fingerprint)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete metadata: %w", err)
		}
		return nil
	})
}

// Prune removes every stored version of name except the one under keep.
func (s *Store) Prune(ctx context.Context, name, keep string) (int, error) {
	models, err := s.ListModels(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := range models {
		if models[i].Name != name || models[i].Fingerprint == keep {
			continue
		}
		if err := s.Delete(ctx, name, models[i].Fingerprint); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// SVDModelName is the key name for the collaborative model.
const SVDModelName = "svd"

// LoadSVD restores the SVD model stored under fingerprint.
func (s *Store) LoadSVD(ctx context.Context, fingerprint string) (*algorithms.SVD, *ModelMetadata, error) {
	var state algorithms.SVDState
	meta, err := s.Load(ctx, SVDModelName, fingerprint, &state)
	if err != nil {
		if errors.Is(err, ErrModelNotFound) {
			metrics.RecordModelStoreLookup("miss")
		} else {
			metrics.RecordModelStoreLookup("error")
		}
		return nil, nil, err
	}

	model, err := algorithms.NewSVDFromState(state)
	if err != nil {
		metrics.RecordModelStoreLookup("error")
		return nil, nil, fmt.Errorf("restore svd: %w", err)
	}
	metrics.RecordModelStoreLookup("hit")
	return model, meta, nil
}

// SaveSVD stores model under fingerprint. meta is completed with the
// model's dimensions.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) SaveSVD(ctx context.Context, fingerprint string, model *algorithms.SVD, meta ModelMetadata) error {
	state := model.State()
	meta.Version = model.Version()
	meta.TrainedAt = model.LastTrainedAt()
	meta.UserCount = len(state.Users)
	meta.ItemCount = len(state.Items)
	return s.Save(ctx, SVDModelName, fingerprint, state, meta)
}

// Fingerprint identifies a training run. It changes whenever the training
// ratings, their order or the model configuration change.
func Fingerprint(ratings []dataset.Rating, cfg algorithms.SVDConfig) string {
	h := sha256.New()

	fmt.Fprintf(h, "svd|%d|%d|%s|%s|%s|%d|%s|%s\n",
		cfg.Factors, cfg.Epochs,
		formatFloat(cfg.LearningRate), formatFloat(cfg.Regularization), formatFloat(cfg.InitStd),
		cfg.Seed, formatFloat(cfg.MinRating), formatFloat(cfg.MaxRating))

	var b strings.Builder
	for _, r := range ratings {
		b.Reset()
		b.WriteString(strconv.Quote(r.User))
		b.WriteByte('\t')
		b.WriteString(strconv.Quote(r.Movie))
		b.WriteByte('\t')
		b.WriteString(formatFloat(r.Value))
		b.WriteByte('\n')
		_, _ = io.WriteString(h, b.String()) //nolint:errcheck // hash writes never fail
	}

	return hex.EncodeToString(h.Sum(nil))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Register gob types for serialization.
//
//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(algorithms.SVDState{})
	gob.Register(algorithms.SVDConfig{})
}
