// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/filmwise/internal/dataset"
	"github.com/tomtom215/filmwise/internal/metrics"
	"github.com/tomtom215/filmwise/internal/recommend/algorithms"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRatings() []dataset.Rating {
	return []dataset.Rating{
		{User: "alice", Movie: "inception", Value: 5},
		{User: "alice", Movie: "heat", Value: 3},
		{User: "bob", Movie: "inception", Value: 4},
		{User: "bob", Movie: "up", Value: 2},
	}
}

func trainedSVD(t *testing.T) *algorithms.SVD {
	t.Helper()
	cfg := algorithms.DefaultSVDConfig()
	cfg.Factors = 4
	cfg.Epochs = 5
	svd := algorithms.NewSVD(cfg)
	if err := svd.Train(context.Background(), testRatings()); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return svd
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	state := trainedSVD(t).State()
	if err := store.Save(ctx, "svd", "abc", state, ModelMetadata{RatingCount: 4, RMSE: 0.9}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var loaded algorithms.SVDState
	meta, err := store.Load(ctx, "svd", "abc", &loaded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if meta.Name != "svd" || meta.Fingerprint != "abc" {
		t.Errorf("metadata key = %s/%s, want svd/abc", meta.Name, meta.Fingerprint)
	}
	if meta.RatingCount != 4 || meta.RMSE != 0.9 {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Checksum == "" {
		t.Error("Checksum should not be empty")
	}
	if meta.SizeBytes == 0 {
		t.Error("SizeBytes should not be zero")
	}
	if meta.SavedAt.IsZero() {
		t.Error("SavedAt should be set")
	}
	if !reflect.DeepEqual(loaded, state) {
		t.Error("loaded state differs from saved state")
	}
}

func TestStore_LoadNotFound(t *testing.T) {
	store := setupTestStore(t)

	var state algorithms.SVDState
	if _, err := store.Load(context.Background(), "svd", "missing", &state); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Load() error = %v, want ErrModelNotFound", err)
	}
}

func TestStore_ChecksumMismatch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "svd", "fp", trainedSVD(t).State(), ModelMetadata{}); err != nil {
		t.Fatal(err)
	}
	other := algorithms.SVDState{Config: algorithms.DefaultSVDConfig()}
	if err := store.Save(ctx, "svd", "other", other, ModelMetadata{}); err != nil {
		t.Fatal(err)
	}

	// Swap in another model's payload under the first key.
	err := store.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(modelKey("svd", "other"))
		if err != nil {
			return err
		}
		payload, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return txn.Set(modelKey("svd", "fp"), payload)
	})
	if err != nil {
		t.Fatal(err)
	}

	var state algorithms.SVDState
	if _, err := store.Load(ctx, "svd", "fp", &state); err == nil {
		t.Error("Load() should detect checksum mismatch")
	}
}

func TestStore_SVDRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	svd := trainedSVD(t)
	fp := Fingerprint(testRatings(), svd.Config())

	missesBefore := testutil.ToFloat64(metrics.ModelStoreLookups.WithLabelValues("miss"))
	if _, _, err := store.LoadSVD(ctx, fp); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("LoadSVD() before save error = %v, want ErrModelNotFound", err)
	}
	if got := testutil.ToFloat64(metrics.ModelStoreLookups.WithLabelValues("miss")) - missesBefore; got != 1 {
		t.Errorf("miss counter delta = %f, want 1", got)
	}

	if err := store.SaveSVD(ctx, fp, svd, ModelMetadata{RatingCount: len(testRatings())}); err != nil {
		t.Fatalf("SaveSVD() error = %v", err)
	}

	restored, meta, err := store.LoadSVD(ctx, fp)
	if err != nil {
		t.Fatalf("LoadSVD() error = %v", err)
	}
	if meta.UserCount != 2 || meta.ItemCount != 3 || meta.Version != 1 {
		t.Errorf("metadata = %+v", meta)
	}
	for _, r := range testRatings() {
		if got, want := restored.Predict(r.User, r.Movie), svd.Predict(r.User, r.Movie); got != want {
			t.Errorf("Predict(%s, %s) = %f, want %f", r.User, r.Movie, got, want)
		}
	}
}

func TestStore_ListDeletePrune(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	state := algorithms.SVDState{Config: algorithms.DefaultSVDConfig()}

	for _, fp := range []string{"a", "b", "c"} {
		if err := store.Save(ctx, "svd", fp, state, ModelMetadata{}); err != nil {
			t.Fatal(err)
		}
	}

	models, err := store.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 3 {
		t.Errorf("ListModels() returned %d models, want 3", len(models))
	}

	if err := store.Delete(ctx, "svd", "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, "svd", "a"); err != nil {
		t.Errorf("Delete() of missing model error = %v", err)
	}

	removed, err := store.Prune(ctx, "svd", "c")
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}

	models, _ = store.ListModels(ctx)
	if len(models) != 1 || models[0].Fingerprint != "c" {
		t.Errorf("after prune = %+v, want only c", models)
	}
}

func TestStore_FileBacked(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	ctx := context.Background()
	svd := trainedSVD(t)

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.SaveSVD(ctx, "fp", svd, ModelMetadata{}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if _, _, err := reopened.LoadSVD(ctx, "fp"); err != nil {
		t.Errorf("LoadSVD() after reopen error = %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	cfg := algorithms.DefaultSVDConfig()
	base := Fingerprint(testRatings(), cfg)

	if base != Fingerprint(testRatings(), cfg) {
		t.Error("Fingerprint() not deterministic")
	}

	changedRating := testRatings()
	changedRating[0].Value = 4
	reordered := testRatings()
	reordered[0], reordered[1] = reordered[1], reordered[0]
	changedCfg := cfg
	changedCfg.Epochs = 21

	tests := []struct {
		name    string
		ratings []dataset.Rating
		cfg     algorithms.SVDConfig
	}{
		{"rating value", changedRating, cfg},
		{"order", reordered, cfg},
		{"config", testRatings(), changedCfg},
		{"subset", testRatings()[:3], cfg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if Fingerprint(tt.ratings, tt.cfg) == base {
				t.Errorf("Fingerprint() unchanged after %s change", tt.name)
			}
		})
	}
}
