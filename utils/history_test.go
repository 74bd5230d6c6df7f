package utils

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()

	store, err := NewHistoryStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open history store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndRecent(t *testing.T) {
	store := newTestStore(t)

	features := map[string]float64{
		"N": 90, "P": 42, "K": 43, "pH": 6.5,
		"temperature": 20.8, "humidity": 82, "rainfall": 202,
	}
	rankings := []map[string]any{
		{"crop": "rice", "confidence": 0.85},
		{"crop": "jute", "confidence": 0.10},
	}

	id, err := store.SavePrediction(features, "rice", 0.85, rankings)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated record ID")
	}

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.ID != id {
		t.Errorf("expected ID %s, got %s", id, rec.ID)
	}
	if rec.TopCrop != "rice" || rec.Confidence != 0.85 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Features["N"] != 90 {
		t.Errorf("features not round-tripped: %v", rec.Features)
	}

	var storedRankings []map[string]any
	if err := json.Unmarshal(rec.Rankings, &storedRankings); err != nil {
		t.Fatalf("rankings not valid JSON: %v", err)
	}
	if len(storedRankings) != 2 {
		t.Errorf("expected 2 ranking entries, got %d", len(storedRankings))
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	store := newTestStore(t)

	features := map[string]float64{"N": 10}
	for i, crop := range []string{"rice", "maize", "cotton"} {
		if _, err := store.SavePrediction(features, crop, float64(i)*0.1, nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		// Distinct timestamps so ordering is observable
		time.Sleep(5 * time.Millisecond)
	}

	records, err := store.Recent(2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].TopCrop != "cotton" {
		t.Errorf("expected newest record first, got %s", records[0].TopCrop)
	}

	// Non-positive limits fall back to the default
	records, err = store.Recent(0)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected all 3 records with default limit, got %d", len(records))
	}
}

func TestCleanup(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.SavePrediction(map[string]float64{"N": 1}, "rice", 0.9, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Nothing is old enough to delete
	deleted, err := store.Cleanup(30)
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected no deletions, got %d", deleted)
	}

	// Non-positive retention is a no-op
	deleted, err = store.Cleanup(0)
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected no-op for zero retention, got %d deletions", deleted)
	}

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("record must survive cleanup, got %d records", len(records))
	}
}
