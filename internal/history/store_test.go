package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reckon/internal/engine"
)

func testResult(id, expression string, result float64, createdAt time.Time) engine.CalculationResult {
	return engine.CalculationResult{
		ID:         id,
		Expression: expression,
		Result:     result,
		Reasoning:  "added both operands",
		Confidence: 1.0,
		Verified:   true,
		CreatedAt:  createdAt,
		TokensUsed: 30,
	}
}

func TestStoreRecordAndList(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "reckon-history-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(tmpDir, "history.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer store.Close()

	base := time.Now()
	if err := store.Record(ctx, testResult("a", "5 + 3", 8, base)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(ctx, testResult("b", "10.5 + 15.2", 25.7, base.Add(time.Second))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	results, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("List returned %d results, want 2", len(results))
	}
	// Newest first.
	if results[0].ID != "b" || results[1].ID != "a" {
		t.Errorf("order = [%s, %s], want [b, a]", results[0].ID, results[1].ID)
	}
	if results[0].Result != 25.7 || !results[0].Verified {
		t.Errorf("results[0] = %+v", results[0])
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List(1) failed: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "b" {
		t.Errorf("List(1) = %+v", limited)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestStoreGet(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "reckon-history-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(tmpDir, "history.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer store.Close()

	created := time.Now()
	if err := store.Record(ctx, testResult("x", "20 / 4", 5, created)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.Get(ctx, "x")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Expression != "20 / 4" || got.Result != 5 {
		t.Errorf("Get = %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}

	if _, err := store.Get(ctx, "missing"); err == nil {
		t.Error("expected error for missing ID")
	}
}
