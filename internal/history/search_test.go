package history

import (
	"context"
	"testing"
	"time"
)

func TestSearchIndexRecordAndSearch(t *testing.T) {
	idx, err := NewMemSearchIndex()
	if err != nil {
		t.Fatalf("NewMemSearchIndex failed: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	now := time.Now()

	first := testResult("calc-1", "10.5 + 15.2", 25.7, now)
	first.Reasoning = "Adding the decimal parts first, then the whole numbers."
	if err := idx.Record(ctx, first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	second := testResult("calc-2", "100 / 4", 25, now)
	second.Reasoning = "Dividing one hundred by four gives twenty five."
	if err := idx.Record(ctx, second); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	hits, err := idx.Search("dividing", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("Search returned %d hits, want 1", len(hits))
	}
	if hits[0].ID != "calc-2" {
		t.Errorf("hit ID = %s, want calc-2", hits[0].ID)
	}
	if hits[0].Score <= 0 {
		t.Errorf("hit score = %f, want > 0", hits[0].Score)
	}
	if hits[0].Expression != "100 / 4" {
		t.Errorf("hit expression = %q", hits[0].Expression)
	}
}

func TestSearchIndexNoMatch(t *testing.T) {
	idx, err := NewMemSearchIndex()
	if err != nil {
		t.Fatalf("NewMemSearchIndex failed: %v", err)
	}
	defer idx.Close()

	res := testResult("calc-1", "5 + 3", 8, time.Now())
	res.Reasoning = "Simple addition."
	if err := idx.Record(context.Background(), res); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	hits, err := idx.Search("trigonometry", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Search returned %d hits, want 0", len(hits))
	}
}
