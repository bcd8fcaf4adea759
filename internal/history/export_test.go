package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"reckon/internal/engine"
)

func TestExportAndImportRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "reckon-export-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "history.json")
	results := []engine.CalculationResult{
		testResult("a", "5 + 3", 8, time.Now().UTC().Truncate(time.Second)),
		testResult("b", "10.5 + 15.2", 25.7, time.Now().UTC().Truncate(time.Second)),
	}

	if err := ExportJSON(path, results); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	imported, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if len(imported) != 2 {
		t.Fatalf("imported %d results, want 2", len(imported))
	}
	if imported[0].ID != "a" || imported[0].Result != 8 {
		t.Errorf("imported[0] = %+v", imported[0])
	}
	if imported[1].Expression != "10.5 + 15.2" || !imported[1].Verified {
		t.Errorf("imported[1] = %+v", imported[1])
	}
}

func TestExportEmptyHistory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "reckon-export-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "empty.json")
	if err := ExportJSON(path, nil); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	imported, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if len(imported) != 0 {
		t.Errorf("imported %d results from empty export, want 0", len(imported))
	}
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "reckon-export-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "bad.json")
	// Confidence out of range and missing required fields.
	bad := `[{"id": "a", "confidence": 3.5}]`
	if err := os.WriteFile(path, []byte(bad), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := ImportJSON(path); err == nil {
		t.Error("expected validation error for invalid document")
	}
}

func TestImportMissingFile(t *testing.T) {
	if _, err := ImportJSON(filepath.Join(os.TempDir(), "reckon-does-not-exist.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
