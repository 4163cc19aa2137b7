package mover

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "patterns.json")
	store := NewFileStore(path)

	want := []Correction{
		{Color: Color{46, 52, 64}, Suggested: "nord", Actual: "gruvbox",
			Timestamp: Timestamp{time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)}},
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Load() returned %d corrections, want 1", len(got))
	}
	if got[0].Color != want[0].Color || got[0].Suggested != want[0].Suggested || got[0].Actual != want[0].Actual {
		t.Errorf("Load() = %+v, want %+v", got[0], want[0])
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "nope", "patterns.json"))
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on missing file = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() on missing file returned %d corrections, want 0", len(got))
	}
}

func TestFileStoreMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "patterns.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path).Load(); err == nil {
		t.Error("Load() on malformed file = nil, want error")
	}
}

func TestFileStoreCreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "patterns.json")
	if err := NewFileStore(path).Save(nil); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Save() did not create %s: %v", path, err)
	}
}

// The document layout is a compatibility contract: files written by earlier
// releases of the tool must read back unchanged, and vice versa.
func TestStoreDocumentShape(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.json")
	store := NewFileStore(path)
	if err := store.Save([]Correction{{
		Color:     Color{46, 52, 64},
		Suggested: "nord",
		Actual:    "gruvbox",
		Timestamp: Timestamp{time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)},
	}}); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("document is not a JSON object: %v", err)
	}
	if _, ok := doc["corrections"]; !ok {
		t.Error(`document missing "corrections" key`)
	}
	if _, ok := doc["last_updated"]; !ok {
		t.Error(`document missing "last_updated" key`)
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(doc["corrections"], &entries); err != nil {
		t.Fatalf("corrections is not an array of objects: %v", err)
	}
	entry := entries[0]
	for _, key := range []string{"avg_color", "suggested_theme", "actual_theme", "timestamp"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("correction missing %q key", key)
		}
	}
	if got := strings.TrimSpace(string(entry["avg_color"])); !strings.HasPrefix(got, "[") {
		t.Errorf("avg_color encoded as %s, want a [r,g,b] array", got)
	}

	// No temp files left behind by the atomic write.
	items, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range items {
		if strings.Contains(item.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", item.Name())
		}
	}
}

func TestSaveEmptyWritesEmptyArray(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "patterns.json")
	if err := NewFileStore(path).Save(nil); err != nil {
		t.Fatalf("Save(nil) = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("empty save produced null, want []: %s", data)
	}
}
