package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/issueops/issueops/pkg/models"
)

func testMetadata() *models.Metadata {
	return &models.Metadata{
		HasReproductionSteps: true,
		IsCrash:              true,
		Environment:          "production",
		Summary:              "App crashes on start",
		Difficulty:           "hard",
		RequiredSkills:       []string{"go"},
		PrimaryArea:          "backend",
		ExtractionConfidence: 0.9,
	}
}

func TestKey(t *testing.T) {
	k1 := Key("some issue text")
	k2 := Key("some issue text")
	k3 := Key("some issue text ")

	if k1 != k2 {
		t.Errorf("Key not deterministic: %s != %s", k1, k2)
	}
	if len(k1) != 64 {
		t.Errorf("Key length = %d, want 64 (SHA-256 hex)", len(k1))
	}
	// Inputs that differ anywhere are distinct keys
	if k1 == k3 {
		t.Errorf("Key collision for different inputs")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "cache.json"))

	text := "Title: crash\n\nBody:\nit crashes"
	if _, ok := s.Get(text); ok {
		t.Fatalf("Get() on empty store should miss")
	}

	md := testMetadata()
	s.Put(text, md)

	got, ok := s.Get(text)
	if !ok {
		t.Fatalf("Get() after Put should hit")
	}
	if !reflect.DeepEqual(got, md) {
		t.Errorf("Get() = %+v, want %+v", got, md)
	}

	// Byte-identical text keeps hitting; different text misses
	if _, ok := s.Get(text); !ok {
		t.Errorf("second Get() should still hit")
	}
	if _, ok := s.Get(text + "!"); ok {
		t.Errorf("Get() with different text should miss")
	}
}

func TestStore_PersistAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	s := Open(path)
	md := testMetadata()
	s.Put("issue text", md)

	if err := s.Persist(); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	restored := Open(path)
	if restored.Len() != 1 {
		t.Fatalf("restored Len() = %d, want 1", restored.Len())
	}
	got, ok := restored.Get("issue text")
	if !ok {
		t.Fatalf("Get() after restore should hit")
	}
	if !reflect.DeepEqual(got, md) {
		t.Errorf("restored Get() = %+v, want %+v", got, md)
	}
}

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "nope", "cache.json"))
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestOpen_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := Open(path)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for corrupt file", s.Len())
	}

	// The store is still usable and Persist resets the file
	s.Put("text", testMetadata())
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist() after corrupt restore error = %v", err)
	}
	if Open(path).Len() != 1 {
		t.Errorf("reopened store should contain the new entry")
	}
}

func TestStore_CorruptEntryIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	entries := map[string]json.RawMessage{
		Key("issue text"): json.RawMessage(`{"difficulty": "not-a-difficulty"}`),
	}
	data, _ := json.Marshal(entries)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	s := Open(path)
	if _, ok := s.Get("issue text"); ok {
		t.Errorf("Get() should miss on structurally invalid entry")
	}

	// Overwriting the bad entry works
	md := testMetadata()
	s.Put("issue text", md)
	if got, ok := s.Get("issue text"); !ok || got.Summary != md.Summary {
		t.Errorf("Put() should overwrite corrupt entry")
	}
}

func TestStore_RejectsInvalidMetadata(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "cache.json"))

	bad := testMetadata()
	bad.ExtractionConfidence = 3.0
	s.Put("text", bad)

	if s.Len() != 0 {
		t.Errorf("Put() stored an invalid record")
	}
}
