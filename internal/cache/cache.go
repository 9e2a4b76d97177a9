// Package cache implements the content-addressed extraction cache: a single
// in-memory table keyed by SHA-256 of the exact extraction input text,
// backed by one on-disk JSON file. Caching is a performance optimization
// only — a missing or corrupt store degrades to empty, never to an error
// the caller has to handle.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/issueops/issueops/pkg/models"
)

// DefaultPath is the on-disk location used when none is configured.
const DefaultPath = ".triage_cache.json"

// Store is the shared cache table. Writers serialize through the mutex so
// the read-modify-persist sequence never loses updates; readers proceed
// concurrently.
type Store struct {
	path string

	mu      sync.RWMutex
	entries map[string]json.RawMessage
}

// Open restores a store from disk. A missing or unreadable file starts the
// store empty rather than failing.
func Open(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{
		path:    path,
		entries: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to load cache from %s: %v. Starting fresh.", path, err)
		}
		return s
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		log.Printf("Warning: corrupt cache file %s: %v. Starting fresh.", path, err)
		s.entries = make(map[string]json.RawMessage)
		return s
	}

	log.Printf("Loaded %d cached items from %s", len(s.entries), path)
	return s
}

// Key derives the cache key: a SHA-256 hex digest of the exact text bytes.
func Key(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// Get returns the metadata cached for byte-identical text. An entry that
// does not deserialize into a structurally valid record is a miss, not an
// error; the next Put safely overwrites it.
func (s *Store) Get(text string) (*models.Metadata, bool) {
	s.mu.RLock()
	raw, ok := s.entries[Key(text)]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	var md models.Metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil, false
	}
	if err := md.Validate(); err != nil {
		return nil, false
	}
	return &md, true
}

// Put stores the metadata produced for the given text. Invalid records are
// never stored.
func (s *Store) Put(text string, md *models.Metadata) {
	if md == nil || md.Validate() != nil {
		return
	}
	raw, err := json.Marshal(md)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.entries[Key(text)] = raw
	s.mu.Unlock()
}

// Persist writes the whole table to disk. It is cheap enough to run after
// every Put, so a crash between two extractions loses at most the most
// recent entry.
func (s *Store) Persist() error {
	s.mu.RLock()
	data, err := json.Marshal(s.entries)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
