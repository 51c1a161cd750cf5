package embedding

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// Store is a minimal key-to-vector cache with optional on-disk persistence.
//
// The key is the source of truth: GetOrCompute never re-invokes the encoder
// for a known key, even if the text differs. Callers that need
// content-sensitive invalidation must embed a content hash into the key.
// The store is not safe for concurrent mutation; callers sharing one across
// workers must serialize writes externally.
type Store struct {
	cache map[string][]float32
	path  string // empty disables persistence
}

// NewStore creates a store. If path is non-empty and a snapshot exists there,
// it is loaded; a corrupt or missing snapshot yields an empty store.
func NewStore(path string) *Store {
	s := &Store{
		cache: make(map[string][]float32),
		path:  path,
	}
	if path != "" {
		_ = s.Restore()
	}
	return s
}

// Get returns the cached vector for key, or nil and false when absent.
func (s *Store) Get(key string) ([]float32, bool) {
	vec, ok := s.cache[key]
	return vec, ok
}

// Set stores a vector under key, replacing any previous value.
func (s *Store) Set(key string, vec []float32) {
	s.cache[key] = vec
}

// GetOrCompute returns the cached vector for key, invoking the encoder and
// memoizing the result on a miss. Idempotent per key.
func (s *Store) GetOrCompute(ctx context.Context, key, text string, enc Encoder) ([]float32, error) {
	if vec, ok := s.cache[key]; ok {
		return vec, nil
	}
	if enc == nil {
		return nil, fmt.Errorf("no encoder available for key %q", key)
	}
	vec, err := enc.Encode(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode text for key %q: %w", key, err)
	}
	s.cache[key] = vec
	return vec, nil
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	return len(s.cache)
}

// Persist writes a snapshot of the cache to the configured path.
// A store without a path persists nothing and returns nil.
func (s *Store) Persist() error {
	if s.path == "" {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create cache snapshot %s: %w", s.path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(s.cache); err != nil {
		return fmt.Errorf("failed to encode cache snapshot: %w", err)
	}
	return nil
}

// Restore replaces the in-memory cache with the on-disk snapshot. Any read
// or decode failure leaves the store empty rather than erroring the caller
// out of a usable (cold) cache.
func (s *Store) Restore() error {
	s.cache = make(map[string][]float32)
	if s.path == "" {
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open cache snapshot %s: %w", s.path, err)
	}
	defer f.Close()

	loaded := make(map[string][]float32)
	if err := gob.NewDecoder(f).Decode(&loaded); err != nil {
		return fmt.Errorf("failed to decode cache snapshot %s: %w", s.path, err)
	}
	s.cache = loaded
	return nil
}
