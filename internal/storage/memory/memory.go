// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sync"

	"github.com/mymaps/mymaps/internal/storage"
	"github.com/mymaps/mymaps/pkg/core"
)

const backendName = "memory"

// Store keeps the saved library in process memory. Nothing survives a
// restart of the process, but it survives a new Library built on the same
// Store, which is what tests use to simulate a restart.
type Store struct {
	mu    sync.RWMutex
	maps  []core.UserMap
	saves int
	// entries handed to the last Save, samples included
	lastSaveLen int

	// FailSave, when set, is returned wrapped in a SaveError by every Save
	FailSave error
	// FailLoad, when set, is returned wrapped in a LoadError by every Load
	FailLoad error
}

// New creates an empty memory store
func New() *Store {
	return &Store{}
}

// Init initializes the store
func (s *Store) Init() error {
	return nil
}

// Close cleans up resources
func (s *Store) Close() error {
	return nil
}

// Load returns a deep copy of the saved maps
func (s *Store) Load(ctx context.Context) ([]core.UserMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, &storage.LoadError{Backend: backendName, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailLoad != nil {
		return nil, &storage.LoadError{Backend: backendName, Err: s.FailLoad}
	}
	return cloneAll(s.maps), nil
}

// Save replaces the saved maps with a deep copy of maps
func (s *Store) Save(ctx context.Context, maps []core.UserMap) error {
	if err := ctx.Err(); err != nil {
		return &storage.SaveError{Backend: backendName, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves++
	s.lastSaveLen = len(maps)
	if s.FailSave != nil {
		return &storage.SaveError{Backend: backendName, Err: s.FailSave}
	}
	s.maps = cloneAll(core.Persisted(maps))
	return nil
}

// Saves returns how many times Save was called, failed calls included
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// LastSaveLen returns how many maps the last Save call was given, before
// sample maps were filtered out
func (s *Store) LastSaveLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaveLen
}

func cloneAll(maps []core.UserMap) []core.UserMap {
	out := make([]core.UserMap, len(maps))
	for i, m := range maps {
		out[i] = m.Clone()
	}
	return out
}
