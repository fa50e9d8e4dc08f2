// Package library holds the ordered, append-only collection of user maps
// for one session and keeps it in sync with a storage backend.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mymaps/mymaps/internal/storage"
	"github.com/mymaps/mymaps/pkg/core"
)

var (
	// ErrEmptyTitle is returned when creating a map whose title is blank
	ErrEmptyTitle = errors.New("map must have non-empty title")
	// ErrIndexOutOfRange is returned by Get for an index outside the library
	ErrIndexOutOfRange = errors.New("map index out of range")
)

// Library is the in-memory map collection. Safe for concurrent use.
type Library struct {
	store  storage.Store
	logger *slog.Logger
	seeds  func() []core.UserMap

	mu   sync.RWMutex
	maps []core.UserMap
}

// New creates an empty library backed by store. seeds supplies the sample
// maps placed ahead of stored maps on Load; nil means SampleMaps.
func New(store storage.Store, logger *slog.Logger, seeds func() []core.UserMap) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	if seeds == nil {
		seeds = SampleMaps
	}
	return &Library{
		store:  store,
		logger: logger,
		seeds:  seeds,
	}
}

// Load rebuilds the library as seeds followed by stored maps, in stored order.
// If the store cannot be read the library holds the seeds only and the load
// error is returned.
func (l *Library) Load(ctx context.Context) error {
	maps := l.seeds()

	stored, err := l.store.Load(ctx)
	if err != nil {
		l.logger.Error("failed to load user maps, showing samples only", "error", err)
	} else {
		maps = append(maps, stored...)
	}

	l.mu.Lock()
	l.maps = maps
	l.mu.Unlock()

	l.logger.Info("user maps loaded", "total", len(maps), "stored", len(stored))
	return err
}

// Create appends m and writes the whole library to the store.
// On a save failure m stays in the library and the next Create retries it.
func (l *Library) Create(ctx context.Context, m core.UserMap) error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	m = m.Clone()
	m.Sample = false
	if m.Places == nil {
		m.Places = []core.Place{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maps = append(l.maps, m)
	if err := l.store.Save(ctx, l.maps); err != nil {
		l.logger.Error("failed to save user maps", "map", m.Title, "error", err)
		return fmt.Errorf("saving %q: %w", m.Title, err)
	}

	l.logger.Info("user map created", "map", m.Title, "places", len(m.Places), "index", len(l.maps)-1)
	return nil
}

// Maps returns a copy of every map in library order
func (l *Library) Maps() []core.UserMap {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]core.UserMap, len(l.maps))
	for i, m := range l.maps {
		out[i] = m.Clone()
	}
	return out
}

// Get returns a copy of the map at index i
func (l *Library) Get(i int) (core.UserMap, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i < 0 || i >= len(l.maps) {
		return core.UserMap{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(l.maps))
	}
	return l.maps[i].Clone(), nil
}

// Len returns the number of maps
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.maps)
}
