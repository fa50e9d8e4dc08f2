// internal/storage/storage.go
package storage

import (
	"context"
	"fmt"

	"github.com/mymaps/mymaps/pkg/core"
)

// Store is the interface all persistence backends must satisfy.
// Save overwrites the whole collection; it is never incremental.
type Store interface {
	// Lifecycle
	Init() error
	Close() error

	// Load returns every stored map in saved order. A store that has never
	// been written returns an empty slice and no error.
	Load(ctx context.Context) ([]core.UserMap, error)

	// Save replaces the stored collection with maps. Sample maps are
	// skipped. Concurrent calls are serialized.
	Save(ctx context.Context, maps []core.UserMap) error
}

// LoadError reports that the backing store could not be read
type LoadError struct {
	Backend string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s store: load failed: %v", e.Backend, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SaveError reports that the collection could not be written
type SaveError struct {
	Backend string
	Err     error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("%s store: save failed: %v", e.Backend, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
