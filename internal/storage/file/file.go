// Package file stores the whole map library in a single JSON blob,
// optionally gzipped. Writes go to a temporary file that is renamed over the
// previous blob, so a failed save never leaves a truncated library behind.
package file

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mymaps/mymaps/internal/config"
	"github.com/mymaps/mymaps/internal/storage"
	"github.com/mymaps/mymaps/pkg/core"
)

const backendName = "file"

// gzip magic number
var gzipMagic = []byte{0x1f, 0x8b}

// Store persists user maps to one file
type Store struct {
	cfg config.FileConfig
	mu  sync.Mutex
}

// New creates a file store
func New(cfg config.FileConfig) *Store {
	return &Store{cfg: cfg}
}

// Init ensures the parent directory exists
func (s *Store) Init() error {
	if s.cfg.Path == "" {
		return fmt.Errorf("file store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(s.cfg.Path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

// Path returns the backing file location
func (s *Store) Path() string {
	return s.cfg.Path
}

// Load reads the blob. A missing file is an empty library.
// Compressed and plain blobs are both accepted regardless of CompressOutput.
func (s *Store) Load(ctx context.Context) ([]core.UserMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, &storage.LoadError{Backend: backendName, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.cfg.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []core.UserMap{}, nil
	}
	if err != nil {
		return nil, &storage.LoadError{Backend: backendName, Err: err}
	}
	defer f.Close()

	maps, err := decode(f)
	if err != nil {
		return nil, &storage.LoadError{Backend: backendName, Err: err}
	}
	return maps, nil
}

// Save atomically replaces the blob with maps
func (s *Store) Save(ctx context.Context, maps []core.UserMap) error {
	if err := ctx.Err(); err != nil {
		return &storage.SaveError{Backend: backendName, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeAtomic(core.Persisted(maps)); err != nil {
		return &storage.SaveError{Backend: backendName, Err: err}
	}
	return nil
}

func (s *Store) writeAtomic(maps []core.UserMap) error {
	dir := filepath.Dir(s.cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.cfg.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if s.cfg.CompressOutput {
		err = writeGzipJSON(tmp, maps)
	} else {
		err = writeJSON(tmp, maps)
	}
	if err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, s.cfg.Path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.cfg.Path, err)
	}
	return nil
}

func writeJSON(w io.Writer, maps []core.UserMap) error {
	encoder := json.NewEncoder(w)
	return encoder.Encode(maps)
}

func writeGzipJSON(w io.Writer, maps []core.UserMap) error {
	gzWriter := gzip.NewWriter(w)

	encoder := json.NewEncoder(gzWriter)
	if err := encoder.Encode(maps); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}

func decode(r io.Reader) ([]core.UserMap, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	var src io.Reader = br
	if bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	var maps []core.UserMap
	if err := json.NewDecoder(src).Decode(&maps); err != nil {
		return nil, fmt.Errorf("failed to decode user maps: %w", err)
	}
	if maps == nil {
		maps = []core.UserMap{}
	}
	return maps, nil
}
