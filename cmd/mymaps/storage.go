package main

import (
	"fmt"
	"io"

	"github.com/mymaps/mymaps/internal/config"
	"github.com/mymaps/mymaps/internal/logging"
	"github.com/mymaps/mymaps/internal/storage"
	"github.com/mymaps/mymaps/internal/storage/file"
	"github.com/mymaps/mymaps/internal/storage/memory"
	sqlitestorage "github.com/mymaps/mymaps/internal/storage/sqlite"
)

// createStore builds the backend named by storageCfg.Type.
// dbLog receives the SQLite backend's structured log output.
func createStore(storageCfg config.StorageConfig, dbLog io.Writer, level string) (storage.Store, error) {
	switch storageCfg.Type {
	case "", "file":
		return file.New(storageCfg.File), nil

	case "sqlite":
		return sqlitestorage.New(storageCfg.SQLite, logging.NewZerolog(dbLog, level)), nil

	case "memory":
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage type: %q", storageCfg.Type)
	}
}
