// Package sqlitestorage stores the map library in a SQLite database file
// through GORM. Each map is one row; its places are a JSON column, and a
// position column keeps library order.
package sqlitestorage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mymaps/mymaps/internal/config"
	"github.com/mymaps/mymaps/internal/storage"
	"github.com/mymaps/mymaps/pkg/core"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const backendName = "sqlite"

// ErrNotInitialized is returned when Load or Save run before Init
var ErrNotInitialized = errors.New("sqlite store not initialized")

// UserMapRecord is the GORM model for a stored map
type UserMapRecord struct {
	ID       uint                            `gorm:"primaryKey"`
	Position int                             `gorm:"index;not null"`
	Title    string                          `gorm:"not null"`
	Places   datatypes.JSONSlice[core.Place] `gorm:"not null"`
}

// TableName pins the table name
func (UserMapRecord) TableName() string {
	return "user_maps"
}

// Store persists user maps to SQLite
type Store struct {
	cfg config.SQLiteConfig
	log zerolog.Logger

	mu sync.Mutex
	db *gorm.DB
}

// New creates a SQLite store. Init opens the database.
func New(cfg config.SQLiteConfig, log zerolog.Logger) *Store {
	return &Store{
		cfg: cfg,
		log: log.With().Str("backend", backendName).Logger(),
	}
}

// Init opens the database file and creates the table if needed
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Path == "" {
		return fmt.Errorf("sqlite store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(s.cfg.Path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(s.cfg.Path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	// one connection: SQLite has a single writer anyway
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("error setting PRAGMA: %s", err)
		}
	}

	if err := db.AutoMigrate(&UserMapRecord{}); err != nil {
		return fmt.Errorf("failed to create user_maps table: %w", err)
	}

	s.db = db
	s.log.Info().Str("path", s.cfg.Path).Msg("Using local SQLite DB")
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}

// Load returns every stored map ordered by position
func (s *Store) Load(ctx context.Context) ([]core.UserMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, &storage.LoadError{Backend: backendName, Err: ErrNotInitialized}
	}

	var records []UserMapRecord
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, &storage.LoadError{Backend: backendName, Err: err}
	}

	maps := make([]core.UserMap, len(records))
	for i, r := range records {
		maps[i] = core.UserMap{Title: r.Title, Places: []core.Place(r.Places)}
	}
	s.log.Debug().Int("maps", len(maps)).Msg("Loaded user maps")
	return maps, nil
}

// Save replaces every row with maps in one transaction
func (s *Store) Save(ctx context.Context, maps []core.UserMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return &storage.SaveError{Backend: backendName, Err: ErrNotInitialized}
	}

	persisted := core.Persisted(maps)
	records := make([]UserMapRecord, len(persisted))
	for i, m := range persisted {
		records[i] = UserMapRecord{
			Position: i,
			Title:    m.Title,
			Places:   datatypes.JSONSlice[core.Place](m.Places),
		}
	}

	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&UserMapRecord{}).Error; err != nil {
			return fmt.Errorf("clearing user_maps: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("inserting user_maps: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to save user maps")
		return &storage.SaveError{Backend: backendName, Err: err}
	}

	s.log.Debug().Int("maps", len(records)).Dur("duration", time.Since(start)).Msg("Saved user maps")
	return nil
}
