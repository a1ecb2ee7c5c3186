package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InMemoryPath keeps the session store in process memory only; results vanish
// when the server exits, matching the one-session result lifecycle.
const InMemoryPath = ":memory:"

// Database wraps the GORM DB handle and exposes the session result store.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed session store at the provided path.
func Open(path string, silent bool) (*Database, error) {
	if strings.TrimSpace(path) == "" {
		path = InMemoryPath
	}
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if err := db.AutoMigrate(&AnalysisRun{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ReplaceLatestRun swaps the stored session result with the provided run. The
// previous run is removed in the same transaction, never mutated in place.
func (d *Database) ReplaceLatestRun(run *AnalysisRun) error {
	if run == nil {
		return errors.New("run is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&AnalysisRun{}).Error; err != nil {
			return err
		}
		return tx.Create(run).Error
	})
}

// LatestRun returns the current session result, or gorm.ErrRecordNotFound when
// no analysis has been run yet.
func (d *Database) LatestRun() (*AnalysisRun, error) {
	if d == nil {
		return nil, errors.New("database is nil")
	}
	var run AnalysisRun
	if err := d.gorm.Order("id DESC").First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ClearRun drops the stored session result.
func (d *Database) ClearRun() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&AnalysisRun{}).Error
}
