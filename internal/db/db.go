// Package db is the SQLite key-value backend.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/existflow/tasktrack/internal/logger"
	_ "modernc.org/sqlite"
)

// ErrClosed is returned by operations on a closed database
var ErrClosed = errors.New("database is closed")

// DefaultPollInterval is how often Watch checks for new versions
const DefaultPollInterval = 2 * time.Second

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB

	mu           sync.Mutex
	closed       bool
	pollInterval time.Duration
	watchers     []func()
}

// Option configures a DB
type Option func(*DB)

// WithPollInterval sets the Watch polling period
func WithPollInterval(d time.Duration) Option {
	return func(db *DB) {
		if d > 0 {
			db.pollInterval = d
		}
	}
}

// DefaultDBPath returns the default database path (~/.tasktrack/tasks.db)
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tasktrack", "tasks.db"), nil
}

// Open opens or creates the SQLite database
func Open(dbPath string, opts ...Option) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps the pragmas below in effect for every query
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	db := &DB{DB: sqlDB, pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(db)
	}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("Opened database", logger.F("path", dbPath))
	return db, nil
}

// OpenDefault opens the database at the default path
func OpenDefault(opts ...Option) (*DB, error) {
	path, err := DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

func (db *DB) isClosed() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.closed
}

// Close stops every watcher and closes the connection. Safe to call twice.
func (db *DB) Close() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return nil
	}
	db.closed = true
	watchers := db.watchers
	db.watchers = nil
	db.mu.Unlock()

	for _, stop := range watchers {
		stop()
	}
	return db.DB.Close()
}
