package server

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/tasktrack/internal/logger"
	_ "github.com/lib/pq"
)

// ErrBackendClosed is returned by operations on a closed backend
var ErrBackendClosed = errors.New("postgres backend is closed")

// PostgresBackend is a key-value backend on a shared Postgres database, so
// several machines can serve the same collection.
type PostgresBackend struct {
	db           *sql.DB
	pollInterval time.Duration

	mu       sync.Mutex
	closed   bool
	watchers []func()
}

// OpenPostgres connects to dbURL and runs migrations
func OpenPostgres(dbURL string, pollInterval time.Duration) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	b := &PostgresBackend{db: db, pollInterval: pollInterval}

	if err := b.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return b, nil
}

func (b *PostgresBackend) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Get returns the live value under key
func (b *PostgresBackend) Get(key string) (string, bool, error) {
	if b.isClosed() {
		return "", false, ErrBackendClosed
	}
	var value string
	err := b.db.QueryRow(`SELECT value FROM kv WHERE key = $1 AND deleted_at IS NULL`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts key with a fresh version
func (b *PostgresBackend) Set(key, value string) error {
	if b.isClosed() {
		return ErrBackendClosed
	}
	_, err := b.db.Exec(`
		INSERT INTO kv (key, value, version, deleted_at, updated_at)
		VALUES ($1, $2, nextval('kv_version_seq'), NULL, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			version = EXCLUDED.version,
			deleted_at = NULL,
			updated_at = EXCLUDED.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// Delete soft-deletes key
func (b *PostgresBackend) Delete(key string) error {
	if b.isClosed() {
		return ErrBackendClosed
	}
	_, err := b.db.Exec(`
		UPDATE kv SET value = '', deleted_at = NOW(), updated_at = NOW(), version = nextval('kv_version_seq')
		WHERE key = $1 AND deleted_at IS NULL`, key)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Clear soft-deletes every live key
func (b *PostgresBackend) Clear() error {
	if b.isClosed() {
		return ErrBackendClosed
	}
	_, err := b.db.Exec(`
		UPDATE kv SET value = '', deleted_at = NOW(), updated_at = NOW(), version = nextval('kv_version_seq')
		WHERE deleted_at IS NULL`)
	if err != nil {
		return fmt.Errorf("failed to clear: %w", err)
	}
	return nil
}

// Watch polls for rows with a version above the last one seen
func (b *PostgresBackend) Watch(fn func(key string)) func() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return func() {}
	}
	stopCh := make(chan struct{})
	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(stopCh)
			<-done
		})
	}
	b.watchers = append(b.watchers, stop)
	b.mu.Unlock()

	var last int64
	if err := b.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM kv`).Scan(&last); err != nil {
		logger.Warn("Failed to read initial version", logger.Err(err))
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(b.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				keys, next, err := b.changedSince(last)
				if err != nil {
					logger.Warn("Failed to poll for changes", logger.Err(err))
					continue
				}
				last = next
				for _, key := range keys {
					fn(key)
				}
			case <-stopCh:
				return
			}
		}
	}()

	return stop
}

func (b *PostgresBackend) changedSince(version int64) ([]string, int64, error) {
	rows, err := b.db.Query(`SELECT key, version FROM kv WHERE version > $1 ORDER BY version ASC`, version)
	if err != nil {
		return nil, version, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		var v int64
		if err := rows.Scan(&key, &v); err != nil {
			return nil, version, err
		}
		keys = append(keys, key)
		version = v
	}
	return keys, version, rows.Err()
}

// Close stops watchers and closes the connection
func (b *PostgresBackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	watchers := b.watchers
	b.watchers = nil
	b.mu.Unlock()

	for _, stop := range watchers {
		stop()
	}
	return b.db.Close()
}
