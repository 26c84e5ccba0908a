package db

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/tasktrack/internal/logger"
)

const nextVersion = `(SELECT COALESCE(MAX(version), 0) + 1 FROM kv)`

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Get returns the live value under key
func (db *DB) Get(key string) (string, bool, error) {
	if db.isClosed() {
		return "", false, ErrClosed
	}
	var value string
	err := db.QueryRow(`SELECT value FROM kv WHERE key = ? AND deleted_at IS NULL`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts key and bumps its version
func (db *DB) Set(key, value string) error {
	if db.isClosed() {
		return ErrClosed
	}
	_, err := db.Exec(`
		INSERT INTO kv (key, value, version, deleted_at, updated_at)
		VALUES (?, ?, `+nextVersion+`, NULL, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			version = excluded.version,
			deleted_at = NULL,
			updated_at = excluded.updated_at`,
		key, value, now())
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// Delete soft-deletes key. Deleting an absent key is not an error.
func (db *DB) Delete(key string) error {
	if db.isClosed() {
		return ErrClosed
	}
	ts := now()
	_, err := db.Exec(`
		UPDATE kv SET value = '', deleted_at = ?, updated_at = ?, version = `+nextVersion+`
		WHERE key = ? AND deleted_at IS NULL`,
		ts, ts, key)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Clear soft-deletes every live key
func (db *DB) Clear() error {
	if db.isClosed() {
		return ErrClosed
	}
	ts := now()
	_, err := db.Exec(`
		UPDATE kv SET value = '', deleted_at = ?, updated_at = ?, version = `+nextVersion+`
		WHERE deleted_at IS NULL`,
		ts, ts)
	if err != nil {
		return fmt.Errorf("failed to clear: %w", err)
	}
	return nil
}

// Version returns the highest version written so far
func (db *DB) Version() (int64, error) {
	if db.isClosed() {
		return 0, ErrClosed
	}
	var v int64
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM kv`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read version: %w", err)
	}
	return v, nil
}

// changedSince returns keys written after version, and the new cursor
func (db *DB) changedSince(version int64) ([]string, int64, error) {
	rows, err := db.Query(`SELECT key, version FROM kv WHERE version > ? ORDER BY version`, version)
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

// Watch polls for writes newer than the current version, including writes
// from other processes sharing the file, and calls fn per changed key.
func (db *DB) Watch(fn func(key string)) func() {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
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
	db.watchers = append(db.watchers, stop)
	db.mu.Unlock()

	last, err := db.Version()
	if err != nil {
		logger.Warn("Failed to read initial version", logger.Err(err))
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(db.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				keys, next, err := db.changedSince(last)
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
