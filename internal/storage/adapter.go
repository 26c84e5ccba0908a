package storage

import (
	"encoding/json"
	"errors"

	"github.com/existflow/tasktrack/internal/logger"
)

// Adapter stores JSON-encoded values in a Backend. Failures are logged and
// degraded to a boolean or the caller's default; nothing is returned as error.
type Adapter struct {
	backend Backend
}

// NewAdapter wraps b
func NewAdapter(b Backend) *Adapter {
	return &Adapter{backend: b}
}

// Backend returns the wrapped backend
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Save serializes v under key and reports success
func (a *Adapter) Save(key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("Failed to encode value", logger.F("key", key), logger.Err(err))
		return false
	}
	if err := a.backend.Set(key, string(data)); err != nil {
		logger.Warn("Failed to save value", logger.F("key", key), logger.Err(err))
		return false
	}
	return true
}

// SaveRaw stores an already encoded value
func (a *Adapter) SaveRaw(key, raw string) bool {
	if err := a.backend.Set(key, raw); err != nil {
		logger.Warn("Failed to save value", logger.F("key", key), logger.Err(err))
		return false
	}
	return true
}

// Raw returns the stored text under key
func (a *Adapter) Raw(key string) (string, bool) {
	raw, ok, err := a.backend.Get(key)
	if err != nil {
		logger.Warn("Failed to read value", logger.F("key", key), logger.Err(err))
		return "", false
	}
	return raw, ok
}

// Load decodes the value under key into T. An absent key, a backend error
// or malformed data yields def.
func Load[T any](a *Adapter, key string, def T) T {
	raw, ok := a.Raw(key)
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logger.Warn("Failed to decode stored value", logger.F("key", key), logger.Err(err))
		return def
	}
	return v
}

// Remove deletes key and reports success
func (a *Adapter) Remove(key string) bool {
	if err := a.backend.Delete(key); err != nil {
		logger.Warn("Failed to remove value", logger.F("key", key), logger.Err(err))
		return false
	}
	return true
}

// Clear deletes every key and reports success
func (a *Adapter) Clear() bool {
	if err := a.backend.Clear(); err != nil {
		logger.Warn("Failed to clear storage", logger.Err(err))
		return false
	}
	return true
}

// HasKey reports whether key is present
func (a *Adapter) HasKey(key string) bool {
	_, ok := a.Raw(key)
	return ok
}

// ErrWatchUnsupported is logged when the backend cannot report changes
var ErrWatchUnsupported = errors.New("backend does not support change notification")

// Watch forwards backend change notifications to fn. Backends that cannot
// notify yield a no-op cancel.
func (a *Adapter) Watch(fn func(key string)) func() {
	n, ok := a.backend.(Notifier)
	if !ok {
		logger.Debug("Change notification unavailable", logger.Err(ErrWatchUnsupported))
		return func() {}
	}
	return n.Watch(fn)
}
