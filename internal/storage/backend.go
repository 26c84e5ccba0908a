// Package storage persists JSON values in a string key-value backend.
package storage

// Backend is a string key-value store. Get reports ok=false for absent keys.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Clear() error
}

// Notifier is implemented by backends that can report writes made by other
// processes or clients. fn receives the changed key, or "" after Clear.
type Notifier interface {
	Watch(fn func(key string)) (cancel func())
}
