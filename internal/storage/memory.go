package storage

import "sync"

// Memory is an in-process Backend. Watchers are called synchronously after
// each write, outside the lock.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]string
	watchers map[int]func(string)
	nextID   int
}

// NewMemory creates an empty in-memory backend
func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string]string),
		watchers: make(map[int]func(string)),
	}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	m.notify(key)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	_, existed := m.data[key]
	delete(m.data, key)
	m.mu.Unlock()
	if existed {
		m.notify(key)
	}
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	m.data = make(map[string]string)
	m.mu.Unlock()
	m.notify("")
	return nil
}

// Watch registers fn for every write
func (m *Memory) Watch(fn func(key string)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.watchers, id)
			m.mu.Unlock()
		})
	}
}

func (m *Memory) notify(key string) {
	m.mu.RLock()
	fns := make([]func(string), 0, len(m.watchers))
	for _, fn := range m.watchers {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(key)
	}
}
