// Package store keeps the task collection in memory, routes every change
// through the reducer and mirrors the result to persistent storage.
package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/existflow/tasktrack/internal/clock"
	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/reducer"
	"github.com/existflow/tasktrack/internal/storage"
)

const (
	// DefaultKey is where the collection is persisted
	DefaultKey = "tasks"
	// DefaultInterval is the status recompute period
	DefaultInterval = 60 * time.Second
)

// Option configures a Store
type Option func(*Store)

// WithKey sets the storage key
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the clock used by the reducer
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithInterval sets the status recompute period
func WithInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithReducer replaces the reducer, mainly to fix ids in tests
func WithReducer(r *reducer.Reducer) Option {
	return func(s *Store) { s.reducer = r }
}

// Store owns the task collection
type Store struct {
	adapter  *storage.Adapter
	reducer  *reducer.Reducer
	clock    clock.Clock
	key      string
	interval time.Duration

	initOnce sync.Once

	mu       sync.Mutex
	tasks    []model.Task
	raw      string // JSON of tasks as last loaded or produced
	seq      uint64 // bumped on every local change
	savedSeq uint64 // last seq written to storage

	saveMu sync.Mutex

	subMu  sync.Mutex
	subs   map[int]func([]model.Task)
	nextID int

	loopMu      sync.Mutex
	started     bool
	closed      bool
	stopCh      chan struct{}
	done        chan struct{}
	cancelWatch func()
}

// New creates a store over adapter. Nothing is loaded until first use.
func New(adapter *storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter:  adapter,
		clock:    clock.Real{},
		key:      DefaultKey,
		interval: DefaultInterval,
		subs:     make(map[int]func([]model.Task)),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reducer == nil {
		s.reducer = reducer.New(s.clock)
	}
	return s
}

// Key returns the storage key
func (s *Store) Key() string {
	return s.key
}

// Init loads the collection from storage. Only the first call has an effect;
// absent or malformed data yields an empty collection.
func (s *Store) Init() {
	s.initOnce.Do(func() {
		raw, ok := s.adapter.Raw(s.key)
		tasks := []model.Task{}
		if ok {
			if err := json.Unmarshal([]byte(raw), &tasks); err != nil || tasks == nil {
				logger.Warn("Ignoring malformed task data", logger.F("key", s.key), logger.Err(err))
				tasks = []model.Task{}
				raw = ""
			} else if data, err := json.Marshal(tasks); err == nil {
				raw = string(data)
			}
		}

		s.mu.Lock()
		s.tasks = tasks
		s.raw = raw
		s.mu.Unlock()

		logger.Info("Loaded tasks", logger.F("key", s.key), logger.F("count", len(tasks)))

		s.loopMu.Lock()
		if !s.closed {
			s.cancelWatch = s.adapter.Watch(s.onExternalChange)
		}
		s.loopMu.Unlock()
	})
}

// Tasks returns a copy of the collection
func (s *Store) Tasks() []model.Task {
	s.Init()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Task returns a copy of the task with id
func (s *Store) Task(id string) (model.Task, bool) {
	s.Init()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return model.Task{}, false
}

// Dispatch applies in and persists the result when the collection changed.
// An intent outside the reducer's set panics.
func (s *Store) Dispatch(in reducer.Intent) {
	s.apply(in)
}

// Create adds a task and returns it as stored
func (s *Store) Create(in model.TaskInput) model.Task {
	next := s.apply(reducer.Add{Input: in})
	return next[len(next)-1].Clone()
}

// apply reduces in and returns the collection right after the reduction
func (s *Store) apply(in reducer.Intent) []model.Task {
	s.Init()

	s.mu.Lock()
	next := s.reducer.Reduce(s.tasks, in)
	data, err := json.Marshal(next)
	if err != nil {
		s.mu.Unlock()
		logger.Error("Failed to encode tasks", logger.F("kind", in.Kind()), logger.Err(err))
		return next
	}
	raw := string(data)
	if raw == s.raw {
		s.mu.Unlock()
		logger.Debug("Intent left tasks unchanged", logger.F("kind", in.Kind()), logger.F("id", reducer.TaskID(in)))
		return next
	}
	s.tasks = next
	s.raw = raw
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	logger.Debug("Dispatched intent", logger.F("kind", in.Kind()), logger.F("id", reducer.TaskID(in)), logger.F("count", len(next)))

	s.save(seq)
	s.notify()
	return next
}

// save writes the latest state unless a later save already covered seq.
// The state lock is released while writing so synchronous backend
// notifications can re-enter the store.
func (s *Store) save(seq uint64) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.savedSeq >= seq {
		s.mu.Unlock()
		return
	}
	latest, raw := s.seq, s.raw
	s.mu.Unlock()

	// A failed save leaves memory as the source of truth for the session
	s.adapter.SaveRaw(s.key, raw)

	s.mu.Lock()
	if latest > s.savedSeq {
		s.savedSeq = latest
	}
	s.mu.Unlock()
}

// onExternalChange reloads after writes by other stores sharing the backend.
// Local changes not yet written, or made while reading, win.
func (s *Store) onExternalChange(key string) {
	if key != "" && key != s.key {
		return
	}

	// A local change made after this point makes the snapshot stale
	s.mu.Lock()
	gen := s.seq
	s.mu.Unlock()

	raw, ok := s.adapter.Raw(s.key)
	tasks := []model.Task{}
	if ok {
		if err := json.Unmarshal([]byte(raw), &tasks); err != nil || tasks == nil {
			logger.Warn("Ignoring malformed external task data", logger.F("key", s.key), logger.Err(err))
			return
		}
	} else {
		raw = "[]"
	}

	s.mu.Lock()
	if s.seq != gen || s.seq != s.savedSeq || raw == s.raw || (s.raw == "" && raw == "[]") {
		s.mu.Unlock()
		return
	}
	s.tasks = tasks
	s.raw = raw
	s.mu.Unlock()

	logger.Info("Reloaded tasks after external change", logger.F("count", len(tasks)))
	s.notify()
}

// Subscribe calls fn with a snapshot after every change. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(tasks []model.Task)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func([]model.Task), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	if len(fns) == 0 {
		return
	}
	snapshot := s.Tasks()
	for _, fn := range fns {
		fn(snapshot)
	}
}

// Start recomputes statuses now and then every interval until Close.
// Calling Start more than once, or after Close, does nothing.
func (s *Store) Start() {
	s.Init()

	s.loopMu.Lock()
	if s.started || s.closed {
		s.loopMu.Unlock()
		return
	}
	s.started = true
	s.loopMu.Unlock()

	s.Dispatch(reducer.RecomputeStatuses{})
	go s.recomputeLoop()
}

func (s *Store) recomputeLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Dispatch(reducer.RecomputeStatuses{})
		case <-s.stopCh:
			return
		}
	}
}

// Close stops the recompute loop and change notifications and waits for
// the loop to exit. Safe to call more than once.
func (s *Store) Close() {
	s.loopMu.Lock()
	if s.closed {
		s.loopMu.Unlock()
		return
	}
	s.closed = true
	started := s.started
	cancel := s.cancelWatch
	s.cancelWatch = nil
	close(s.stopCh)
	s.loopMu.Unlock()

	if started {
		<-s.done
	}
	if cancel != nil {
		cancel()
	}
}
