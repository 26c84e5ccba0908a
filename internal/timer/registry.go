package timer

import (
	"sync"

	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/reducer"
)

// Dispatcher receives the timer intents
type Dispatcher interface {
	Dispatch(in reducer.Intent)
}

// Subscriber reports collection changes
type Subscriber interface {
	Subscribe(fn func(tasks []model.Task)) (cancel func())
}

// Registry owns one timer per task and mirrors their values into the
// task collection.
type Registry struct {
	dispatch Dispatcher
	opts     []Option

	mu     sync.Mutex
	timers map[string]*Timer
	closed bool
}

// NewRegistry creates a registry whose timers are built with opts
func NewRegistry(d Dispatcher, opts ...Option) *Registry {
	return &Registry{
		dispatch: d,
		opts:     opts,
		timers:   make(map[string]*Timer),
	}
}

// Get returns the timer for id, creating it with initial elapsed seconds
func (r *Registry) Get(id string, initial int64) *Timer {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[id]; ok {
		return t
	}

	opts := append([]Option{}, r.opts...)
	opts = append(opts,
		WithInitial(initial),
		WithOnTick(func(elapsed int64) {
			r.dispatch.Dispatch(reducer.UpdateTimer{ID: id, Elapsed: elapsed})
		}),
	)
	t := New(opts...)
	if r.closed {
		t.Close()
	}
	r.timers[id] = t
	return t
}

// Lookup returns the timer for id if one exists
func (r *Registry) Lookup(id string) (*Timer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timers[id]
	return t, ok
}

// State returns the state of id's timer, Idle when it has none
func (r *Registry) State(id string) State {
	if t, ok := r.Lookup(id); ok {
		return t.State()
	}
	return Idle
}

// Toggle starts a task's timer, or pauses it when running
func (r *Registry) Toggle(task model.Task) State {
	t := r.Get(task.ID, task.ElapsedTime)
	if t.State() == Running {
		r.Pause(task.ID)
	} else {
		t.Start()
	}
	return t.State()
}

// Pause pauses id's timer and stores the final value
func (r *Registry) Pause(id string) {
	t, ok := r.Lookup(id)
	if !ok {
		return
	}
	t.Pause()
	r.dispatch.Dispatch(reducer.UpdateTimer{ID: id, Elapsed: t.Elapsed()})
}

// Reset returns id's timer to its baseline and stores it
func (r *Registry) Reset(id string) {
	t, ok := r.Lookup(id)
	if !ok {
		return
	}
	t.Reset()
	r.dispatch.Dispatch(reducer.UpdateTimer{ID: id, Elapsed: t.Elapsed()})
}

// Remove closes and forgets id's timer
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	t, ok := r.timers[id]
	delete(r.timers, id)
	r.mu.Unlock()

	if ok {
		t.Close()
	}
}

// Retain closes every timer whose task is not in ids
func (r *Registry) Retain(ids []string) {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}

	r.mu.Lock()
	var stale []*Timer
	for id, t := range r.timers {
		if _, ok := keep[id]; !ok {
			stale = append(stale, t)
			delete(r.timers, id)
			logger.Debug("Dropping timer of removed task", logger.F("id", id))
		}
	}
	r.mu.Unlock()

	for _, t := range stale {
		t.Close()
	}
}

// Bind keeps the registry in step with s: timers of deleted tasks are
// closed after every change.
func (r *Registry) Bind(s Subscriber) (cancel func()) {
	return s.Subscribe(func(tasks []model.Task) {
		ids := make([]string, len(tasks))
		for i, t := range tasks {
			ids[i] = t.ID
		}
		r.Retain(ids)
	})
}

// Len returns the number of live timers
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Close closes every timer. Timers obtained afterwards start closed.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	timers := r.timers
	r.timers = make(map[string]*Timer)
	r.mu.Unlock()

	for _, t := range timers {
		t.Close()
	}
}
