// Package debounce delays a rapidly changing value until it settles.
package debounce

import (
	"sync"
	"time"
)

// Debouncer commits the latest value once no new value has arrived for the
// quiet period.
type Debouncer[T any] struct {
	quiet  time.Duration
	commit func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
	value   T
	stopped bool
}

// New creates a debouncer calling commit from its own goroutine
func New[T any](quiet time.Duration, commit func(T)) *Debouncer[T] {
	return &Debouncer[T]{quiet: quiet, commit: commit}
}

// Set records v and re-arms the quiet period
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.value = v
	d.pending = true
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	// A later Set, Flush or Stop supersedes this timer
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.mu.Unlock()

	d.commit(v)
}

// Pending reports whether a value is waiting to be committed
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush commits the pending value now, if any
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	v := d.value
	d.pending = false
	d.mu.Unlock()

	d.commit(v)
}

// Stop drops the pending value without committing. Later Sets are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = false
	d.stopped = true
}
