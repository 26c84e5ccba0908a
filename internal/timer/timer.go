// Package timer implements per-task stopwatches that count elapsed seconds.
package timer

import (
	"sync"
	"time"

	"github.com/existflow/tasktrack/internal/logger"
)

// State of a timer
type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Paused  State = "paused"
)

// DefaultInterval is the increment period
const DefaultInterval = time.Second

// Ticker is the subset of time.Ticker a timer needs
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ *time.Ticker }

func (t realTicker) C() <-chan time.Time { return t.Ticker.C }

func newRealTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

// Option configures a Timer
type Option func(*Timer)

// WithInitial sets the elapsed seconds at construction, which Reset restores
func WithInitial(seconds int64) Option {
	return func(t *Timer) {
		if seconds > 0 {
			t.initial = seconds
		}
	}
}

// WithOnTick sets a callback receiving the elapsed seconds after every
// increment. It runs on the timer's goroutine and must not call Pause or
// Reset on the same timer.
func WithOnTick(fn func(elapsed int64)) Option {
	return func(t *Timer) { t.onTick = fn }
}

// WithTicker replaces the ticker factory
func WithTicker(fn func(time.Duration) Ticker) Option {
	return func(t *Timer) { t.newTicker = fn }
}

// WithInterval sets the increment period
func WithInterval(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.interval = d
		}
	}
}

// Timer counts seconds while running. At most one increment goroutine
// exists per timer.
type Timer struct {
	initial   int64
	interval  time.Duration
	onTick    func(int64)
	newTicker func(time.Duration) Ticker

	mu         sync.Mutex
	state      State
	elapsed    int64
	closed     bool
	inCallback bool
	stopCh     chan struct{}
	done       chan struct{}
}

// New creates an idle timer
func New(opts ...Option) *Timer {
	t := &Timer{
		interval:  DefaultInterval,
		newTicker: newRealTicker,
		state:     Idle,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.elapsed = t.initial
	return t
}

// Start begins counting. No-op when running or closed.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.state == Running {
		return
	}
	t.state = Running
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(t.newTicker(t.interval), t.stopCh, t.done)

	logger.Debug("Timer started", logger.F("elapsed", t.elapsed))
}

func (t *Timer) run(ticker Ticker, stopCh, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		// A pending stop wins over a pending tick
		select {
		case <-stopCh:
			return
		default:
		}

		select {
		case <-ticker.C():
			t.mu.Lock()
			t.elapsed++
			elapsed := t.elapsed
			fn := t.onTick
			t.inCallback = fn != nil
			t.mu.Unlock()

			if fn != nil {
				fn(elapsed)
				t.mu.Lock()
				t.inCallback = false
				t.mu.Unlock()
			}
		case <-stopCh:
			return
		}
	}
}

// stopLocked signals the goroutine and returns the channel to wait on
func (t *Timer) stopLocked() chan struct{} {
	if t.state != Running {
		return nil
	}
	close(t.stopCh)
	done := t.done
	t.stopCh, t.done = nil, nil
	return done
}

// Pause stops counting and keeps the elapsed value. No-op unless running.
// Returns after the increment goroutine has exited.
func (t *Timer) Pause() {
	t.mu.Lock()
	if t.state != Running {
		t.mu.Unlock()
		return
	}
	done := t.stopLocked()
	t.state = Paused
	t.mu.Unlock()

	<-done

	logger.Debug("Timer paused", logger.F("elapsed", t.Elapsed()))
}

// Reset stops counting and restores the construction-time elapsed value
func (t *Timer) Reset() {
	t.mu.Lock()
	done := t.stopLocked()
	t.mu.Unlock()

	if done != nil {
		<-done
	}

	t.mu.Lock()
	t.elapsed = t.initial
	t.state = Idle
	t.mu.Unlock()

	logger.Debug("Timer reset", logger.F("elapsed", t.initial))
}

// Close stops the timer for good. Safe to call more than once. When called
// while the timer's own tick callback is running it does not wait for it;
// no further increments happen either way.
func (t *Timer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	done := t.stopLocked()
	if t.state == Running {
		t.state = Paused
	}
	wait := done != nil && !t.inCallback
	t.mu.Unlock()

	if wait {
		<-done
	}
}

// Elapsed returns the counted seconds
func (t *Timer) Elapsed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// State returns the current state
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Initial returns the construction-time elapsed value
func (t *Timer) Initial() int64 {
	return t.initial
}
