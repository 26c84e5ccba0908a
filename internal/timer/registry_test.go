package timer

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/existflow/tasktrack/internal/clock"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/reducer"
	"github.com/existflow/tasktrack/internal/storage"
	"github.com/existflow/tasktrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	intents []reducer.Intent
}

func (d *recordingDispatcher) Dispatch(in reducer.Intent) {
	d.mu.Lock()
	d.intents = append(d.intents, in)
	d.mu.Unlock()
}

func (d *recordingDispatcher) last() reducer.Intent {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.intents) == 0 {
		return nil
	}
	return d.intents[len(d.intents)-1]
}

func TestRegistry_GetReturnsSameTimer(t *testing.T) {
	r := NewRegistry(&recordingDispatcher{})
	defer r.Close()

	a := r.Get("a", 5)
	assert.Same(t, a, r.Get("a", 99))
	assert.Equal(t, int64(5), a.Elapsed())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, Idle, r.State("missing"))
}

func TestRegistry_TickDispatchesUpdateTimer(t *testing.T) {
	mt := newManualTicker()
	d := &recordingDispatcher{}
	r := NewRegistry(d, WithTicker(mt.factory))
	defer r.Close()

	task := model.Task{ID: "a", ElapsedTime: 7}
	assert.Equal(t, Running, r.Toggle(task))
	mt.tick(t, 2)
	assert.Equal(t, Paused, r.Toggle(task))

	assert.Equal(t, reducer.UpdateTimer{ID: "a", Elapsed: 9}, d.last())
	d.mu.Lock()
	assert.Contains(t, d.intents, reducer.Intent(reducer.UpdateTimer{ID: "a", Elapsed: 8}))
	d.mu.Unlock()

	r.Reset("a")
	assert.Equal(t, reducer.UpdateTimer{ID: "a", Elapsed: 7}, d.last())
	assert.Equal(t, Idle, r.State("a"))
}

func TestRegistry_RemoveAndRetain(t *testing.T) {
	mt := newManualTicker()
	r := NewRegistry(&recordingDispatcher{}, WithTicker(mt.factory))
	defer r.Close()

	r.Get("a", 0).Start()
	r.Get("b", 0)
	r.Get("c", 0)

	r.Retain([]string{"b"})
	assert.Equal(t, 1, r.Len())
	_, ok := r.Lookup("a")
	assert.False(t, ok)
	mt.assertNoReceiver(t)

	r.Remove("b")
	r.Remove("b")
	assert.Zero(t, r.Len())
}

func TestRegistry_ClosedRegistryHandsOutClosedTimers(t *testing.T) {
	mt := newManualTicker()
	r := NewRegistry(&recordingDispatcher{}, WithTicker(mt.factory))
	r.Close()

	tm := r.Get("late", 0)
	tm.Start()
	assert.NotEqual(t, Running, tm.State())
	assert.Zero(t, mt.created.Load())
}

func TestRegistry_BoundToStore(t *testing.T) {
	c := clock.NewFake(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	red := reducer.New(c)
	n := 0
	red.NewID = func() string { n++; return fmt.Sprintf("t%d", n) }
	s := store.New(storage.NewAdapter(storage.NewMemory()), store.WithClock(c), store.WithReducer(red))
	defer s.Close()

	mt := newManualTicker()
	r := NewRegistry(s, WithTicker(mt.factory))
	defer r.Close()
	cancel := r.Bind(s)
	defer cancel()

	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Write report"}})
	task, ok := s.Task("t1")
	require.True(t, ok)

	r.Toggle(task)
	mt.tick(t, 5)
	r.Pause("t1")

	task, _ = s.Task("t1")
	assert.Equal(t, int64(5), task.ElapsedTime)

	r.Toggle(task)
	mt.tick(t, 1)

	// deleting the task tears its timer down
	s.Dispatch(reducer.Delete{ID: "t1"})
	assert.Zero(t, r.Len())
	mt.assertNoReceiver(t)
	_, ok = s.Task("t1")
	assert.False(t, ok)
}
