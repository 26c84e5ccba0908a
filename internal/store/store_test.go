package store

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/existflow/tasktrack/internal/clock"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/reducer"
	"github.com/existflow/tasktrack/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

// countingBackend records calls on top of an in-memory backend
type countingBackend struct {
	*storage.Memory
	gets atomic.Int32
	sets atomic.Int32
}

func (b *countingBackend) Get(key string) (string, bool, error) {
	b.gets.Add(1)
	return b.Memory.Get(key)
}

func (b *countingBackend) Set(key, value string) error {
	b.sets.Add(1)
	return b.Memory.Set(key, value)
}

func newStore(t *testing.T, backend storage.Backend, c *clock.Fake, opts ...Option) *Store {
	t.Helper()
	r := reducer.New(c)
	var n atomic.Int32
	r.NewID = func() string { return fmt.Sprintf("t%d", n.Add(1)) }

	s := New(storage.NewAdapter(backend), append([]Option{WithClock(c), WithReducer(r)}, opts...)...)
	t.Cleanup(s.Close)
	return s
}

func TestInit_LoadsOnce(t *testing.T) {
	b := &countingBackend{Memory: storage.NewMemory()}
	require.NoError(t, b.Memory.Set(DefaultKey, `[{"id":"a","title":"Loaded","status":"active","taskType":"single-day"}]`))

	s := newStore(t, b, clock.NewFake(t0))
	s.Init()
	s.Init()
	_ = s.Tasks()
	_, _ = s.Task("a")

	assert.Equal(t, int32(1), b.gets.Load())
	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Loaded", tasks[0].Title)
}

func TestInit_MalformedAndAbsentYieldEmpty(t *testing.T) {
	m := storage.NewMemory()
	require.NoError(t, m.Set(DefaultKey, `{"not":"an array"}`))
	assert.Empty(t, newStore(t, m, clock.NewFake(t0)).Tasks())

	empty := newStore(t, storage.NewMemory(), clock.NewFake(t0)).Tasks()
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDispatch_PersistsFullCollection(t *testing.T) {
	m := storage.NewMemory()
	s := newStore(t, m, clock.NewFake(t0))

	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Write report", Deadline: "2024-06-20"}})
	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Buy milk"}})

	stored := storage.Load(storage.NewAdapter(m), DefaultKey, []model.Task{})
	assert.Equal(t, s.Tasks(), stored)
	require.Len(t, stored, 2)
	assert.Equal(t, "t1", stored[0].ID)
	assert.Equal(t, model.StatusActive, stored[0].Status)
}

func TestDispatch_UnchangedSkipsSave(t *testing.T) {
	b := &countingBackend{Memory: storage.NewMemory()}
	s := newStore(t, b, clock.NewFake(t0))

	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Buy milk"}})
	require.Equal(t, int32(1), b.sets.Load())

	s.Dispatch(reducer.Delete{ID: "missing"})
	s.Dispatch(reducer.RecomputeStatuses{})
	assert.Equal(t, int32(1), b.sets.Load())
}

func TestDispatch_CustomKey(t *testing.T) {
	m := storage.NewMemory()
	s := newStore(t, m, clock.NewFake(t0), WithKey("work"))
	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Buy milk"}})

	a := storage.NewAdapter(m)
	assert.True(t, a.HasKey("work"))
	assert.False(t, a.HasKey(DefaultKey))
	assert.Equal(t, "work", s.Key())
}

func TestTask_ReturnsCopy(t *testing.T) {
	s := newStore(t, storage.NewMemory(), clock.NewFake(t0))
	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Gym", IsRepetitive: true, RepetitionDays: []string{"Monday"}}})

	got, ok := s.Task("t1")
	require.True(t, ok)
	got.RepetitionDays[0] = "Friday"

	again, _ := s.Task("t1")
	assert.Equal(t, []string{"Monday"}, again.RepetitionDays)

	_, ok = s.Task("nope")
	assert.False(t, ok)
}

func TestSubscribe(t *testing.T) {
	s := newStore(t, storage.NewMemory(), clock.NewFake(t0))

	var got [][]model.Task
	cancel := s.Subscribe(func(tasks []model.Task) { got = append(got, tasks) })

	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Buy milk"}})
	s.Dispatch(reducer.Delete{ID: "missing"})
	require.Len(t, got, 1)
	assert.Len(t, got[0], 1)

	cancel()
	s.Dispatch(reducer.ClearAll{})
	assert.Len(t, got, 1)
}

func TestExternalChangeConverges(t *testing.T) {
	m := storage.NewMemory()
	c := clock.NewFake(t0)
	a := newStore(t, m, c)
	b := newStore(t, m, c)
	a.Init()
	b.Init()

	var mu sync.Mutex
	notified := 0
	b.Subscribe(func([]model.Task) {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	a.Dispatch(reducer.Add{Input: model.TaskInput{Title: "From A"}})

	tasks := b.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "From A", tasks[0].Title)
	mu.Lock()
	assert.Equal(t, 1, notified)
	mu.Unlock()

	// last write wins
	b.Dispatch(reducer.ClearAll{})
	assert.Empty(t, a.Tasks())
}

// pausingBackend holds one Get after taking its snapshot until released
type pausingBackend struct {
	*storage.Memory
	armed   atomic.Bool
	taken   chan struct{}
	release chan struct{}
}

func (b *pausingBackend) Get(key string) (string, bool, error) {
	v, ok, err := b.Memory.Get(key)
	if b.armed.CompareAndSwap(true, false) {
		close(b.taken)
		<-b.release
	}
	return v, ok, err
}

func TestExternalChange_StaleSnapshotDoesNotRevertLocalChange(t *testing.T) {
	b := &pausingBackend{
		Memory:  storage.NewMemory(),
		taken:   make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newStore(t, b, clock.NewFake(t0))
	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Buy milk"}})

	b.armed.Store(true)
	done := make(chan struct{})
	go func() {
		s.onExternalChange(DefaultKey)
		close(done)
	}()
	<-b.taken

	s.Dispatch(reducer.ToggleComplete{ID: "t1"})
	close(b.release)
	<-done

	task, ok := s.Task("t1")
	require.True(t, ok)
	assert.Equal(t, model.StatusCompleted, task.Status)

	raw, _, err := b.Memory.Get(DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"status":"completed"`)
}

func TestExternalClearEmptiesState(t *testing.T) {
	m := storage.NewMemory()
	s := newStore(t, m, clock.NewFake(t0))
	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Buy milk"}})

	require.NoError(t, m.Clear())
	assert.Empty(t, s.Tasks())
}

func TestStart_RecomputesImmediatelyAndPeriodically(t *testing.T) {
	c := clock.NewFake(t0)
	m := storage.NewMemory()
	s := newStore(t, m, c, WithInterval(10*time.Millisecond))

	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Write report", Deadline: "2024-06-09"}})
	require.Equal(t, model.StatusActive, s.Tasks()[0].Status)

	s.Start()
	assert.Equal(t, model.StatusOverdue, s.Tasks()[0].Status)

	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Tomorrow", Deadline: "2024-06-11"}})
	c.Advance(48 * time.Hour)

	assert.Eventually(t, func() bool {
		task, ok := s.Task("t2")
		return ok && task.Status == model.StatusOverdue
	}, time.Second, 5*time.Millisecond)
}

func TestClose_StopsTickerAndIsIdempotent(t *testing.T) {
	c := clock.NewFake(t0)
	b := &countingBackend{Memory: storage.NewMemory()}
	s := newStore(t, b, c, WithInterval(5*time.Millisecond))

	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "Tomorrow", Deadline: "2024-06-11"}})
	s.Start()
	s.Start()
	s.Close()
	s.Close()

	sets := b.sets.Load()
	c.Advance(72 * time.Hour)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, sets, b.sets.Load())
	assert.Equal(t, model.StatusActive, s.Tasks()[0].Status)

	s.Start()
	assert.Equal(t, model.StatusActive, s.Tasks()[0].Status)
}

func TestClose_StopsExternalUpdates(t *testing.T) {
	m := storage.NewMemory()
	c := clock.NewFake(t0)
	a := newStore(t, m, c)
	b := newStore(t, m, c)
	b.Init()
	b.Close()

	a.Dispatch(reducer.Add{Input: model.TaskInput{Title: "From A"}})
	assert.Empty(t, b.Tasks())
}

func TestCreate_ReturnsStoredTask(t *testing.T) {
	s := newStore(t, storage.NewMemory(), clock.NewFake(t0))
	s.Dispatch(reducer.Add{Input: model.TaskInput{Title: "First"}})

	task := s.Create(model.TaskInput{Title: "Second", Deadline: "2024-06-30"})
	assert.Equal(t, "t2", task.ID)
	assert.Equal(t, model.StatusActive, task.Status)
	assert.Equal(t, t0, task.CreatedAt)

	got, ok := s.Task("t2")
	require.True(t, ok)
	assert.Equal(t, task, got)
}
