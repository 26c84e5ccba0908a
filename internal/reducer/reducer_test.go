package reducer

import (
	"fmt"
	"testing"
	"time"

	"github.com/existflow/tasktrack/internal/clock"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestReducer() (*Reducer, *clock.Fake) {
	c := clock.NewFake(start)
	r := New(c)
	n := 0
	r.NewID = func() string {
		n++
		return fmt.Sprintf("task-%d", n)
	}
	return r, c
}

func seed(t *testing.T, r *Reducer, titles ...string) []model.Task {
	t.Helper()
	var tasks []model.Task
	for _, title := range titles {
		tasks = r.Reduce(tasks, Add{Input: model.TaskInput{Title: title}})
	}
	require.Len(t, tasks, len(titles))
	return tasks
}

func TestReduce_Add(t *testing.T) {
	r, _ := newTestReducer()

	tasks := r.Reduce(nil, Add{Input: model.TaskInput{Title: "Write report", Deadline: "2024-06-20"}})
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, "task-1", got.ID)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, model.StatusActive, got.Status)
	assert.Equal(t, model.TaskTypeSingleDay, got.TaskType)
	assert.Zero(t, got.ElapsedTime)
	assert.Equal(t, start, got.CreatedAt)
	assert.Equal(t, start, got.UpdatedAt)

	tasks = r.Reduce(tasks, Add{Input: model.TaskInput{Title: "Second"}})
	assert.Equal(t, "Second", tasks[1].Title)
	assert.Equal(t, "task-2", tasks[1].ID)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	r, _ := newTestReducer()
	tasks := seed(t, r, "alpha", "beta")
	before := make([]model.Task, len(tasks))
	for i, task := range tasks {
		before[i] = task.Clone()
	}

	title := "changed"
	days := []string{"Monday"}
	_ = r.Reduce(tasks, Update{ID: "task-1", Patch: model.TaskPatch{Title: &title, RepetitionDays: &days}})
	_ = r.Reduce(tasks, ToggleComplete{ID: "task-2"})
	_ = r.Reduce(tasks, UpdateTimer{ID: "task-1", Elapsed: 30})
	_ = r.Reduce(tasks, Delete{ID: "task-1"})
	_ = r.Reduce(tasks, RecomputeStatuses{})
	_ = r.Reduce(tasks, ClearAll{})

	assert.Equal(t, before, tasks)
}

func TestReduce_Update(t *testing.T) {
	r, c := newTestReducer()
	tasks := seed(t, r, "alpha")
	c.Advance(time.Hour)

	title := "alpha prime"
	deadline := model.Date("2024-06-01")
	tasks = r.Reduce(tasks, Update{ID: "task-1", Patch: model.TaskPatch{Title: &title, Deadline: &deadline}})

	assert.Equal(t, "alpha prime", tasks[0].Title)
	assert.Equal(t, model.StatusOverdue, tasks[0].Status)
	assert.Equal(t, start, tasks[0].CreatedAt)
	assert.Equal(t, start.Add(time.Hour), tasks[0].UpdatedAt)
}

func TestReduce_UpdateKeepsCompleted(t *testing.T) {
	r, _ := newTestReducer()
	tasks := seed(t, r, "alpha")
	tasks = r.Reduce(tasks, ToggleComplete{ID: "task-1"})

	deadline := model.Date("2020-01-01")
	tasks = r.Reduce(tasks, Update{ID: "task-1", Patch: model.TaskPatch{Deadline: &deadline}})
	assert.Equal(t, model.StatusCompleted, tasks[0].Status)
}

func TestReduce_MissingIDIsNoop(t *testing.T) {
	r, _ := newTestReducer()
	tasks := seed(t, r, "alpha")

	title := "ghost"
	for _, in := range []Intent{
		Update{ID: "nope", Patch: model.TaskPatch{Title: &title}},
		Delete{ID: "nope"},
		ToggleComplete{ID: "nope"},
		UpdateTimer{ID: "nope", Elapsed: 5},
		ResetTimer{ID: "nope"},
	} {
		assert.Equal(t, tasks, r.Reduce(tasks, in), in.Kind())
	}
}

func TestReduce_DeleteIsIdempotent(t *testing.T) {
	r, _ := newTestReducer()
	tasks := seed(t, r, "alpha", "beta", "gamma")

	once := r.Reduce(tasks, Delete{ID: "task-2"})
	twice := r.Reduce(once, Delete{ID: "task-2"})

	assert.Equal(t, once, twice)
	require.Len(t, twice, 2)
	assert.Equal(t, "alpha", twice[0].Title)
	assert.Equal(t, "gamma", twice[1].Title)
}

func TestReduce_ToggleComplete(t *testing.T) {
	r, c := newTestReducer()
	tasks := r.Reduce(nil, Add{Input: model.TaskInput{Title: "Write report", Deadline: "2024-06-14"}})

	tasks = r.Reduce(tasks, ToggleComplete{ID: "task-1"})
	assert.Equal(t, model.StatusCompleted, tasks[0].Status)

	c.Advance(time.Minute)
	tasks = r.Reduce(tasks, ToggleComplete{ID: "task-1"})
	// manual toggle off goes back to active even though the deadline passed
	assert.Equal(t, model.StatusActive, tasks[0].Status)
	assert.Equal(t, start.Add(time.Minute), tasks[0].UpdatedAt)
}

func TestReduce_CompletedIsStickyAcrossRecompute(t *testing.T) {
	r, c := newTestReducer()
	tasks := r.Reduce(nil, Add{Input: model.TaskInput{Title: "Write report", Deadline: "2024-06-16"}})
	tasks = r.Reduce(tasks, ToggleComplete{ID: "task-1"})

	for i := 0; i < 5; i++ {
		c.Advance(24 * time.Hour)
		tasks = r.Reduce(tasks, RecomputeStatuses{})
		assert.Equal(t, model.StatusCompleted, tasks[0].Status)
	}

	tasks = r.Reduce(tasks, ToggleComplete{ID: "task-1"})
	tasks = r.Reduce(tasks, RecomputeStatuses{})
	assert.Equal(t, model.StatusOverdue, tasks[0].Status)
}

func TestReduce_Timers(t *testing.T) {
	r, c := newTestReducer()
	tasks := seed(t, r, "alpha")

	c.Advance(5 * time.Second)
	tasks = r.Reduce(tasks, UpdateTimer{ID: "task-1", Elapsed: 5})
	assert.EqualValues(t, 5, tasks[0].ElapsedTime)
	assert.Equal(t, start.Add(5*time.Second), tasks[0].UpdatedAt)

	tasks = r.Reduce(tasks, UpdateTimer{ID: "task-1", Elapsed: -3})
	assert.EqualValues(t, 0, tasks[0].ElapsedTime)

	tasks = r.Reduce(tasks, UpdateTimer{ID: "task-1", Elapsed: 90})
	tasks = r.Reduce(tasks, ResetTimer{ID: "task-1"})
	assert.EqualValues(t, 0, tasks[0].ElapsedTime)
}

func TestReduce_SetAllAndClearAll(t *testing.T) {
	r, _ := newTestReducer()
	loaded := []model.Task{{ID: "x", Title: "loaded", Status: model.StatusActive}}

	tasks := r.Reduce(seed(t, r, "alpha"), SetAll{Tasks: loaded})
	assert.Equal(t, loaded, tasks)

	tasks[0].Title = "mutated"
	assert.Equal(t, "loaded", loaded[0].Title)

	tasks = r.Reduce(tasks, ClearAll{})
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestReduce_RecomputeOnlyTouchesChanged(t *testing.T) {
	r, c := newTestReducer()
	tasks := r.Reduce(nil, Add{Input: model.TaskInput{Title: "due soon", Deadline: "2024-06-16"}})
	tasks = r.Reduce(tasks, Add{Input: model.TaskInput{Title: "no deadline"}})

	c.Set(time.Date(2024, 6, 17, 8, 0, 0, 0, time.UTC))
	tasks = r.Reduce(tasks, RecomputeStatuses{})

	assert.Equal(t, model.StatusOverdue, tasks[0].Status)
	assert.Equal(t, c.Now(), tasks[0].UpdatedAt)
	assert.Equal(t, model.StatusActive, tasks[1].Status)
	assert.Equal(t, start, tasks[1].UpdatedAt)
}

func TestReduce_OverdueScenario(t *testing.T) {
	r, _ := newTestReducer()
	yesterday := model.DateOf(start).AddDays(-1)

	tasks := r.Reduce(nil, Add{Input: model.TaskInput{Title: "Write report", Deadline: yesterday}})
	assert.Equal(t, model.StatusOverdue, CalculateStatus(tasks[0], start))

	tasks = r.Reduce(tasks, RecomputeStatuses{})
	assert.Equal(t, model.StatusOverdue, tasks[0].Status)
}

type bogusIntent struct{}

func (bogusIntent) Kind() string { return "bogus" }
func (bogusIntent) intent()      {}

func TestReduce_UnknownIntentPanics(t *testing.T) {
	r, _ := newTestReducer()
	assert.PanicsWithError(t, "reducer: unknown intent reducer.bogusIntent", func() {
		r.Reduce(nil, bogusIntent{})
	})
}

func TestTaskID(t *testing.T) {
	assert.Equal(t, "a", TaskID(Delete{ID: "a"}))
	assert.Equal(t, "b", TaskID(UpdateTimer{ID: "b"}))
	assert.Empty(t, TaskID(ClearAll{}))
}
