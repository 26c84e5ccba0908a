// Package reducer owns every transition of the task collection.
//
// Reduce is the single entry point: it takes the current collection and an
// Intent and returns a new collection. Inputs are never mutated, so callers may
// keep references to previous states.
package reducer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/existflow/tasktrack/internal/clock"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/google/uuid"
)

// ErrUnknownIntent is the panic value (wrapped) for intents Reduce cannot handle
var ErrUnknownIntent = errors.New("unknown intent")

// Reducer applies intents to task collections
type Reducer struct {
	Clock clock.Clock
	NewID func() string
}

// New creates a reducer reading time from c and generating UUIDs
func New(c clock.Clock) *Reducer {
	if c == nil {
		c = clock.Real{}
	}
	return &Reducer{
		Clock: c,
		NewID: func() string { return uuid.New().String() },
	}
}

// Reduce returns the collection after applying in.
// Intents referencing a missing id return the collection unchanged.
// An intent type outside the closed set panics.
func (r *Reducer) Reduce(tasks []model.Task, in Intent) []model.Task {
	now := r.Clock.Now()

	switch in := in.(type) {
	case Add:
		t := model.NewTask(r.NewID(), in.Input)
		t.CreatedAt = now
		t.UpdatedAt = now
		t.Status = model.StatusActive
		t.ElapsedTime = 0
		out := make([]model.Task, 0, len(tasks)+1)
		out = append(out, tasks...)
		return append(out, t)

	case Update:
		return mapTask(tasks, in.ID, func(t model.Task) model.Task {
			t = t.Apply(in.Patch)
			t.Status = CalculateStatus(t, now)
			t.UpdatedAt = now
			return t
		})

	case Delete:
		i := indexOf(tasks, in.ID)
		if i < 0 {
			return tasks
		}
		out := make([]model.Task, 0, len(tasks)-1)
		out = append(out, tasks[:i]...)
		return append(out, tasks[i+1:]...)

	case ToggleComplete:
		return mapTask(tasks, in.ID, func(t model.Task) model.Task {
			if t.Status == model.StatusCompleted {
				t.Status = model.StatusActive
			} else {
				t.Status = model.StatusCompleted
			}
			t.UpdatedAt = now
			return t
		})

	case UpdateTimer:
		return mapTask(tasks, in.ID, func(t model.Task) model.Task {
			t.ElapsedTime = max(in.Elapsed, 0)
			t.UpdatedAt = now
			return t
		})

	case ResetTimer:
		return mapTask(tasks, in.ID, func(t model.Task) model.Task {
			t.ElapsedTime = 0
			t.UpdatedAt = now
			return t
		})

	case SetAll:
		out := make([]model.Task, len(in.Tasks))
		for i, t := range in.Tasks {
			out[i] = t.Clone()
		}
		return out

	case ClearAll:
		return []model.Task{}

	case RecomputeStatuses:
		out := slices.Clone(tasks)
		for i, t := range out {
			status := CalculateStatus(t, now)
			if status != t.Status {
				out[i].Status = status
				out[i].UpdatedAt = now
			}
		}
		return out
	}

	panic(fmt.Errorf("reducer: %w %T", ErrUnknownIntent, in))
}

func indexOf(tasks []model.Task, id string) int {
	return slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == id })
}

// mapTask replaces the task with id by fn(task) in a copy of tasks
func mapTask(tasks []model.Task, id string, fn func(model.Task) model.Task) []model.Task {
	i := indexOf(tasks, id)
	if i < 0 {
		return tasks
	}
	out := slices.Clone(tasks)
	out[i] = fn(tasks[i].Clone())
	return out
}
