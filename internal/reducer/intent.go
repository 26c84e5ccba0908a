package reducer

import "github.com/existflow/tasktrack/internal/model"

// Intent is a requested state change. The set of intents is closed:
// only the types in this file implement it.
type Intent interface {
	Kind() string
	intent()
}

// Add appends a new task built from Input
type Add struct {
	Input model.TaskInput
}

// Update merges Patch into the task with ID
type Update struct {
	ID    string
	Patch model.TaskPatch
}

// Delete removes the task with ID
type Delete struct {
	ID string
}

// ToggleComplete flips a task between completed and active
type ToggleComplete struct {
	ID string
}

// UpdateTimer stores the elapsed seconds of a task's timer
type UpdateTimer struct {
	ID      string
	Elapsed int64
}

// ResetTimer zeroes the elapsed seconds of a task
type ResetTimer struct {
	ID string
}

// SetAll replaces the collection, used for hydration
type SetAll struct {
	Tasks []model.Task
}

// ClearAll empties the collection
type ClearAll struct{}

// RecomputeStatuses re-derives every task's status from the clock
type RecomputeStatuses struct{}

func (Add) Kind() string               { return "add" }
func (Update) Kind() string            { return "update" }
func (Delete) Kind() string            { return "delete" }
func (ToggleComplete) Kind() string    { return "toggle_complete" }
func (UpdateTimer) Kind() string       { return "update_timer" }
func (ResetTimer) Kind() string        { return "reset_timer" }
func (SetAll) Kind() string            { return "set_all" }
func (ClearAll) Kind() string          { return "clear_all" }
func (RecomputeStatuses) Kind() string { return "recompute_statuses" }

func (Add) intent()               {}
func (Update) intent()            {}
func (Delete) intent()            {}
func (ToggleComplete) intent()    {}
func (UpdateTimer) intent()       {}
func (ResetTimer) intent()        {}
func (SetAll) intent()            {}
func (ClearAll) intent()          {}
func (RecomputeStatuses) intent() {}

// TaskID returns the id an intent targets, or "" for collection-wide intents
func TaskID(in Intent) string {
	switch in := in.(type) {
	case Update:
		return in.ID
	case Delete:
		return in.ID
	case ToggleComplete:
		return in.ID
	case UpdateTimer:
		return in.ID
	case ResetTimer:
		return in.ID
	}
	return ""
}
