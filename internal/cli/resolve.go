package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/existflow/tasktrack/internal/model"
)

var (
	// ErrTaskNotFound is returned when no task matches a reference
	ErrTaskNotFound = errors.New("task not found")
	// ErrAmbiguousTask is returned when a prefix matches several tasks
	ErrAmbiguousTask = errors.New("task reference is ambiguous")
)

// resolveTask finds a task by exact ID or by a unique ID prefix
func resolveTask(tasks []model.Task, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, ErrTaskNotFound
	}

	var matches []model.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return model.Task{}, fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguousTask, ref, len(matches))
	}
}

// shortID is the prefix shown in tables
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
