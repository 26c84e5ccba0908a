package reducer

import (
	"time"

	"github.com/existflow/tasktrack/internal/model"
)

// CalculateStatus derives a task's status at now.
// Completed is sticky; otherwise a deadline before today's local midnight
// makes the task overdue.
func CalculateStatus(t model.Task, now time.Time) model.Status {
	if t.Status == model.StatusCompleted {
		return model.StatusCompleted
	}
	if t.Deadline.Valid() && t.Deadline.Before(model.DateOf(now)) {
		return model.StatusOverdue
	}
	return model.StatusActive
}
