package reducer

import (
	"testing"
	"time"

	"github.com/existflow/tasktrack/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCalculateStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 1, 0, time.Local)

	cases := []struct {
		name string
		task model.Task
		want model.Status
	}{
		{"no deadline", model.Task{Status: model.StatusActive}, model.StatusActive},
		{"deadline today", model.Task{Deadline: "2024-06-15"}, model.StatusActive},
		{"deadline tomorrow", model.Task{Deadline: "2024-06-16"}, model.StatusActive},
		{"deadline yesterday", model.Task{Deadline: "2024-06-14"}, model.StatusOverdue},
		{"overdue recovers", model.Task{Status: model.StatusOverdue, Deadline: "2024-06-20"}, model.StatusActive},
		{"completed sticky", model.Task{Status: model.StatusCompleted, Deadline: "2024-01-01"}, model.StatusCompleted},
		{"malformed deadline", model.Task{Deadline: "soon"}, model.StatusActive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CalculateStatus(tc.task, now))
		})
	}
}
