package model

import (
	"slices"
	"time"
)

// Status of a task
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// TaskType controls which date fields apply to a task
type TaskType string

const (
	TaskTypeSingleDay TaskType = "single-day"
	TaskTypeDateRange TaskType = "date-range"
)

// IsRange reports whether the type spans a start and end date.
// The zero value behaves as single-day.
func (t TaskType) IsRange() bool {
	return t == TaskTypeDateRange
}

// Task represents a single trackable unit of work
type Task struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	IsRepetitive   bool      `json:"isRepetitive"`
	RepetitionDays []string  `json:"repetitionDays,omitempty"`
	AllocatedHours *float64  `json:"allocatedHours,omitempty"`
	Deadline       Date      `json:"deadline,omitempty"`
	TaskType       TaskType  `json:"taskType"`
	StartDate      Date      `json:"startDate,omitempty"`
	EndDate        Date      `json:"endDate,omitempty"`
	ElapsedTime    int64     `json:"elapsedTime"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TaskInput is the field set supplied when creating a task
type TaskInput struct {
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	IsRepetitive   bool      `json:"isRepetitive"`
	RepetitionDays []string  `json:"repetitionDays,omitempty"`
	AllocatedHours *float64  `json:"allocatedHours,omitempty"`
	Deadline       Date      `json:"deadline,omitempty"`
	TaskType       TaskType  `json:"taskType,omitempty"`
	StartDate      Date      `json:"startDate,omitempty"`
	EndDate        Date      `json:"endDate,omitempty"`
}

// TaskPatch represents a partial update.
// nil pointer => "no change"
type TaskPatch struct {
	Title          *string   `json:"title,omitempty"`
	Description    *string   `json:"description,omitempty"`
	IsRepetitive   *bool     `json:"isRepetitive,omitempty"`
	RepetitionDays *[]string `json:"repetitionDays,omitempty"`
	AllocatedHours *float64  `json:"allocatedHours,omitempty"`
	Deadline       *Date     `json:"deadline,omitempty"`
	TaskType       *TaskType `json:"taskType,omitempty"`
	StartDate      *Date     `json:"startDate,omitempty"`
	EndDate        *Date     `json:"endDate,omitempty"`
}

// IsEmpty returns true if the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p == TaskPatch{}
}

// NewTask builds a task from an input payload. Status, timers and
// timestamps are left to the caller.
func NewTask(id string, in TaskInput) Task {
	t := Task{
		ID:             id,
		Title:          in.Title,
		Description:    in.Description,
		IsRepetitive:   in.IsRepetitive,
		RepetitionDays: slices.Clone(in.RepetitionDays),
		AllocatedHours: cloneFloat(in.AllocatedHours),
		Deadline:       in.Deadline,
		TaskType:       in.TaskType,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
	}
	if t.TaskType == "" {
		t.TaskType = TaskTypeSingleDay
	}
	return t
}

// Input returns the editable fields of the task
func (t Task) Input() TaskInput {
	return TaskInput{
		Title:          t.Title,
		Description:    t.Description,
		IsRepetitive:   t.IsRepetitive,
		RepetitionDays: slices.Clone(t.RepetitionDays),
		AllocatedHours: cloneFloat(t.AllocatedHours),
		Deadline:       t.Deadline,
		TaskType:       t.TaskType,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
	}
}

// Apply merges the patch into the task. Fields present in the patch win.
func (t Task) Apply(p TaskPatch) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.IsRepetitive != nil {
		t.IsRepetitive = *p.IsRepetitive
	}
	if p.RepetitionDays != nil {
		t.RepetitionDays = slices.Clone(*p.RepetitionDays)
	}
	if p.AllocatedHours != nil {
		t.AllocatedHours = cloneFloat(p.AllocatedHours)
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.TaskType != nil {
		t.TaskType = *p.TaskType
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	return t
}

// Clone returns a deep copy of the task
func (t Task) Clone() Task {
	t.RepetitionDays = slices.Clone(t.RepetitionDays)
	t.AllocatedHours = cloneFloat(t.AllocatedHours)
	return t
}

// RepeatsOn returns true if the task is repetitive and lists the weekday
func (t Task) RepeatsOn(day time.Weekday) bool {
	if !t.IsRepetitive {
		return false
	}
	for _, name := range t.RepetitionDays {
		if w, ok := ParseWeekday(name); ok && w == day {
			return true
		}
	}
	return false
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
