// Package validate checks task fields before they reach the reducer.
//
// Field validators return an empty string when the value is acceptable and a
// human readable message otherwise. Task composes them into an Errors map keyed
// by field name; an empty map means the task is valid.
package validate

import (
	"strconv"
	"strings"
	"time"

	"github.com/existflow/tasktrack/internal/model"
)

// Field names used as keys in Errors
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldAllocatedHours = "allocatedHours"
	FieldDeadline       = "deadline"
	FieldRepetitionDays = "repetitionDays"
	FieldStartDate      = "startDate"
	FieldEndDate        = "endDate"
)

const (
	minTitleLen       = 3
	minDescriptionLen = 10
)

// Errors maps a field name to its message
type Errors map[string]string

// Valid returns true if no field failed
func (e Errors) Valid() bool {
	return len(e) == 0
}

func (e Errors) add(field, msg string) {
	if msg != "" {
		e[field] = msg
	}
}

// Title is required and at least 3 characters after trimming
func Title(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required"
	}
	if len([]rune(title)) < minTitleLen {
		return "Title must be at least 3 characters"
	}
	return ""
}

// Description is optional; when given it must be at least 10 characters
func Description(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}
	if len([]rune(desc)) < minDescriptionLen {
		return "Description must be at least 10 characters"
	}
	return ""
}

// AllocatedHours validates a raw form value. Empty means not provided.
func AllocatedHours(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	h, err := strconv.ParseFloat(raw, 64)
	if err != nil || h <= 0 {
		return "Allocated hours must be a positive number"
	}
	return ""
}

// Deadline is optional; when set it must not be before today
func Deadline(deadline model.Date, today model.Date) string {
	if deadline.IsZero() {
		return ""
	}
	if !deadline.Valid() {
		return "Deadline must be a valid date (YYYY-MM-DD)"
	}
	if deadline.Before(today) {
		return "Deadline cannot be in the past"
	}
	return ""
}

// RepetitionDays must list at least one known weekday for repetitive tasks
func RepetitionDays(isRepetitive bool, days []string) string {
	if !isRepetitive {
		return ""
	}
	if len(days) == 0 {
		return "Select at least one day for a repeating task"
	}
	for _, d := range days {
		if _, ok := model.ParseWeekday(d); !ok {
			return "Unknown weekday: " + d
		}
	}
	return ""
}

// DateRange checks that the end date is not before the start date.
// It only applies when both are present.
func DateRange(start, end model.Date) string {
	if start.IsZero() || end.IsZero() {
		return ""
	}
	if !start.Valid() || !end.Valid() {
		return ""
	}
	if end.Before(start) {
		return "End date must be on or after the start date"
	}
	return ""
}

func dateFormat(d model.Date) string {
	if d.IsZero() || d.Valid() {
		return ""
	}
	return "Must be a valid date (YYYY-MM-DD)"
}

// Task runs every field validator against in. now decides what "today" is.
func Task(in model.TaskInput, now time.Time) Errors {
	errs := Errors{}
	errs.add(FieldTitle, Title(in.Title))
	errs.add(FieldDescription, Description(in.Description))
	// Zero hours counts as not provided
	if in.AllocatedHours != nil && *in.AllocatedHours != 0 {
		errs.add(FieldAllocatedHours, AllocatedHours(strconv.FormatFloat(*in.AllocatedHours, 'f', -1, 64)))
	}
	errs.add(FieldDeadline, Deadline(in.Deadline, model.DateOf(now)))
	errs.add(FieldRepetitionDays, RepetitionDays(in.IsRepetitive, in.RepetitionDays))
	errs.add(FieldStartDate, dateFormat(in.StartDate))
	errs.add(FieldEndDate, dateFormat(in.EndDate))

	if in.TaskType.IsRange() {
		if in.StartDate.IsZero() {
			errs.add(FieldStartDate, "Start date is required for a date range")
		}
		if in.EndDate.IsZero() {
			errs.add(FieldEndDate, "End date is required for a date range")
		}
	}
	if _, ok := errs[FieldEndDate]; !ok {
		errs.add(FieldEndDate, DateRange(in.StartDate, in.EndDate))
	}
	return errs
}

// Patch validates the task that results from applying p to current. A
// deadline the patch leaves untouched is not re-checked against today.
func Patch(current model.Task, p model.TaskPatch, now time.Time) Errors {
	errs := Task(current.Apply(p).Input(), now)
	if p.Deadline == nil && current.Deadline.Valid() {
		delete(errs, FieldDeadline)
	}
	return errs
}
