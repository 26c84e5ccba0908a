package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/validate"
	"github.com/existflow/tasktrack/internal/view"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ErrInvalidTask is returned after validation messages were printed
var ErrInvalidTask = errors.New("task is invalid")

var (
	titleStyle     = color.New(color.FgCyan, color.Bold).SprintFunc()
	activeStyle    = color.New(color.FgHiBlue).SprintFunc()
	completedStyle = color.New(color.FgHiGreen).SprintFunc()
	overdueStyle   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	faintStyle     = color.New(color.Faint).SprintFunc()
	errorStyle     = color.New(color.FgRed).SprintFunc()
)

func statusText(s model.Status) string {
	switch s {
	case model.StatusCompleted:
		return completedStyle(string(s))
	case model.StatusOverdue:
		return overdueStyle(string(s))
	default:
		return activeStyle(string(s))
	}
}

// when summarizes the dates of a task in one cell
func when(t model.Task) string {
	var parts []string
	if t.TaskType.IsRange() {
		parts = append(parts, fmt.Sprintf("%s..%s", t.StartDate, t.EndDate))
	} else if !t.StartDate.IsZero() {
		parts = append(parts, t.StartDate.String())
	}
	if t.IsRepetitive {
		parts = append(parts, "every "+strings.Join(shortDays(t.RepetitionDays), ","))
	}
	return strings.Join(parts, " ")
}

func shortDays(days []string) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		if len(d) > 3 {
			d = d[:3]
		}
		out = append(out, d)
	}
	return out
}

func hours(t model.Task) string {
	if t.AllocatedHours == nil {
		return ""
	}
	return strconv.FormatFloat(*t.AllocatedHours, 'f', -1, 64) + "h"
}

// printTasks renders tasks as a table
func printTasks(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found. Add one with: tasktrack add \"Your task\"")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleDouble)
	t.AppendHeader(table.Row{
		text.FgGreen.Sprintf("ID"), text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Title")),
		text.FgGreen.Sprintf("Status"),
		text.FgGreen.Sprintf("Deadline"),
		text.FgGreen.Sprintf("When"),
		text.FgGreen.Sprintf("Hours"),
		text.FgGreen.Sprintf("Elapsed"),
	})
	for _, task := range tasks {
		t.AppendRow(table.Row{
			shortID(task.ID),
			task.Title,
			statusText(task.Status),
			task.Deadline.String(),
			when(task),
			hours(task),
			view.FormatElapsed(task.ElapsedTime),
		})
	}
	t.Render()
	printCounts(w, view.Count(tasks))
}

// printCounts writes the one-line summary under a list
func printCounts(w io.Writer, c view.Counts) {
	fmt.Fprintf(w, "%d tasks: %s active, %s completed, %s overdue\n",
		c.Total,
		activeStyle(c.Active),
		completedStyle(c.Completed),
		overdueStyle(c.Overdue),
	)
}

// printTask writes every field of one task
func printTask(w io.Writer, t model.Task) {
	fmt.Fprintf(w, "%s\n", titleStyle(t.Title))
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %-12s %s\n", faintStyle(name+":"), value)
		}
	}
	field("ID", t.ID)
	field("Status", statusText(t.Status))
	field("Description", t.Description)
	field("Type", string(t.TaskType))
	field("Start", t.StartDate.String())
	field("End", t.EndDate.String())
	field("Deadline", t.Deadline.String())
	if t.IsRepetitive {
		field("Repeats", strings.Join(t.RepetitionDays, ", "))
	}
	field("Allocated", hours(t))
	field("Elapsed", view.FormatElapsed(t.ElapsedTime))
	field("Created", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	field("Updated", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
}

// printValidation writes field messages in a stable order and returns
// ErrInvalidTask
func printValidation(w io.Writer, errs validate.Errors) error {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "%s %s: %s\n", errorStyle("✗"), f, errs[f])
	}
	return ErrInvalidTask
}
