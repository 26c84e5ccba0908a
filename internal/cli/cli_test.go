package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/existflow/tasktrack/internal/clock"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june10 = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func TestResolveTask(t *testing.T) {
	tasks := []model.Task{
		{ID: "abc123", Title: "first"},
		{ID: "abd456", Title: "second"},
		{ID: "ab", Title: "exact"},
	}

	got, err := resolveTask(tasks, "abc")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)

	got, err = resolveTask(tasks, "ab")
	require.NoError(t, err)
	assert.Equal(t, "exact", got.Title)

	_, err = resolveTask(tasks[:2], "ab")
	assert.ErrorIs(t, err, ErrAmbiguousTask)

	_, err = resolveTask(tasks, "zz")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = resolveTask(tasks, " ")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestParseDateFlag(t *testing.T) {
	tests := []struct {
		in   string
		want model.Date
	}{
		{"", ""},
		{"today", "2024-06-10"},
		{"Tomorrow", "2024-06-11"},
		{"+21", "2024-07-01"},
		{"2024-12-24", "2024-12-24"},
		{"someday", "someday"},
	}
	for _, tt := range tests {
		got, err := parseDateFlag(tt.in, june10)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseDateFlag("+x", june10)
	assert.Error(t, err)
	_, err = parseDateFlag("+-1", june10)
	assert.Error(t, err)
}

func TestParseDays(t *testing.T) {
	assert.Equal(t, []string{"mon", "Wed"}, parseDays(" mon, ,Wed,"))
	assert.Nil(t, parseDays(""))
}

func TestParseMonth(t *testing.T) {
	y, m, err := parseMonth("", june10)
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.June, m)

	y, m, err = parseMonth("2025-02", june10)
	require.NoError(t, err)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.February, m)

	_, _, err = parseMonth("02/2025", june10)
	assert.Error(t, err)
}

func TestTaskPatch_OnlyChangedFlags(t *testing.T) {
	prev := cliClock
	cliClock = clock.NewFake(june10)
	t.Cleanup(func() { cliClock = prev })

	cmd := &cobra.Command{}
	cmd.Flags().AddFlagSet(editCmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{"--title", "Renamed task", "--deadline", "tomorrow", "--repeat", ""}))
	t.Cleanup(func() {
		editTitle, editDeadline, editRepeat = "", "", ""
		for _, name := range []string{"title", "deadline", "repeat"} {
			editCmd.Flags().Lookup(name).Changed = false
		}
	})

	p, err := taskPatch(cmd)
	require.NoError(t, err)
	require.NotNil(t, p.Title)
	assert.Equal(t, "Renamed task", *p.Title)
	require.NotNil(t, p.Deadline)
	assert.Equal(t, model.Date("2024-06-11"), *p.Deadline)
	require.NotNil(t, p.IsRepetitive)
	assert.False(t, *p.IsRepetitive)
	assert.Nil(t, p.Description)
	assert.Nil(t, p.StartDate)
	assert.Nil(t, p.AllocatedHours)
}

func TestPrintCalendar(t *testing.T) {
	color.NoColor = true
	tasks := []model.Task{
		{ID: "1", Title: "Dentist", StartDate: "2024-06-12", Status: model.StatusActive},
		{ID: "2", Title: "Gym", IsRepetitive: true, RepetitionDays: []string{"Monday"}, Status: model.StatusActive},
	}

	var buf bytes.Buffer
	printCalendar(&buf, tasks, 2024, time.June, "2024-06-10")
	out := buf.String()

	assert.Contains(t, out, "June 2024")
	assert.Contains(t, out, "Sun")
	assert.Contains(t, out, "Dentist")
	assert.Contains(t, out, "Gym")
}

func TestPrintTasks(t *testing.T) {
	color.NoColor = true
	hours := 1.5
	tasks := []model.Task{
		{ID: "0123456789", Title: "Write report", Status: model.StatusOverdue, Deadline: "2024-06-01", AllocatedHours: &hours, ElapsedTime: 125},
		{ID: "abcdef", Title: "Trip", Status: model.StatusCompleted, TaskType: model.TaskTypeDateRange, StartDate: "2024-06-03", EndDate: "2024-06-05"},
	}

	var buf bytes.Buffer
	printTasks(&buf, tasks)
	out := buf.String()

	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "1.5h")
	assert.Contains(t, out, "0:02:05")
	assert.Contains(t, out, "2024-06-03..2024-06-05")
	assert.Contains(t, out, "2 tasks: 0 active, 1 completed, 1 overdue")

	buf.Reset()
	printTasks(&buf, nil)
	assert.Contains(t, buf.String(), "No tasks found")
}

func TestPrintValidation(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	err := printValidation(&buf, map[string]string{"title": "Title is required", "deadline": "Deadline cannot be in the past"})
	assert.ErrorIs(t, err, ErrInvalidTask)
	assert.Equal(t, "✗ deadline: Deadline cannot be in the past\n✗ title: Title is required\n", buf.String())
}

func TestParseElapsed(t *testing.T) {
	n, err := parseElapsed("5400")
	require.NoError(t, err)
	assert.Equal(t, int64(5400), n)

	n, err = parseElapsed("1h30m")
	require.NoError(t, err)
	assert.Equal(t, int64(5400), n)

	_, err = parseElapsed("-5")
	assert.Error(t, err)
	_, err = parseElapsed("soon")
	assert.Error(t, err)
}
