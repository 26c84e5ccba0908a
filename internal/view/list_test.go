package view

import (
	"testing"
	"time"

	"github.com/existflow/tasktrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func sample() []model.Task {
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return []model.Task{
		{ID: "1", Title: "zebra", Status: model.StatusActive, Deadline: "2024-06-20", CreatedAt: base},
		{ID: "2", Title: "Éclair", Status: model.StatusCompleted, CreatedAt: base.Add(time.Hour)},
		{ID: "3", Title: "apple", Status: model.StatusOverdue, Deadline: "2024-06-02", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "4", Title: "Banana", Status: model.StatusActive, CreatedAt: base.Add(3 * time.Hour), Description: "yellow fruit"},
		{ID: "5", Title: "cherry", Status: model.StatusActive, Deadline: "2024-06-10", CreatedAt: base.Add(4 * time.Hour)},
	}
}

func TestFilter(t *testing.T) {
	tasks := sample()
	assert.Len(t, Filter(tasks, FilterAll), 5)
	assert.Equal(t, []string{"zebra", "Banana", "cherry"}, titles(Filter(tasks, FilterActive)))
	assert.Equal(t, []string{"Éclair"}, titles(Filter(tasks, FilterCompleted)))
	assert.Equal(t, []string{"apple"}, titles(Filter(tasks, FilterOverdue)))
}

func TestSort_CreatedDesc(t *testing.T) {
	got := Sort(sample(), SortCreated, language.Und)
	assert.Equal(t, []string{"cherry", "Banana", "apple", "Éclair", "zebra"}, titles(got))
}

func TestSort_DeadlineNullsLast(t *testing.T) {
	got := Sort(sample(), SortDeadline, language.Und)
	require.Len(t, got, 5)

	seenNull := false
	var prev model.Date
	for _, task := range got {
		if task.Deadline.IsZero() {
			seenNull = true
			continue
		}
		assert.False(t, seenNull, "deadline task after a task without deadline")
		assert.False(t, task.Deadline.Before(prev))
		prev = task.Deadline
	}
	assert.Equal(t, []string{"apple", "cherry", "zebra"}, titles(got[:3]))
}

func TestSort_TitleLocaleAware(t *testing.T) {
	got := Sort(sample(), SortTitle, language.English)
	assert.Equal(t, []string{"apple", "Banana", "cherry", "Éclair", "zebra"}, titles(got))
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	tasks := sample()
	_ = Sort(tasks, SortTitle, language.Und)
	_ = FilterSort(tasks, FilterActive, SortDeadline, language.Und)
	assert.Equal(t, sample(), tasks)
}

func TestFilterSort(t *testing.T) {
	got := FilterSort(sample(), FilterActive, SortDeadline, language.Und)
	assert.Equal(t, []string{"cherry", "zebra", "Banana"}, titles(got))
}

func TestSearch(t *testing.T) {
	tasks := sample()
	assert.Len(t, Search(tasks, ""), 5)
	assert.Equal(t, []string{"Banana"}, titles(Search(tasks, "YELLOW")))
	assert.Equal(t, []string{"zebra", "Banana"}, titles(Search(tasks, "b")))
	assert.Empty(t, Search(tasks, "kiwi"))
}

func TestCount(t *testing.T) {
	assert.Equal(t, Counts{Total: 5, Active: 3, Completed: 1, Overdue: 1}, Count(sample()))
	assert.Equal(t, Counts{}, Count(nil))
}

func TestParseFilterAndSort(t *testing.T) {
	f, err := ParseStatusFilter("Overdue")
	require.NoError(t, err)
	assert.Equal(t, FilterOverdue, f)

	f, err = ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	_, err = ParseStatusFilter("later")
	assert.Error(t, err)

	k, err := ParseSortKey("due")
	require.NoError(t, err)
	assert.Equal(t, SortDeadline, k)

	_, err = ParseSortKey("priority")
	assert.Error(t, err)
}
