package view

import (
	"testing"
	"time"

	"github.com/existflow/tasktrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthGrid_PadsToWholeWeeks(t *testing.T) {
	days := MonthGrid(2024, time.June)

	require.Len(t, days, 42)
	assert.Equal(t, model.Date("2024-05-26"), days[0])
	assert.Equal(t, model.Date("2024-07-06"), days[len(days)-1])
	assert.Equal(t, time.Sunday, days[0].Weekday())
	assert.Equal(t, time.Saturday, days[len(days)-1].Weekday())
}

func TestMonthGrid_ExactWeeks(t *testing.T) {
	days := MonthGrid(2015, time.February)
	require.Len(t, days, 28)
	assert.Equal(t, model.Date("2015-02-01"), days[0])
	assert.Equal(t, model.Date("2015-02-28"), days[27])
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestBuckets_SingleDay(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", TaskType: model.TaskTypeSingleDay, StartDate: "2024-06-12"},
		{ID: "b", StartDate: "2024-06-12"},
		{ID: "c", TaskType: model.TaskTypeSingleDay},
		{ID: "d", StartDate: "2024-09-01"},
	}
	buckets := Buckets(tasks, MonthGrid(2024, time.June))

	assert.Equal(t, []string{"a", "b"}, ids(buckets["2024-06-12"]))
	assert.Len(t, buckets, 1)
}

func TestBuckets_DateRangeInclusive(t *testing.T) {
	tasks := []model.Task{
		{ID: "trip", TaskType: model.TaskTypeDateRange, StartDate: "2024-05-30", EndDate: "2024-06-02"},
	}
	buckets := Buckets(tasks, MonthGrid(2024, time.June))

	for _, d := range []model.Date{"2024-05-30", "2024-05-31", "2024-06-01", "2024-06-02"} {
		assert.Equal(t, []string{"trip"}, ids(buckets[d]), d)
	}
	assert.Empty(t, buckets["2024-05-29"])
	assert.Empty(t, buckets["2024-06-03"])
}

func TestBuckets_RepetitiveIncludesPaddingDays(t *testing.T) {
	tasks := []model.Task{
		{ID: "gym", IsRepetitive: true, RepetitionDays: []string{"Monday"}},
	}
	days := MonthGrid(2024, time.June)
	buckets := Buckets(tasks, days)

	mondays := 0
	for _, d := range days {
		if d.Weekday() == time.Monday {
			mondays++
			assert.Equal(t, []string{"gym"}, ids(buckets[d]), d)
		}
	}
	assert.Equal(t, 6, mondays)
	assert.Len(t, buckets, 6)
}

func TestBuckets_NoDuplicateWhenRulesOverlap(t *testing.T) {
	tasks := []model.Task{{
		ID:             "standup",
		TaskType:       model.TaskTypeDateRange,
		StartDate:      "2024-06-03",
		EndDate:        "2024-06-05",
		IsRepetitive:   true,
		RepetitionDays: []string{"Monday", "Mon"},
	}}
	buckets := Buckets(tasks, MonthGrid(2024, time.June))

	assert.Equal(t, []string{"standup"}, ids(buckets["2024-06-03"]))
	assert.Equal(t, []string{"standup"}, ids(buckets["2024-06-04"]))
	assert.Equal(t, []string{"standup"}, ids(buckets["2024-06-10"]))
}

func TestBuckets_OrderFollowsCollection(t *testing.T) {
	tasks := []model.Task{
		{ID: "second", StartDate: "2024-06-12"},
		{ID: "first", IsRepetitive: true, RepetitionDays: []string{"Wednesday"}},
	}
	buckets := Buckets(tasks, MonthGrid(2024, time.June))
	assert.Equal(t, []string{"second", "first"}, ids(buckets["2024-06-12"]))
}
