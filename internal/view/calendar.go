package view

import (
	"time"

	"github.com/existflow/tasktrack/internal/model"
)

// MonthGrid returns the days shown for a month: whole Sunday-first weeks,
// padded with trailing days of the previous month and leading days of the next.
func MonthGrid(year int, month time.Month) []model.Date {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var days []model.Date
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, model.DateOf(d))
	}
	return days
}

// Buckets maps each grid day to the tasks relevant on it:
// single-day tasks on their start date, date-range tasks on every day of the
// inclusive range, and repetitive tasks on every listed weekday. A task is
// listed at most once per day; collection order is preserved.
func Buckets(tasks []model.Task, days []model.Date) map[model.Date][]model.Task {
	buckets := make(map[model.Date][]model.Task)
	for _, day := range days {
		weekday := day.Weekday()
		for _, t := range tasks {
			if onDay(t, day, weekday) {
				buckets[day] = append(buckets[day], t)
			}
		}
	}
	return buckets
}

// onDay evaluates every placement rule at once, so a task matching several
// rules still lands in a bucket once.
func onDay(t model.Task, day model.Date, weekday time.Weekday) bool {
	if t.TaskType.IsRange() {
		if t.StartDate.Valid() && t.EndDate.Valid() &&
			!day.Before(t.StartDate) && !t.EndDate.Before(day) {
			return true
		}
	} else if t.StartDate.Valid() && t.StartDate == day {
		return true
	}
	return t.RepeatsOn(weekday)
}
