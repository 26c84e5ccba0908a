// Package view computes read-only projections of the task collection.
// Every function here is pure and safe to call repeatedly; results are
// never cached.
package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/existflow/tasktrack/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// StatusFilter selects tasks by status
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterActive    StatusFilter = "active"
	FilterCompleted StatusFilter = "completed"
	FilterOverdue   StatusFilter = "overdue"
)

// StatusFilters lists filters in display order
var StatusFilters = []StatusFilter{FilterAll, FilterActive, FilterCompleted, FilterOverdue}

// SortKey selects the ordering of a list
type SortKey string

const (
	SortCreated  SortKey = "createdAt"
	SortDeadline SortKey = "deadline"
	SortTitle    SortKey = "title"
)

// SortKeys lists sort keys in display order
var SortKeys = []SortKey{SortCreated, SortDeadline, SortTitle}

// ParseStatusFilter accepts the filter names; empty means all
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted, FilterOverdue:
		return f, nil
	}
	return "", fmt.Errorf("unknown status filter %q", s)
}

// ParseSortKey accepts the key names plus the short forms "created" and "date"
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "created", "createdat", "newest":
		return SortCreated, nil
	case "deadline", "date", "due":
		return SortDeadline, nil
	case "title", "name":
		return SortTitle, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Matches reports whether t passes the filter
func (f StatusFilter) Matches(t model.Task) bool {
	switch f {
	case FilterAll, "":
		return true
	default:
		return string(t.Status) == string(f)
	}
}

// Filter returns the tasks matching f in their original order
func Filter(tasks []model.Task, f StatusFilter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sort returns a sorted copy of tasks. lang drives title collation; the zero
// tag falls back to English.
func Sort(tasks []model.Task, key SortKey, lang language.Tag) []model.Task {
	out := slices.Clone(tasks)
	switch key {
	case SortDeadline:
		slices.SortStableFunc(out, compareDeadline)
	case SortTitle:
		if lang == language.Und {
			lang = language.English
		}
		c := collate.New(lang, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return c.CompareString(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return out
}

// compareDeadline orders by deadline ascending with missing deadlines last
func compareDeadline(a, b model.Task) int {
	aok, bok := a.Deadline.Valid(), b.Deadline.Valid()
	switch {
	case aok && bok:
		return strings.Compare(string(a.Deadline), string(b.Deadline))
	case aok:
		return -1
	case bok:
		return 1
	}
	return 0
}

// FilterSort applies the status filter then sorts the result
func FilterSort(tasks []model.Task, f StatusFilter, key SortKey, lang language.Tag) []model.Task {
	return Sort(Filter(tasks, f), key, lang)
}

// Search keeps tasks whose title or description contains query,
// ignoring case. An empty query keeps everything.
func Search(tasks []model.Task, query string) []model.Task {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return slices.Clone(tasks)
	}
	var out []model.Task
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Description), query) {
			out = append(out, t)
		}
	}
	return out
}

// Counts summarizes a collection by status
type Counts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// Count tallies tasks by status
func Count(tasks []model.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusCompleted:
			c.Completed++
		case model.StatusOverdue:
			c.Overdue++
		default:
			c.Active++
		}
	}
	return c
}
