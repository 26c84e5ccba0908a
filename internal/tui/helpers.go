package tui

import (
	"strings"

	"github.com/existflow/tasktrack/internal/validate"
)

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// repeat creates a string by repeating s n times
func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}

// firstError picks one message to show in the status bar
func firstError(errs validate.Errors) string {
	for _, field := range []string{
		validate.FieldTitle,
		validate.FieldDescription,
		validate.FieldAllocatedHours,
		validate.FieldDeadline,
		validate.FieldRepetitionDays,
		validate.FieldStartDate,
		validate.FieldEndDate,
	} {
		if msg, ok := errs[field]; ok {
			return msg
		}
	}
	return ""
}

// next returns the element after cur in list, wrapping around
func next[T comparable](list []T, cur T) T {
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}
