package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/tasktrack/internal/model"
)

// parseDateFlag accepts YYYY-MM-DD, "today", "tomorrow" or "+N" days.
// An empty value clears the date.
func parseDateFlag(s string, now time.Time) (model.Date, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := model.DateOf(now)

	switch {
	case s == "":
		return "", nil
	case s == "today":
		return today, nil
	case s == "tomorrow":
		return today.AddDays(1), nil
	case strings.HasPrefix(s, "+"):
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 {
			return "", fmt.Errorf("invalid day offset %q", s)
		}
		return today.AddDays(n), nil
	}

	// Malformed dates are passed through so validation reports them per field
	return model.Date(s), nil
}

// parseDays splits a comma separated weekday list
func parseDays(s string) []string {
	var days []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			days = append(days, part)
		}
	}
	return days
}

// parseMonth parses YYYY-MM, defaulting to the month of now
func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}
