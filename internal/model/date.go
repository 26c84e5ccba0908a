package model

import (
	"strings"
	"time"
)

// DateLayout is the storage format of a Date
const DateLayout = "2006-01-02"

// Date is a calendar day without time of day, stored as YYYY-MM-DD.
// The empty Date means "not set".
type Date string

// DateOf returns the civil date of t in t's location
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate parses and normalizes a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", err
	}
	return DateOf(t), nil
}

// IsZero returns true if the date is not set
func (d Date) IsZero() bool {
	return d == ""
}

// Valid returns true if the date is set and well formed
func (d Date) Valid() bool {
	if d == "" {
		return false
	}
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

// Time returns midnight of the date in loc
func (d Date) Time(loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, string(d), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Before reports whether d is strictly earlier than other.
// Both dates must be valid.
func (d Date) Before(other Date) bool {
	return d < other
}

// AddDays returns the date n days later
func (d Date) AddDays(n int) Date {
	t, ok := d.Time(time.UTC)
	if !ok {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Weekday returns the day of the week of the date
func (d Date) Weekday() time.Weekday {
	t, _ := d.Time(time.UTC)
	return t.Weekday()
}

// String returns the date as stored
func (d Date) String() string {
	return string(d)
}

// ParseWeekday accepts full or three-letter English weekday names
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	return 0, false
}

// NormalizeWeekdays maps names to canonical weekday names, dropping
// duplicates and unknown entries
func NormalizeWeekdays(names []string) []string {
	seen := make(map[time.Weekday]bool)
	var out []string
	for _, n := range names {
		d, ok := ParseWeekday(n)
		if !ok || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d.String())
	}
	return out
}
