package domain

import "time"

// DateLayout is the ISO calendar date format used for log keys and remote
// completion records.
const DateLayout = "2006-01-02"

// FormatDate renders t as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// StartOfWeek returns midnight of the Sunday on or before t.
// Weeks are Sunday-aligned.
func StartOfWeek(t time.Time) time.Time {
	d := truncateToDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// EndOfWeek returns midnight of the Saturday on or after t.
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 6)
}

// StartOfMonth returns midnight of the first day of t's calendar month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns midnight of the last day of t's calendar month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
