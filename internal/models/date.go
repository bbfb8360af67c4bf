package models

import "time"

// DateLayout is the calendar-date format used across all three flat files.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a calendar date in the wire format. ISO dates sort
// lexicographically, so formatted keys double as sort keys.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
