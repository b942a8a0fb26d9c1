package repository

import "time"

const timeLayout = time.RFC3339Nano

// formatTime converts a time to the UTC text form stored in SQLite.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp, returning the zero time when the
// value is empty or malformed.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
