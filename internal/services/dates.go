package services

import (
	"strings"
	"time"

	"blood-bank-api-server/internal/apperr"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate accepts an RFC 3339 timestamp, a datetime-local value or a
// bare date. Bare dates and datetime-local values are read as UTC.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.Validation("Invalid date")
}

// notBefore reports whether date falls on or after the start of today.
func notBefore(date, today time.Time) bool {
	return !date.Before(today)
}
