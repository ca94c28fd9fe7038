package utils

import (
	"fmt"
	"strings"
	"time"
)

// Accepted input layouts, tried in order. Inputs without an offset are read
// as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseDateTime reads an ISO-8601 timestamp or a bare date.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q does not conform to any valid datetime format", s)
}

// FormatDateTime renders t as RFC 3339, keeping sub-second precision only
// when it is non-zero.
func FormatDateTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
