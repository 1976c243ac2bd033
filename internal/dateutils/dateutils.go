// Package dateutils provides tolerant timestamp parsing for the dispute
// and transaction tables. Input data mixes ISO timestamps with and without
// time components, so parsing tries a list of known layouts.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp layouts accepted in input data, most specific first.
const (
	LayoutISOFull    = "2006-01-02T15:04:05"
	LayoutSpaceFull  = "2006-01-02 15:04:05"
	LayoutISODate    = "2006-01-02"
	LayoutISOMinutes = "2006-01-02T15:04"
)

// CommonLayouts is the ordered list of layouts tried by ParseTimestamp.
var CommonLayouts = []string{
	time.RFC3339,
	LayoutISOFull,
	LayoutSpaceFull,
	LayoutISOMinutes,
	LayoutISODate,
}

// ParseTimestamp parses a timestamp string against the common layouts.
// Callers treat an error as "timestamp absent" rather than failing a batch.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range CommonLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", value)
}

// WithinWindow reports whether two instants lie within the given window of
// each other, inclusive of the boundary.
func WithinWindow(a, b time.Time, window time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

// StartOfDay truncates a time to midnight in its location. Used by the
// query layer's "today" filter.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBack returns the instant n days before now. Used by the query
// layer's rolling-window filters.
func DaysBack(now time.Time, n int) time.Time {
	return now.AddDate(0, 0, -n)
}
