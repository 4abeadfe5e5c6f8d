package helpers

import (
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
}

// ParseDate turns a form-submitted date string into a timestamp. Both the
// datetime-local format (2006-01-02T15:04) and plain dates are accepted.
// Unparseable input yields the zero time, which the required-field
// validation then reports as a blank date instead of crashing the request.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CombineDateTime merges separate date and hour/minute/meridiem form fields
// into one timestamp. The admin event form posts these as distinct selects.
func CombineDateTime(dateStr, hourStr, minuteStr, meridiem string) time.Time {
	base := ParseDate(dateStr)
	if base.IsZero() {
		return base
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 23 {
		return base
	}
	minute, _ := strconv.Atoi(minuteStr)
	if minute < 0 || minute > 59 {
		minute = 0
	}

	switch strings.ToLower(meridiem) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}
