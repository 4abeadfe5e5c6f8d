package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "datetime-local",
			input:    "2026-06-15T21:30",
			expected: time.Date(2026, 6, 15, 21, 30, 0, 0, time.UTC),
		},
		{
			name:     "plain date",
			input:    "2026-06-15",
			expected: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "slash date",
			input:    "06/15/2026",
			expected: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "whitespace trimmed",
			input:    "  2026-06-15  ",
			expected: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "blank yields zero",
			input:    "",
			expected: time.Time{},
		},
		{
			name:     "garbage yields zero",
			input:    "next friday",
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(ParseDate(tt.input)))
		})
	}
}

func TestCombineDateTime(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		hour     string
		minute   string
		meridiem string
		expected time.Time
	}{
		{
			name:     "evening show",
			date:     "2026-06-15",
			hour:     "9",
			minute:   "30",
			meridiem: "PM",
			expected: time.Date(2026, 6, 15, 21, 30, 0, 0, time.UTC),
		},
		{
			name:     "midnight",
			date:     "2026-06-15",
			hour:     "12",
			minute:   "0",
			meridiem: "AM",
			expected: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "noon",
			date:     "2026-06-15",
			hour:     "12",
			minute:   "0",
			meridiem: "PM",
			expected: time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "bad hour keeps the date",
			date:     "2026-06-15",
			hour:     "banana",
			minute:   "30",
			meridiem: "PM",
			expected: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "blank date stays zero",
			date:     "",
			hour:     "9",
			minute:   "30",
			meridiem: "PM",
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(CombineDateTime(tt.date, tt.hour, tt.minute, tt.meridiem)))
		})
	}
}
