package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSupportedFormats(t *testing.T) {
	want := time.Date(2023, time.October, 25, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		input string
	}{
		{"provider upper case", "OCT 25, 2023"},
		{"provider title case", "Oct 25, 2023"},
		{"provider lower case", "oct 25, 2023"},
		{"iso", "2023-10-25"},
		{"surrounding whitespace", "  2023-10-25 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}
}

func TestParseSingleDigitDay(t *testing.T) {
	got, err := Parse("NOV 3, 2023")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Day())
}

func TestParseRejectsUnknownFormats(t *testing.T) {
	for _, input := range []string{"", "25/10/2023", "Octobre 25, 2023", "yesterday", "2023-13-01"} {
		_, err := Parse(input)
		require.Error(t, err, input)

		var parseErr *DateParseError
		assert.True(t, errors.As(err, &parseErr))
		assert.True(t, errors.Is(err, ErrDateParse))
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2023, time.December, 30, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, time.January, 2, 19, 30, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, -3, DaysBetween(b, a))
}
