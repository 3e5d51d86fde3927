// Package calendar parses and normalizes the match dates emitted by statistics providers.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Supported date layouts
const (
	ISOLayout      = "2006-01-02"
	ProviderLayout = "Jan 2, 2006"
)

// ErrDateParse matches any DateParseError via errors.Is
var ErrDateParse = errors.New("date could not be parsed")

// DateParseError reports a date string that resolves to no calendar date
type DateParseError struct {
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("could not parse date %q", e.Value)
}

// Is lets errors.Is match ErrDateParse
func (e *DateParseError) Is(target error) bool {
	return target == ErrDateParse
}

// Parse resolves "Mon DD, YYYY" (English month abbreviation, any case) or
// ISO "YYYY-MM-DD" to a UTC calendar date.
func Parse(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, &DateParseError{Value: value}
	}
	// Month names are matched case-insensitively by the time package, so
	// "OCT 25, 2023" and "Oct 25, 2023" both resolve here.
	for _, layout := range []string{ISOLayout, ProviderLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, &DateParseError{Value: value}
}

// Day truncates t to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders a calendar date in ISO form
func Format(t time.Time) string {
	return t.Format(ISOLayout)
}

// DaysBetween returns the whole days from a to b
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
