package heatmap

import (
	"fmt"
	"time"

	"github.com/fastygo/streakmap/domain"
)

const day = 24 * time.Hour

// ParseDay parses a YYYY-MM-DD calendar day into midnight UTC.
func ParseDay(value string) (time.Time, error) {
	parsed, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("invalid calendar day %q", value), err)
	}
	return parsed, nil
}

// Truncate returns the calendar day of t, read in t's own location, as midnight UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay formats a day as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// WindowStart returns the first calendar day of a window of windowDays ending at today.
func WindowStart(windowDays int, today time.Time) string {
	return FormatDay(Truncate(today).AddDate(0, 0, -(windowDays - 1)))
}

// daysBetween expects both arguments at midnight UTC.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / day)
}
