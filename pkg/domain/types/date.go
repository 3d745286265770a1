package types

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// dateLayout is the calendar date format used across the service.
// All dates are calendar dates in UTC.
const dateLayout = "2006-01-02"

// Date represents a calendar date (YYYY-MM-DD) in UTC
type Date string

// ParseDate parses a YYYY-MM-DD string into a Date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", goerr.Wrap(err, "invalid date format, expected YYYY-MM-DD", goerr.V("input", s))
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of the given time in UTC
func DateOf(t time.Time) Date {
	return Date(t.UTC().Format(dateLayout))
}

// Today returns the current calendar date in UTC
func Today() Date {
	return DateOf(time.Now())
}

// Validate checks if the Date is a well-formed calendar date
func (d Date) Validate() error {
	if d == "" {
		return goerr.New("date cannot be empty")
	}
	if _, err := time.Parse(dateLayout, string(d)); err != nil {
		return goerr.Wrap(err, "invalid date", goerr.V("date", d))
	}
	return nil
}

// Time returns the start of the day (00:00:00 UTC)
func (d Date) Time() time.Time {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// AddDays returns the date shifted by n calendar days
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Contains reports whether the epoch timestamp ts (seconds, float
// precision) falls on this calendar date in UTC. The start of day is
// inclusive, the start of the next day is exclusive.
func (d Date) Contains(ts float64) bool {
	start := float64(d.Time().Unix())
	end := float64(d.AddDays(1).Time().Unix())
	return ts >= start && ts < end
}

// String returns the string representation of the Date
func (d Date) String() string {
	return string(d)
}
