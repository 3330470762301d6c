package dateutil

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. Dates sort lexicographically in
// chronological order, and all day math ignores time-of-day by construction.
type Date string

// Today returns the calendar date of t in t's location.
func Today(t time.Time) Date {
	return Date(t.Format(Layout))
}

func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return Today(t), nil
}

func (d Date) IsZero() bool {
	return d == ""
}

func (d Date) Time() time.Time {
	t, err := time.Parse(Layout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the date n whole days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Today(d.Time().AddDate(0, 0, n))
}

// DayDiff returns the number of whole calendar days from a to b, truncated.
// Positive when b is after a.
func DayDiff(a, b Date) int {
	return int(b.Time().Sub(a.Time()).Hours() / 24)
}
