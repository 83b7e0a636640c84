package domain

import (
	"fmt"
	"time"
)

// DateLayout is the textual form of a Date in CSV files and reports.
const DateLayout = "2006-01-02"

// Date is a calendar day in UTC.
// It is comparable, so it can be used as a map key, and totally ordered.
type Date struct {
	days int32 // days since 1970-01-01
}

const secondsPerDay = 24 * 60 * 60

// NewDate returns the Date for year, month, day. Out-of-range values are normalized
// the way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t, taken in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	u := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return Date{days: int32(u.Unix() / secondsPerDay)}
}

// ParseDate parses a date in DateLayout form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Unix(int64(d.days)*secondsPerDay, 0).UTC()
}

// AddDays returns the date n days later (earlier if n < 0).
func (d Date) AddDays(n int) Date {
	return Date{days: d.days + int32(n)}
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool { return d.days < o.days }

// After reports whether d is later than o.
func (d Date) After(o Date) bool { return d.days > o.days }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.days < o.days:
		return -1
	case d.days > o.days:
		return 1
	default:
		return 0
	}
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}
