package domain

import (
	"fmt"
	"time"
)

// CalendarDate is a day on the calendar, independent of time of day.
// All conversions from instants go through a single *time.Location so that
// streak arithmetic never mixes local and UTC truncation.
type CalendarDate struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// DateOf returns the calendar date of t in loc.
func DateOf(t time.Time, loc *time.Location) CalendarDate {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseCalendarDate parses a YYYY-MM-DD string.
func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("parse calendar date %q: %w", s, err)
	}
	return DateOf(t, time.UTC), nil
}

// String formats the date as YYYY-MM-DD.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero returns true for the zero date.
func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays returns the date n days later (earlier for negative n).
func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(d.midnight().AddDate(0, 0, n), time.UTC)
}

// DaysSince returns the number of calendar days from other to d.
func (d CalendarDate) DaysSince(other CalendarDate) int {
	return int(d.midnight().Sub(other.midnight()).Hours() / 24)
}

// Equal reports whether both values name the same day.
func (d CalendarDate) Equal(other CalendarDate) bool {
	return d == other
}

func (d CalendarDate) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
