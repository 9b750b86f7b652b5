package calendar

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// Layout is the only date form stored or compared anywhere in the planner.
const Layout = "2006-01-02"

// Parse turns a YYYY-MM-DD string into midnight UTC of that day.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

// Format renders the calendar day of t.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Day strips the clock from t, keeping the calendar day as seen in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in loc.
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return Day(time.Now().In(loc))
}

// DateOf returns the date portion of a stored timestamp. Timestamps are kept in UTC,
// so the day is read in UTC and never shifted into the local zone.
func DateOf(ts time.Time) string {
	return ts.UTC().Format(Layout)
}

func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonths moves t by n calendar months. When the target month is shorter than
// t's day, the result is clamped to the last day of the target month.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := now.With(first).EndOfMonth().Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first and last day of the month containing t.
func MonthBounds(t time.Time) (string, string) {
	n := now.With(Day(t))
	return Format(n.BeginningOfMonth()), Format(n.EndOfMonth())
}

// Shift returns the date n days away from the given YYYY-MM-DD value.
func Shift(value string, n int) (string, error) {
	t, err := Parse(value)
	if err != nil {
		return "", err
	}
	return Format(AddDays(t, n)), nil
}

// Days lists every day in [start, end] in ascending order.
func Days(start, end time.Time) []string {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil
	}
	out := make([]string, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = AddDays(d, 1) {
		out = append(out, Format(d))
	}
	return out
}

// Valid reports whether value is a well-formed YYYY-MM-DD date.
func Valid(value string) bool {
	t, err := time.Parse(Layout, value)
	return err == nil && t.Format(Layout) == value
}
