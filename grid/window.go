// Package grid computes per-hour availability and conflicts over a
// week's visible window from recurring schedules and calendar events.
//
// The computation is pure: inputs are read-only, outputs are fresh
// values, and nothing reads the wall clock — callers pass the target
// days explicitly. All supplied times are expected to share one
// location; date comparisons happen at day granularity.
package grid

import "time"

// HourRange bounds the visible hourly rows, half-open: it covers rows
// From through To-1.
type HourRange struct {
	From int
	To   int
}

// DefaultHours shows 06:00 through 21:00, 16 rows.
var DefaultHours = HourRange{From: 6, To: 22}

// Count returns the number of visible rows.
func (r HourRange) Count() int {
	if r.To <= r.From {
		return 0
	}
	return r.To - r.From
}

// Contains reports whether hour h is a visible row.
func (r HourRange) Contains(h int) bool { return h >= r.From && h < r.To }

// Window is the rectangle the grid is computed for: an ordered day
// list (typically the 7 days of one week) times a visible hour range.
type Window struct {
	Days  []time.Time
	Hours HourRange
}

// WeekWindow builds the window for the week containing anchor, shifted
// by offset weeks, with the given visible hours.
func WeekWindow(anchor time.Time, offset int, hours HourRange) Window {
	return Window{Days: WeekOf(anchor, offset), Hours: hours}
}

// WeekOf returns the 7 days of the week containing anchor, shifted by
// offset weeks. Weeks start on Sunday.
func WeekOf(anchor time.Time, offset int) []time.Time {
	first := DayOf(anchor)
	first = first.AddDate(0, 0, offset*7-int(first.Weekday()))

	days := make([]time.Time, 7)
	for i := range days {
		days[i] = first.AddDate(0, 0, i)
	}
	return days
}

// Cells returns the number of cells the window spans.
func (w Window) Cells() int { return len(w.Days) * w.Hours.Count() }

// Span returns the half-open time range covered by the window's days.
// Days is assumed to be in ascending display order.
func (w Window) Span() (start, end time.Time) {
	if len(w.Days) == 0 {
		return time.Time{}, time.Time{}
	}
	return DayOf(w.Days[0]), DayOf(w.Days[len(w.Days)-1]).AddDate(0, 0, 1)
}

// DayOf strips the time of day, keeping the calendar date in t's
// location.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayKey formats the grid key for a day.
func DayKey(t time.Time) string { return t.Format("2006-01-02") }

// midnight reports whether t is exactly 00:00:00 of its day.
func midnight(t time.Time) bool { return t.Equal(DayOf(t)) }
