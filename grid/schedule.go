package grid

import (
	"slices"
	"time"
)

// Schedule is a named recurring time commitment belonging to one
// member.
type Schedule struct {
	OwnerID   string
	OwnerName string
	Title     string

	// Start is the first day the schedule is active. End, when
	// non-zero, is the inclusive last day; a zero End leaves the
	// schedule open-ended. Single schedules apply on Start's date only
	// and ignore End entirely.
	Start time.Time
	End   time.Time

	// StartHour and EndHour bound the occupied rows, half-open. Only
	// whole hours exist at grid granularity.
	StartHour int
	EndHour   int

	Repeat Pattern
}

// Pattern selects which days a schedule lands on. The variants form a
// closed set; a nil Pattern never applies.
type Pattern interface{ pattern() }

// Single pins the schedule to its start date.
type Single struct{}

// Daily applies on every day of the schedule's date range.
type Daily struct{}

// Weekly applies on the listed weekdays within the date range. An
// empty day set never applies.
type Weekly struct{ Days []time.Weekday }

// Monthly applies on one day of the month within the date range.
type Monthly struct{ Day int }

func (Single) pattern()  {}
func (Daily) pattern()   {}
func (Weekly) pattern()  {}
func (Monthly) pattern() {}

// AppliesOn reports whether the schedule occupies any part of day. The
// time of day carried by the argument is ignored. Schedules with a
// zero Start or an unrecognized pattern never apply.
func (s Schedule) AppliesOn(day time.Time) bool {
	if s.Start.IsZero() {
		return false
	}
	d := DayOf(day)
	switch p := s.Repeat.(type) {
	case Single:
		return d.Equal(DayOf(s.Start))
	case Daily:
		return s.activeOn(d)
	case Weekly:
		return s.activeOn(d) && slices.Contains(p.Days, d.Weekday())
	case Monthly:
		return s.activeOn(d) && d.Day() == p.Day
	default:
		return false
	}
}

// activeOn checks the inclusive [Start, End] date range; a zero End is
// open-ended.
func (s Schedule) activeOn(d time.Time) bool {
	if d.Before(DayOf(s.Start)) {
		return false
	}
	return s.End.IsZero() || !d.After(DayOf(s.End))
}
