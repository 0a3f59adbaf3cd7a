// Package ics imports already-fetched iCalendar payloads into grid
// events for one visible window. It performs no network or disk I/O:
// payload bytes go in, expanded events come out.
package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"availgrid/grid"
	appLog "availgrid/internal/log"
)

// maxOccurrences caps recurrence expansion per VEVENT so an unbounded
// rule cannot blow up a single import. A 7-day window never needs more.
const maxOccurrences = 1000

// Source tags every event produced from one payload with its owner. A
// source marked OrgWide yields org-wide events, which occupy every
// member of the organization at once.
type Source struct {
	ID        string
	OwnerID   string
	OwnerName string
	OrgWide   bool
}

// vevent is the normalized form of one parsed VEVENT, the unit the
// expander works on.
type vevent struct {
	uid     string
	summary string
	start   time.Time
	end     time.Time
	allDay  bool
	rawRule string
	exDates []time.Time
}

// Events parses an ICS payload and expands its VEVENTs into the grid
// events that intersect the window. A VEVENT that fails to parse or
// whose RRULE is malformed is logged and skipped; the rest of the
// payload still imports.
func Events(src Source, body []byte, w grid.Window) ([]grid.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	spanStart, spanEnd := w.Span()
	if spanStart.IsZero() {
		return nil, nil
	}

	var events []grid.Event
	for _, comp := range cal.Events() {
		ev, perr := parseVEvent(comp, spanStart.Location())
		if perr != nil {
			appLog.Error("ics vevent skipped", perr, "source", src.ID)
			continue
		}
		events = append(events, expand(src, ev, spanStart, spanEnd)...)
	}

	appLog.Debug("ics import completed", "source", src.ID, "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (vevent, error) {
	var out vevent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.uid = p.Value
	}
	if out.uid == "" {
		// Without a UID the occurrence identity is generated instead.
		out.uid = uuid.NewString()
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.summary = p.Value
	}

	// All-day when DTSTART carries VALUE=DATE or a date-only value.
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.allDay = true
		}
		if !strings.Contains(p.Value, "T") {
			out.allDay = true
		}
	}

	if out.allDay {
		// Date-only values are naive; anchor them to the window's
		// location so day comparisons line up. The DTEND date stays
		// exclusive, which is exactly the grid's midnight rule.
		start, err := allDayDate(ve, ical.ComponentPropertyDtStart, loc)
		if err != nil {
			return out, err
		}
		out.start = start
		if end, err := allDayDate(ve, ical.ComponentPropertyDtEnd, loc); err == nil {
			out.end = end
		}
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return out, err
		}
		out.start = start
		if end, err := ve.GetEndAt(); err == nil {
			out.end = end
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.rawRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out.exDates = append(out.exDates, t)
			}
		}
	}

	return out, nil
}

// expand turns one parsed VEVENT into zero or more grid events inside
// the half-open window span.
func expand(src Source, ev vevent, spanStart, spanEnd time.Time) []grid.Event {
	if ev.rawRule == "" {
		end := ev.end
		if end.IsZero() {
			end = ev.start.Add(time.Hour)
		}
		if !end.After(spanStart) || !ev.start.Before(spanEnd) {
			return nil
		}
		return []grid.Event{makeEvent(src, ev, ev.start, ev.end)}
	}

	r, err := rrule.StrToRRule(ev.rawRule)
	if err != nil {
		appLog.Error("ics rrule skipped", err, "source", src.ID, "uid", ev.uid)
		return nil
	}
	r.DTStart(ev.start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exDates {
		set.ExDate(ex.In(ev.start.Location()))
	}

	dur := ev.end.Sub(ev.start)
	if dur <= 0 {
		dur = time.Hour
	}

	// Widen the query start so an occurrence that began before the
	// window but runs into it is still found.
	occTimes := set.Between(spanStart.In(ev.start.Location()).Add(-dur), spanEnd.In(ev.start.Location()), true)
	if len(occTimes) > maxOccurrences {
		occTimes = occTimes[:maxOccurrences]
		appLog.Error("ics expansion truncated", errors.New("occurrence cap reached"),
			"source", src.ID, "uid", ev.uid, "cap", maxOccurrences)
	}

	var out []grid.Event
	for _, occStart := range occTimes {
		occEnd := occStart.Add(dur)
		if ev.allDay {
			day := grid.DayOf(occStart)
			occStart = day
			occEnd = day.Add(dur)
		}
		if !occEnd.After(spanStart) || !occStart.Before(spanEnd) {
			continue
		}
		out = append(out, makeEvent(src, ev, occStart, occEnd))
	}
	return out
}

// makeEvent builds the grid event for one occurrence. The identity is
// the UID plus the occurrence start, so every occurrence of an
// org-wide series counts as its own occupant.
func makeEvent(src Source, ev vevent, start, end time.Time) grid.Event {
	return grid.Event{
		ID:        ev.uid + "/" + start.Format(time.RFC3339),
		OwnerID:   src.OwnerID,
		OwnerName: src.OwnerName,
		Title:     ev.summary,
		Start:     start,
		End:       end,
		AllDay:    ev.allDay,
		OrgWide:   src.OrgWide,
	}
}

var errMissingProperty = errors.New("missing date property")

// allDayDate reads a date-only DTSTART/DTEND value in the given
// location.
func allDayDate(ve *ical.VEvent, prop ical.ComponentProperty, loc *time.Location) (time.Time, error) {
	p := ve.GetProperty(prop)
	if p == nil || p.Value == "" {
		return time.Time{}, errMissingProperty
	}
	v := p.Value
	if i := strings.Index(v, "T"); i >= 0 {
		v = v[:i]
	}
	return time.ParseInLocation("20060102", v, loc)
}

// parseICSTime parses the basic ICS date/date-time forms EXDATE values
// arrive in: 20060102T150405Z, 20060102T150405, 20060102.
func parseICSTime(v string) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	default:
		return time.ParseInLocation("20060102", v, time.Local)
	}
}
