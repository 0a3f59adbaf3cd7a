package grid

import "time"

// Rasterization turns a continuous interval into the discrete hourly
// cells it overlaps along the half-open convention: an hour cell h
// covers [h:00, h+1:00), and an interval ending exactly on an hour
// boundary does not occupy that hour. Every emitted cell is clamped to
// the window's days and visible hour range.

// clampSpan narrows the half-open hour span [from, to) to the visible
// range, reporting false when nothing remains.
func (r HourRange) clampSpan(from, to int) (int, int, bool) {
	from = max(from, r.From)
	to = min(to, r.To)
	if from >= to {
		return 0, 0, false
	}
	return from, to, true
}

// scheduleCells returns the cells a schedule occupies on day, clamped
// to the visible hour range. The caller checks AppliesOn first.
func scheduleCells(s Schedule, day time.Time, hours HourRange) []CellKey {
	from, to, ok := hours.clampSpan(s.StartHour, s.EndHour)
	if !ok {
		return nil
	}
	key := DayKey(day)
	cells := make([]CellKey, 0, to-from)
	for h := from; h < to; h++ {
		cells = append(cells, CellKey{Day: key, Hour: h})
	}
	return cells
}

// eventCells returns the cells an event occupies inside the window.
// Events whose timestamps never parsed (zero Start) emit nothing.
func eventCells(e Event, w Window) []CellKey {
	if e.Start.IsZero() {
		return nil
	}
	if e.AllDay {
		return allDayCells(e, w)
	}
	return timedCells(e, w)
}

// allDayCells spans whole days from the start date through the end
// date inclusive, each emitting the entire visible hour range. An
// exact-midnight end on a later day is exclusive: the span's last day
// is the day before that midnight.
func allDayCells(e Event, w Window) []CellKey {
	end := e.end()
	first := DayOf(e.Start)
	last := DayOf(end)
	if last.After(first) && midnight(end) {
		last = last.AddDate(0, 0, -1)
	}

	var cells []CellKey
	for _, day := range w.Days {
		d := DayOf(day)
		if d.Before(first) || d.After(last) {
			continue
		}
		key := DayKey(d)
		for h := w.Hours.From; h < w.Hours.To; h++ {
			cells = append(cells, CellKey{Day: key, Hour: h})
		}
	}
	return cells
}

// timedCells splits a timed, possibly multi-day event by calendar day:
// the first day starts at the event's start hour, the last day ends at
// the event's end hour (rounded up one hour when trailing minutes
// remain), and days in between cover the whole visible range.
func timedCells(e Event, w Window) []CellKey {
	end := e.end()
	first := DayOf(e.Start)
	last := DayOf(end)

	endHour := end.Hour()
	if end.Minute() > 0 {
		endHour++
	}

	var cells []CellKey
	for _, day := range w.Days {
		d := DayOf(day)
		if d.Before(first) || d.After(last) {
			continue
		}
		from, to := w.Hours.From, w.Hours.To
		if d.Equal(first) {
			from = max(from, e.Start.Hour())
		}
		if d.Equal(last) {
			to = min(to, endHour)
		}
		if from >= to {
			continue
		}
		key := DayKey(d)
		for h := from; h < to; h++ {
			cells = append(cells, CellKey{Day: key, Hour: h})
		}
	}
	return cells
}
