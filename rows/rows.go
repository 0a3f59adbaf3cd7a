// Package rows decodes the JSON row shapes the backing store returns
// for recurring schedules and calendar events into grid types. Rows
// that fail to decode are dropped one at a time; a bad record never
// fails the batch.
package rows

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"availgrid/grid"
	appLog "availgrid/internal/log"
)

// scheduleRow mirrors the stored recurring_schedules columns.
type scheduleRow struct {
	OwnerID        string     `json:"owner_id"`
	OwnerName      string     `json:"owner_name"`
	Title          string     `json:"title"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	OccurrenceType string     `json:"occurrence_type"`
	DayOfWeek      weekdaySet `json:"day_of_week"`
	DayOfMonth     int        `json:"day_of_month"`
}

// eventRow mirrors the stored calendar_events columns.
type eventRow struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	OwnerName string `json:"owner_name"`
	Title     string `json:"title"`
	StartAt   string `json:"start_at"`
	EndAt     string `json:"end_at"`
	AllDay    bool   `json:"all_day"`
	Origin    string `json:"origin"`
}

// OriginOrg is the origin tag marking an organization-wide event row.
const OriginOrg = "org"

// weekdaySet accepts the stored day_of_week column as either a single
// index or a list of indices (0=Sunday..6=Saturday).
type weekdaySet []time.Weekday

func (s *weekdaySet) UnmarshalJSON(data []byte) error {
	var one int
	if err := json.Unmarshal(data, &one); err == nil {
		*s = weekdaySet{time.Weekday(one)}
		return nil
	}
	var many []int
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = make(weekdaySet, 0, len(many))
	for _, d := range many {
		*s = append(*s, time.Weekday(d))
	}
	return nil
}

// Schedules decodes a JSON array of schedule rows. Rows with an
// unparseable date or time-of-day are dropped; an unknown
// occurrence_type yields a nil pattern, which the engine fails closed
// on.
func Schedules(data []byte) ([]grid.Schedule, error) {
	var raw []scheduleRow
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make([]grid.Schedule, 0, len(raw))
	for _, r := range raw {
		s, err := r.schedule()
		if err != nil {
			appLog.Debug("schedule row dropped", "owner", r.OwnerID, "title", r.Title, "reason", err)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r scheduleRow) schedule() (grid.Schedule, error) {
	var s grid.Schedule

	start, err := parseDate(r.StartDate)
	if err != nil {
		return s, err
	}
	var end time.Time
	if r.EndDate != "" {
		if end, err = parseDate(r.EndDate); err != nil {
			return s, err
		}
	}
	startHour, err := parseHour(r.StartTime)
	if err != nil {
		return s, err
	}
	endHour, err := parseHour(r.EndTime)
	if err != nil {
		return s, err
	}

	return grid.Schedule{
		OwnerID:   r.OwnerID,
		OwnerName: r.OwnerName,
		Title:     r.Title,
		Start:     start,
		End:       end,
		StartHour: startHour,
		EndHour:   endHour,
		Repeat:    r.pattern(),
	}, nil
}

func (r scheduleRow) pattern() grid.Pattern {
	switch r.OccurrenceType {
	case "single":
		return grid.Single{}
	case "daily":
		return grid.Daily{}
	case "weekly":
		return grid.Weekly{Days: r.DayOfWeek}
	case "monthly":
		return grid.Monthly{Day: r.DayOfMonth}
	default:
		return nil
	}
}

// Events decodes a JSON array of event rows. A row with an unparseable
// required timestamp is dropped; a missing end_at defaults inside the
// engine to start plus one hour. Org-wide rows without an id get a
// generated one so their occupant identity stays per-event unique.
func Events(data []byte) ([]grid.Event, error) {
	var raw []eventRow
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make([]grid.Event, 0, len(raw))
	for _, r := range raw {
		e, err := r.event()
		if err != nil {
			appLog.Debug("event row dropped", "id", r.ID, "title", r.Title, "reason", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r eventRow) event() (grid.Event, error) {
	var e grid.Event

	start, err := parseStamp(r.StartAt)
	if err != nil {
		return e, err
	}
	var end time.Time
	if r.EndAt != "" {
		if end, err = parseStamp(r.EndAt); err != nil {
			return e, err
		}
	}

	id := r.ID
	orgWide := r.Origin == OriginOrg
	if orgWide && id == "" {
		id = uuid.NewString()
	}

	return grid.Event{
		ID:        id,
		OwnerID:   r.OwnerID,
		OwnerName: r.OwnerName,
		Title:     r.Title,
		Start:     start,
		End:       end,
		AllDay:    r.AllDay,
		OrgWide:   orgWide,
	}, nil
}

// parseStamp accepts the timestamp forms seen in stored rows: RFC3339,
// local-naive date-time, and date-only.
func parseStamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", v, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", v, time.Local)
}

func parseDate(v string) (time.Time, error) {
	t, err := parseStamp(v)
	if err != nil {
		return time.Time{}, err
	}
	return grid.DayOf(t), nil
}

// parseHour reads the hour component of a stored "HH:MM" time of day;
// minutes are below grid granularity and ignored.
func parseHour(v string) (int, error) {
	v = strings.TrimSpace(v)
	h, rest, ok := strings.Cut(v, ":")
	if !ok || rest == "" {
		return 0, errors.New("malformed time of day")
	}
	n, err := strconv.Atoi(h)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 23 {
		return 0, errors.New("hour out of range")
	}
	return n, nil
}
