package rows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"availgrid/grid"
)

func TestSchedulesDecodesEveryPattern(t *testing.T) {
	data := []byte(`[
		{"owner_id":"u1","owner_name":"Kim","title":"Defense","occurrence_type":"single",
		 "start_date":"2026-01-05","start_time":"09:00","end_time":"11:00"},
		{"owner_id":"u2","title":"Gym","occurrence_type":"daily",
		 "start_date":"2026-01-01","end_date":"2026-03-01","start_time":"07:00","end_time":"08:00"},
		{"owner_id":"u3","title":"Lecture","occurrence_type":"weekly","day_of_week":[1,3],
		 "start_date":"2026-01-01","start_time":"09:30","end_time":"11:00"},
		{"owner_id":"u4","title":"Board","occurrence_type":"monthly","day_of_month":15,
		 "start_date":"2026-01-01","start_time":"18:00","end_time":"20:00"}
	]`)

	schedules, err := Schedules(data)
	require.NoError(t, err)
	require.Len(t, schedules, 4)

	single := schedules[0]
	assert.Equal(t, "u1", single.OwnerID)
	assert.Equal(t, "Kim", single.OwnerName)
	assert.Equal(t, grid.Single{}, single.Repeat)
	assert.Equal(t, "2026-01-05", grid.DayKey(single.Start))
	assert.True(t, single.End.IsZero())
	assert.Equal(t, 9, single.StartHour)
	assert.Equal(t, 11, single.EndHour)

	daily := schedules[1]
	assert.Equal(t, grid.Daily{}, daily.Repeat)
	assert.Equal(t, "2026-03-01", grid.DayKey(daily.End))

	weekly := schedules[2]
	assert.Equal(t, grid.Weekly{Days: []time.Weekday{time.Monday, time.Wednesday}}, weekly.Repeat)
	// "09:30" reads as hour 9; minutes are below grid granularity.
	assert.Equal(t, 9, weekly.StartHour)

	monthly := schedules[3]
	assert.Equal(t, grid.Monthly{Day: 15}, monthly.Repeat)
}

func TestSchedulesScalarDayOfWeek(t *testing.T) {
	data := []byte(`[{"owner_id":"u1","occurrence_type":"weekly","day_of_week":3,
		"start_date":"2026-01-01","start_time":"09:00","end_time":"10:00"}]`)

	schedules, err := Schedules(data)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, grid.Weekly{Days: []time.Weekday{time.Wednesday}}, schedules[0].Repeat)
}

func TestSchedulesUnknownOccurrenceTypeFailsClosed(t *testing.T) {
	data := []byte(`[{"owner_id":"u1","occurrence_type":"yearly",
		"start_date":"2026-01-01","start_time":"09:00","end_time":"10:00"}]`)

	schedules, err := Schedules(data)
	require.NoError(t, err)
	require.Len(t, schedules, 1)

	assert.Nil(t, schedules[0].Repeat)
	assert.False(t, schedules[0].AppliesOn(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)))
}

func TestSchedulesDropsUndecodableRowsOnly(t *testing.T) {
	data := []byte(`[
		{"owner_id":"bad-date","occurrence_type":"daily","start_date":"soon","start_time":"09:00","end_time":"10:00"},
		{"owner_id":"bad-time","occurrence_type":"daily","start_date":"2026-01-01","start_time":"morning","end_time":"10:00"},
		{"owner_id":"bad-end","occurrence_type":"daily","start_date":"2026-01-01","end_date":"later","start_time":"09:00","end_time":"10:00"},
		{"owner_id":"ok","occurrence_type":"daily","start_date":"2026-01-01","start_time":"09:00","end_time":"10:00"}
	]`)

	schedules, err := Schedules(data)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "ok", schedules[0].OwnerID)
}

func TestSchedulesMalformedJSON(t *testing.T) {
	_, err := Schedules([]byte(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestEventsDecodesTimestampForms(t *testing.T) {
	data := []byte(`[
		{"id":"e1","owner_id":"u1","title":"Sync","start_at":"2026-01-06T09:00:00Z","end_at":"2026-01-06T10:30:00Z"},
		{"id":"e2","owner_id":"u1","title":"Naive","start_at":"2026-01-06T14:00:00"},
		{"id":"e3","owner_id":"u1","title":"Trip","start_at":"2026-01-08","all_day":true}
	]`)

	events, err := Events(data)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.True(t, events[0].Start.Equal(time.Date(2026, time.January, 6, 9, 0, 0, 0, time.UTC)))
	assert.True(t, events[0].End.Equal(time.Date(2026, time.January, 6, 10, 30, 0, 0, time.UTC)))

	// Missing end_at stays zero; the engine defaults it to start+1h.
	assert.True(t, events[1].Start.Equal(time.Date(2026, time.January, 6, 14, 0, 0, 0, time.Local)))
	assert.True(t, events[1].End.IsZero())

	assert.True(t, events[2].AllDay)
	assert.Equal(t, "2026-01-08", grid.DayKey(events[2].Start))
}

func TestEventsOrgOrigin(t *testing.T) {
	data := []byte(`[
		{"id":"e1","title":"All hands","origin":"org","start_at":"2026-01-06T15:00:00Z"},
		{"title":"No id","origin":"org","start_at":"2026-01-06T15:00:00Z"},
		{"id":"e3","owner_id":"u1","title":"Mine","origin":"member","start_at":"2026-01-06T15:00:00Z"}
	]`)

	events, err := Events(data)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.True(t, events[0].OrgWide)
	assert.Equal(t, "e1", events[0].ID)

	// An org-wide row without an id gets a generated one so its
	// occupant identity stays unique.
	assert.True(t, events[1].OrgWide)
	assert.NotEmpty(t, events[1].ID)

	assert.False(t, events[2].OrgWide)
}

func TestEventsDropsUndecodableRowsOnly(t *testing.T) {
	data := []byte(`[
		{"id":"bad-start","title":"Broken","start_at":"whenever"},
		{"id":"no-start","title":"Missing"},
		{"id":"bad-end","title":"Broken end","start_at":"2026-01-06T09:00:00Z","end_at":"later"},
		{"id":"ok","owner_id":"u1","title":"Fine","start_at":"2026-01-06T09:00:00Z"}
	]`)

	events, err := Events(data)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ok", events[0].ID)
}

func TestParseHour(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "09:00", want: 9},
		{in: "9:00", want: 9},
		{in: "21:45", want: 21},
		{in: "", wantErr: true},
		{in: "9", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseHour(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
