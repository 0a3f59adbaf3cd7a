package grid

import "time"

// Event is a concrete calendar entry already fetched for the visible
// window. Events do not recur; a recurring source is expanded into one
// Event per occurrence before it reaches the grid.
type Event struct {
	// ID identifies the event. Org-wide events require an ID: it is
	// their occupant identity, so two org-wide events in the same cell
	// count as two entries.
	ID        string
	OwnerID   string
	OwnerName string
	Title     string

	// Start marks the event unusable when zero (the stored timestamp
	// did not parse); such events contribute nothing.
	Start time.Time
	// End defaults to Start plus one hour when zero.
	End time.Time

	AllDay  bool
	OrgWide bool
}

func (e Event) end() time.Time {
	if e.End.IsZero() {
		return e.Start.Add(time.Hour)
	}
	return e.End
}

// conflict builds the grid entry this event contributes, reporting
// false when the event cannot carry a usable occupant identity.
func (e Event) conflict() (Conflict, bool) {
	if e.OrgWide {
		if e.ID == "" {
			return Conflict{}, false
		}
		return Conflict{EventID: e.ID, OrgWide: true, Name: e.OwnerName, Title: e.Title}, true
	}
	return Conflict{MemberID: e.OwnerID, Name: e.OwnerName, Title: e.Title}, true
}
