package grid

import "time"

// CellKey addresses one hourly cell of the visible grid.
type CellKey struct {
	Day  string // DayKey form, "2006-01-02"
	Hour int
}

// Conflict is one occupant of a grid cell: a member busy with a
// schedule or personal event, or an org-wide event occupying every
// member at once.
type Conflict struct {
	// MemberID identifies the busy member; it is empty on org-wide
	// entries, which are identified by EventID instead.
	MemberID string
	EventID  string
	OrgWide  bool

	Name  string
	Title string
}

// occupant is the dedup identity of a Conflict within one cell.
type occupant struct {
	orgWide bool
	id      string
}

func (c Conflict) key() occupant {
	if c.OrgWide {
		return occupant{orgWide: true, id: c.EventID}
	}
	return occupant{id: c.MemberID}
}

// Grid maps visible cells to their occupants. Free cells carry no
// entry; treat a returned Grid as immutable.
type Grid map[CellKey][]Conflict

// At returns the conflicts occupying the hour cell on day, nil when
// the cell is free.
func (g Grid) At(day time.Time, hour int) []Conflict {
	return g[CellKey{Day: DayKey(day), Hour: hour}]
}

// add appends c to the cell unless an entry with the same occupant
// identity is already present. Cells stay small, so a linear scan
// beats keeping a per-cell set.
func (g Grid) add(k CellKey, c Conflict) {
	id := c.key()
	for _, have := range g[k] {
		if have.key() == id {
			return
		}
	}
	g[k] = append(g[k], c)
}
