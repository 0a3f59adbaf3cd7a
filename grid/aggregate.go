package grid

// Aggregate folds every applicable schedule contribution, then every
// event contribution, into a fresh grid for the window. Within a cell
// each occupant identity appears at most once no matter how often or
// in which order it contributes. Inputs are never mutated; malformed
// records contribute nothing instead of failing the aggregation.
func Aggregate(schedules []Schedule, events []Event, w Window) Grid {
	g := make(Grid)

	for _, s := range schedules {
		c := Conflict{MemberID: s.OwnerID, Name: s.OwnerName, Title: s.Title}
		for _, day := range w.Days {
			if !s.AppliesOn(day) {
				continue
			}
			for _, cell := range scheduleCells(s, day, w.Hours) {
				g.add(cell, c)
			}
		}
	}

	for _, e := range events {
		c, ok := e.conflict()
		if !ok {
			continue
		}
		for _, cell := range eventCells(e, w) {
			g.add(cell, c)
		}
	}

	return g
}
