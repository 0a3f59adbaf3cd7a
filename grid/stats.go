package grid

import (
	"fmt"
	"math"
	"time"
)

// PersonalStats counts free and busy cells across one member's window.
// FreeHours+BusyHours always equals the window's cell count.
type PersonalStats struct {
	FreeHours int
	BusyHours int
}

// SummarizePersonal classifies every visible cell: busy when at least
// one conflict occupies it, free otherwise.
func SummarizePersonal(g Grid, w Window) PersonalStats {
	var st PersonalStats
	for _, day := range w.Days {
		key := DayKey(day)
		for h := w.Hours.From; h < w.Hours.To; h++ {
			if len(g[CellKey{Day: key, Hour: h}]) > 0 {
				st.BusyHours++
			} else {
				st.FreeHours++
			}
		}
	}
	return st
}

// NoCommonTime is the BestTime value reported when no visible cell has
// any availability.
const NoCommonTime = "—"

// TeamStats summarizes availability across the whole organization for
// one window.
type TeamStats struct {
	AvgAvailability int    // mean per-cell availability, 0–100 percent
	BestTime        string // label of the most available cell, or NoCommonTime
	TeamSize        int
}

// SummarizeTeam derives team statistics from the grid. A cell's
// effective busy count is the full member count when any occupant is
// org-wide, otherwise its distinct occupant count; availability ratios
// degrade to 0 when memberCount is 0. BestTime is the first cell, in
// day-major window order and ascending hours, holding the strictly
// highest ratio.
func SummarizeTeam(g Grid, w Window, memberCount int) TeamStats {
	st := TeamStats{BestTime: NoCommonTime, TeamSize: memberCount}

	var ratioSum float64
	var best float64
	cells := 0

	for _, day := range w.Days {
		key := DayKey(day)
		for h := w.Hours.From; h < w.Hours.To; h++ {
			conflicts := g[CellKey{Day: key, Hour: h}]
			busy := len(conflicts)
			for _, c := range conflicts {
				if c.OrgWide {
					busy = memberCount
					break
				}
			}

			available := memberCount - busy
			if available < 0 {
				available = 0
			}
			ratio := 0.0
			if memberCount > 0 {
				ratio = float64(available) / float64(memberCount)
			}

			ratioSum += ratio
			cells++
			if ratio > best {
				best = ratio
				st.BestTime = CellLabel(day, h)
			}
		}
	}

	if cells > 0 {
		st.AvgAvailability = int(math.Round(ratioSum / float64(cells) * 100))
	}
	return st
}

// CellLabel renders the short human label for a cell, e.g. "Tue 9:00".
func CellLabel(day time.Time, hour int) string {
	return fmt.Sprintf("%s %d:00", day.Format("Mon"), hour)
}
