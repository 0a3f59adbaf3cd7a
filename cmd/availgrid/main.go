// Command availgrid loads the configured schedule/event sources,
// computes the availability grid for one week and prints it as a text
// table with the mode's summary line. One-shot; no serving.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"availgrid/grid"
	"availgrid/ics"
	"availgrid/internal/config"
	appLog "availgrid/internal/log"
	"availgrid/rows"
)

type flagConfig struct {
	configPath string
	date       string
	week       int
	personal   bool
	members    int
	verbose    bool
}

func main() {
	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}
	appLog.Info("availgrid starting", "version", "0.1.0")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		appLog.Error("invalid timezone, using local", err, "timezone", conf.Timezone)
		loc = time.Local
	}

	// The engine never reads the clock; the anchor is resolved here.
	anchor := time.Now().In(loc)
	if flags.date != "" {
		anchor, err = time.ParseInLocation("2006-01-02", flags.date, loc)
		if err != nil {
			appLog.Error("invalid -date", err, "date", flags.date)
			os.Exit(1)
		}
	}

	members := conf.Members
	if flags.members > 0 {
		members = flags.members
	}
	if flags.personal {
		members = 1
	}

	appLog.Info("effective config",
		"timezone", conf.Timezone,
		"week_start", conf.WeekStart,
		"hours", fmt.Sprintf("%02d-%02d", conf.HourFrom, conf.HourTo),
		"members", members,
		"personal", flags.personal,
		"week_offset", flags.week,
		"ics_count", len(conf.ICS),
	)

	w := grid.Window{
		Days:  weekDays(anchor, flags.week, weekStart(conf.WeekStart)),
		Hours: grid.HourRange{From: conf.HourFrom, To: conf.HourTo},
	}

	schedules := loadSchedules(conf.SchedulesPath)
	events := loadEvents(conf, w)

	g := grid.Aggregate(schedules, events, w)
	printGrid(g, w)

	if flags.personal {
		st := grid.SummarizePersonal(g, w)
		fmt.Printf("free %dh / busy %dh\n", st.FreeHours, st.BusyHours)
	} else {
		st := grid.SummarizeTeam(g, w, members)
		fmt.Printf("avg availability %d%%, best time %s, team of %d\n",
			st.AvgAvailability, st.BestTime, st.TeamSize)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "availgrid.yaml", "Path to config file")
	flag.StringVar(&cfg.date, "date", "", "Anchor day YYYY-MM-DD (default today)")
	flag.IntVar(&cfg.week, "week", 0, "Week offset from the anchor's week")
	flag.BoolVar(&cfg.personal, "personal", false, "Personal free/busy mode instead of team mode")
	flag.IntVar(&cfg.members, "members", 0, "Override the configured member count")
	flag.BoolVar(&cfg.verbose, "v", false, "Debug logging")
	flag.Parse()

	return cfg
}

func weekStart(v string) time.Weekday {
	if v == "monday" {
		return time.Monday
	}
	return time.Sunday
}

// weekDays builds the 7 days of the week containing anchor, shifted by
// offset weeks, opening on the configured weekday.
func weekDays(anchor time.Time, offset int, start time.Weekday) []time.Time {
	first := grid.DayOf(anchor)
	back := (int(first.Weekday()) - int(start) + 7) % 7
	first = first.AddDate(0, 0, offset*7-back)

	days := make([]time.Time, 7)
	for i := range days {
		days[i] = first.AddDate(0, 0, i)
	}
	return days
}

func loadSchedules(path string) []grid.Schedule {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		appLog.Error("schedules not loaded", err, "path", path)
		return nil
	}
	schedules, err := rows.Schedules(data)
	if err != nil {
		appLog.Error("schedules not decoded", err, "path", path)
		return nil
	}
	appLog.Info("schedules loaded", "path", path, "count", len(schedules))
	return schedules
}

func loadEvents(conf *config.Config, w grid.Window) []grid.Event {
	var events []grid.Event

	if conf.EventsPath != "" {
		data, err := os.ReadFile(conf.EventsPath)
		if err != nil {
			appLog.Error("events not loaded", err, "path", conf.EventsPath)
		} else if decoded, err := rows.Events(data); err != nil {
			appLog.Error("events not decoded", err, "path", conf.EventsPath)
		} else {
			events = append(events, decoded...)
		}
	}

	for _, src := range conf.ICS {
		data, err := os.ReadFile(src.Path)
		if err != nil {
			appLog.Error("ics source not loaded", err, "id", src.ID, "path", src.Path)
			continue
		}
		imported, err := ics.Events(ics.Source{
			ID:        src.ID,
			OwnerID:   src.OwnerID,
			OwnerName: src.OwnerName,
			OrgWide:   src.OrgWide,
		}, data, w)
		if err != nil {
			appLog.Error("ics source not parsed", err, "id", src.ID, "path", src.Path)
			continue
		}
		events = append(events, imported...)
	}

	appLog.Info("events loaded", "count", len(events))
	return events
}

// printGrid renders the week as a table: days across, hours down,
// per-cell distinct occupant count ("." when free).
func printGrid(g grid.Grid, w grid.Window) {
	fmt.Printf("%5s", "")
	for _, day := range w.Days {
		fmt.Printf(" %6s", day.Format("Mon 02"))
	}
	fmt.Println()

	for h := w.Hours.From; h < w.Hours.To; h++ {
		fmt.Printf("%02d:00", h)
		for _, day := range w.Days {
			if n := len(g.At(day, h)); n > 0 {
				fmt.Printf(" %6d", n)
			} else {
				fmt.Printf(" %6s", ".")
			}
		}
		fmt.Println()
	}
}
