// Package config holds the YAML configuration for the availgrid
// inspection tool: the visible hour range, week layout, team size and
// the input sources the grid is built from.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ICSSource describes one already-exported iCalendar file to import.
type ICSSource struct {
	// Path is the location of the ICS payload on disk.
	Path string `yaml:"path" json:"path"`
	// ID is an internal identifier used for occurrence identity and logging.
	ID string `yaml:"id" json:"id"`
	// OwnerID and OwnerName attribute every event in the payload to one
	// member. Ignored when OrgWide is set.
	OwnerID   string `yaml:"owner_id" json:"owner_id"`
	OwnerName string `yaml:"owner_name" json:"owner_name"`
	// OrgWide marks a shared organization calendar: its events occupy
	// every member at once.
	OrgWide bool `yaml:"org_wide" json:"org_wide"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA timezone all naive dates are interpreted in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart controls which weekday opens the grid. Supported values:
	//   - "sunday" (default)
	//   - "monday"
	WeekStart string `yaml:"week_start" json:"week_start"`

	// HourFrom/HourTo bound the visible rows, half-open. The default
	// 6..22 shows 06:00 through 21:00.
	HourFrom int `yaml:"hour_from" json:"hour_from"`
	HourTo   int `yaml:"hour_to" json:"hour_to"`

	// Members is the organization head count used for team statistics.
	Members int `yaml:"members" json:"members"`

	// SchedulesPath and EventsPath point to JSON row dumps from the
	// backing store (recurring schedules and calendar events).
	SchedulesPath string `yaml:"schedules" json:"schedules"`
	EventsPath    string `yaml:"events" json:"events"`

	// ICS lists iCalendar files to import alongside the stored rows.
	ICS []ICSSource `yaml:"ics" json:"ics"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:  "Local",
		WeekStart: "sunday",
		HourFrom:  6,
		HourTo:    22,
		Members:   1,
		ICS:       []ICSSource{},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	switch c.WeekStart {
	case "sunday", "monday":
		// ok
	default:
		c.WeekStart = "sunday"
	}
	if c.HourTo <= c.HourFrom {
		c.HourFrom = 6
		c.HourTo = 22
	}
	if c.Members < 0 {
		c.Members = 0
	}
	if c.ICS == nil {
		c.ICS = []ICSSource{}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create the parent directory if
//     needed, write a default config with 0600 perms, and return the
//     default config.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically via a temp file + rename,
// ensuring the parent directory exists and final perms are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".availgrid-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
