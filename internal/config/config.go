package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Abbreviations maps full section names and locations to the short forms
// stamped into the output calendar.
type Abbreviations struct {
	Sections  map[string]string `yaml:"sections"`
	Locations map[string]string `yaml:"locations"`
}

// Config is the top-level application configuration.
type Config struct {
	// ProdID is the PRODID stamped into generated calendars.
	ProdID string `yaml:"prodid"`

	// Timezone is the IANA timezone the institution's meeting times are
	// declared in (e.g. "America/Detroit").
	Timezone string `yaml:"timezone"`

	// SpecialDates is the path of the special-dates CSV
	// (columns: date, name, pattern).
	SpecialDates string `yaml:"special_dates"`

	// IncludeSpecialDates controls whether holidays and other special
	// dates become visible all-day events. Defaults to true.
	IncludeSpecialDates *bool `yaml:"include_special_dates,omitempty"`

	// Abbreviations are applied to ingested rows before conversion.
	Abbreviations Abbreviations `yaml:"abbreviations"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		ProdID:       "-//Ken Arnold//Workday to ICS//EN",
		Timezone:     "America/Detroit",
		SpecialDates: "special_dates.csv",
	}
}

// Normalize fills in missing/zero values so partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.ProdID == "" {
		c.ProdID = "-//Ken Arnold//Workday to ICS//EN"
	}
	if c.Timezone == "" {
		c.Timezone = "America/Detroit"
	}
	if c.SpecialDates == "" {
		c.SpecialDates = "special_dates.csv"
	}
	if c.Abbreviations.Sections == nil {
		c.Abbreviations.Sections = map[string]string{}
	}
	if c.Abbreviations.Locations == nil {
		c.Abbreviations.Locations = map[string]string{}
	}
}

// SpecialDatesIncluded resolves the IncludeSpecialDates default.
func (c *Config) SpecialDatesIncluded() bool {
	if c.IncludeSpecialDates == nil {
		return true
	}
	return *c.IncludeSpecialDates
}

// Load loads configuration from the given YAML path. If the file does not
// exist, a default config is written there and returned.
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

// Save writes the configuration atomically (temp file + rename).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calgen-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
