// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/goglerespect/personal-assistant/internal/contact"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds all assistant configuration.
type Config struct {
	Storage   Storage   `yaml:"storage"`
	Birthdays Birthdays `yaml:"birthdays"`
	Log       Log       `yaml:"log"`
}

// Storage selects where the address book is persisted.
type Storage struct {
	Backend string `yaml:"backend" env:"ASSISTANT_STORAGE_BACKEND"` // "file" | "sqlite"
	Path    string `yaml:"path"    env:"ASSISTANT_STORAGE_PATH"`    // .json/.yaml file or sqlite database
}

// Birthdays holds upcoming-birthday query settings.
type Birthdays struct {
	WindowDays int    `yaml:"window_days" env:"ASSISTANT_WINDOW_DAYS"`
	LeapDay    string `yaml:"leap_day"    env:"ASSISTANT_LEAP_DAY"` // "feb28" | "mar1"
}

// Log holds diagnostic logging settings. An empty level disables logging.
type Log struct {
	Level  string `yaml:"level"  env:"ASSISTANT_LOG_LEVEL"`
	File   string `yaml:"file"   env:"ASSISTANT_LOG_FILE"`
	Format string `yaml:"format" env:"ASSISTANT_LOG_FORMAT"` // "text" | "json"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Backend: BackendFile,
			Path:    "addressbook.json",
		},
		Birthdays: Birthdays{
			WindowDays: contact.DefaultWindowDays,
			LeapDay:    contact.LeapDayFeb28.String(),
		},
		Log: Log{
			Format: "text",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("config: storage.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return errors.New("config: storage.path cannot be empty")
	}
	if c.Birthdays.WindowDays < 0 {
		return fmt.Errorf("config: birthdays.window_days must be non-negative, got %d", c.Birthdays.WindowDays)
	}
	if _, err := contact.ParseLeapDayPolicy(c.Birthdays.LeapDay); err != nil {
		return fmt.Errorf("config: birthdays.leap_day: %w", err)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// LeapDayPolicy returns the parsed birthdays.leap_day setting.
// Call Validate first; unknown values fall back to the default policy.
func (c *Config) LeapDayPolicy() contact.LeapDayPolicy {
	p, err := contact.ParseLeapDayPolicy(c.Birthdays.LeapDay)
	if err != nil {
		return contact.LeapDayFeb28
	}
	return p
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables are declared by the env tags on the config structs
// (ASSISTANT_STORAGE_BACKEND, ASSISTANT_STORAGE_PATH, ASSISTANT_WINDOW_DAYS,
// ASSISTANT_LEAP_DAY, ASSISTANT_LOG_LEVEL, ASSISTANT_LOG_FILE, ASSISTANT_LOG_FORMAT).
// Unset variables leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage   *rawStorage   `yaml:"storage"`
	Birthdays *rawBirthdays `yaml:"birthdays"`
	Log       *rawLog       `yaml:"log"`
}

type rawStorage struct {
	Backend *string `yaml:"backend"`
	Path    *string `yaml:"path"`
}

type rawBirthdays struct {
	WindowDays *int    `yaml:"window_days"`
	LeapDay    *string `yaml:"leap_day"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	File   *string `yaml:"file"`
	Format *string `yaml:"format"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil {
		if layer.Storage.Backend != nil {
			c.Storage.Backend = *layer.Storage.Backend
		}
		if layer.Storage.Path != nil {
			c.Storage.Path = *layer.Storage.Path
		}
	}
	if layer.Birthdays != nil {
		if layer.Birthdays.WindowDays != nil {
			c.Birthdays.WindowDays = *layer.Birthdays.WindowDays
		}
		if layer.Birthdays.LeapDay != nil {
			c.Birthdays.LeapDay = *layer.Birthdays.LeapDay
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
		if layer.Log.Format != nil {
			c.Log.Format = *layer.Log.Format
		}
	}
}
