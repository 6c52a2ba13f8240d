package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goglerespect/personal-assistant/internal/contact"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Storage.Backend != BackendFile {
		t.Errorf("default backend = %q, want %q", cfg.Storage.Backend, BackendFile)
	}
	if cfg.Storage.Path != "addressbook.json" {
		t.Errorf("default path = %q, want %q", cfg.Storage.Path, "addressbook.json")
	}
	if cfg.Birthdays.WindowDays != 7 {
		t.Errorf("default window = %d, want 7", cfg.Birthdays.WindowDays)
	}
	if cfg.Birthdays.LeapDay != "feb28" {
		t.Errorf("default leap day = %q, want %q", cfg.Birthdays.LeapDay, "feb28")
	}
	if cfg.Log.Level != "" {
		t.Errorf("default log level = %q, want logging off", cfg.Log.Level)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	cfgPath := writeConfig(t, `
storage:
  backend: sqlite
  path: /tmp/book.db
birthdays:
  window_days: 14
  leap_day: mar1
log:
  level: debug
  format: json
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("backend = %q, want %q", cfg.Storage.Backend, BackendSQLite)
	}
	if cfg.Storage.Path != "/tmp/book.db" {
		t.Errorf("path = %q, want %q", cfg.Storage.Path, "/tmp/book.db")
	}
	if cfg.Birthdays.WindowDays != 14 {
		t.Errorf("window = %d, want 14", cfg.Birthdays.WindowDays)
	}
	if cfg.LeapDayPolicy() != contact.LeapDayMar1 {
		t.Errorf("leap policy = %v, want mar1", cfg.LeapDayPolicy())
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v, want debug/json", cfg.Log)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(missing) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfgPath := writeConfig(t, "{{invalid yaml")

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load(invalid YAML) should return error")
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	cfgPath := writeConfig(t, `
birthdays:
  window_days: 3
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Birthdays.WindowDays != 3 {
		t.Errorf("window = %d, want 3", cfg.Birthdays.WindowDays)
	}
	// Unset fields should retain defaults.
	if cfg.Storage.Path != "addressbook.json" {
		t.Errorf("path = %q, want default", cfg.Storage.Path)
	}
	if cfg.Birthdays.LeapDay != "feb28" {
		t.Errorf("leap day = %q, want default", cfg.Birthdays.LeapDay)
	}
}

func TestLoad_LayeredPriority(t *testing.T) {
	// Given a user config that sets backend and window, and a project config
	// that overrides only the window
	userCfg := writeConfig(t, `
storage:
  backend: sqlite
birthdays:
  window_days: 10
`)
	projectCfg := writeConfig(t, `
birthdays:
  window_days: 2
`)

	// When both layers are loaded
	cfg, err := LoadLayered(userCfg, projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}

	// Then backend comes from the user layer
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("backend = %q, want %q", cfg.Storage.Backend, BackendSQLite)
	}
	// And the window from the project layer
	if cfg.Birthdays.WindowDays != 2 {
		t.Errorf("window = %d, want 2", cfg.Birthdays.WindowDays)
	}
	// And the path keeps its default
	if cfg.Storage.Path != "addressbook.json" {
		t.Errorf("path = %q, want default", cfg.Storage.Path)
	}
}

func TestLoadLayered_ZeroOverridesDefault(t *testing.T) {
	cfgPath := writeConfig(t, `
birthdays:
  window_days: 0
`)

	cfg, err := LoadLayered(cfgPath)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	if cfg.Birthdays.WindowDays != 0 {
		t.Errorf("window = %d, want explicit 0", cfg.Birthdays.WindowDays)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr bool
		check   func(*testing.T, Config)
	}{
		{
			name: "ASSISTANT_STORAGE_BACKEND overrides backend",
			envs: map[string]string{"ASSISTANT_STORAGE_BACKEND": "sqlite"},
			check: func(t *testing.T, c Config) {
				if c.Storage.Backend != BackendSQLite {
					t.Errorf("backend = %q, want %q", c.Storage.Backend, BackendSQLite)
				}
			},
		},
		{
			name: "ASSISTANT_STORAGE_PATH overrides path",
			envs: map[string]string{"ASSISTANT_STORAGE_PATH": "/data/book.yaml"},
			check: func(t *testing.T, c Config) {
				if c.Storage.Path != "/data/book.yaml" {
					t.Errorf("path = %q, want %q", c.Storage.Path, "/data/book.yaml")
				}
			},
		},
		{
			name: "ASSISTANT_WINDOW_DAYS overrides window",
			envs: map[string]string{"ASSISTANT_WINDOW_DAYS": "30"},
			check: func(t *testing.T, c Config) {
				if c.Birthdays.WindowDays != 30 {
					t.Errorf("window = %d, want 30", c.Birthdays.WindowDays)
				}
			},
		},
		{
			name: "unset variables keep values",
			envs: map[string]string{"ASSISTANT_LOG_LEVEL": "warn"},
			check: func(t *testing.T, c Config) {
				if c.Log.Level != "warn" {
					t.Errorf("log level = %q, want warn", c.Log.Level)
				}
				if c.Storage.Path != "addressbook.json" {
					t.Errorf("path = %q, want default", c.Storage.Path)
				}
				if c.Birthdays.WindowDays != 7 {
					t.Errorf("window = %d, want default", c.Birthdays.WindowDays)
				}
			},
		},
		{
			name:    "invalid ASSISTANT_WINDOW_DAYS returns error",
			envs:    map[string]string{"ASSISTANT_WINDOW_DAYS": "soon"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			err := cfg.ApplyEnv()

			if tt.wantErr {
				if err == nil {
					t.Fatal("ApplyEnv() should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnv() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_UnknownField(t *testing.T) {
	cfgPath := writeConfig(t, `
storage:
  bakend: sqlite
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load() should return error for unknown field 'bakend'")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:   "sqlite backend",
			modify: func(c *Config) { c.Storage.Backend = BackendSQLite },
		},
		{
			name:    "unknown backend",
			modify:  func(c *Config) { c.Storage.Backend = "pickle" },
			wantErr: true,
		},
		{
			name:    "empty path",
			modify:  func(c *Config) { c.Storage.Path = "" },
			wantErr: true,
		},
		{
			name:   "zero window",
			modify: func(c *Config) { c.Birthdays.WindowDays = 0 },
		},
		{
			name:    "negative window",
			modify:  func(c *Config) { c.Birthdays.WindowDays = -1 },
			wantErr: true,
		},
		{
			name:    "unknown leap day",
			modify:  func(c *Config) { c.Birthdays.LeapDay = "feb29" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_CommentOnlyFile(t *testing.T) {
	cfgPath := writeConfig(t, "# just a comment\n")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(comment-only) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(comment-only) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_AllMissing(t *testing.T) {
	cfg, err := LoadLayered("/no/user.yaml", "/no/project.yaml")
	if err != nil {
		t.Fatalf("LoadLayered(all missing) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("got %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfgPath := writeConfig(t, "")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(empty) = %+v, want defaults %+v", *cfg, want)
	}
}
