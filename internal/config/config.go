// Package config loads focusboard's config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultRedirectURL is where the OAuth provider sends the browser back to.
const DefaultRedirectURL = "http://localhost:5173/auth/callback"

// DefaultSyncSchedule is the cron spec used by `calendar sync --watch`.
const DefaultSyncSchedule = "@every 15m"

// Config represents the config.toml file.
type Config struct {
	Data     Data     `toml:"data"`
	UI       UI       `toml:"ui"`
	Log      Log      `toml:"log"`
	Notify   Notify   `toml:"notify"`
	Window   Window   `toml:"window"`
	Calendar Calendar `toml:"calendar"`
}

// Data controls where state is stored.
type Data struct {
	// Dir holds the database, log file and instance lock.
	Dir string `toml:"dir"`
}

type UI struct {
	Theme     string `toml:"theme"`
	StartView string `toml:"start_view"`
}

type Log struct {
	Level string `toml:"level"`
}

type Notify struct {
	Enabled bool `toml:"enabled"`
}

// Window configures the compact-mode collaborator. Both commands empty
// disables it.
type Window struct {
	CompactCommand string `toml:"compact_command"`
	RestoreCommand string `toml:"restore_command"`
}

// Calendar configures the Google Calendar connection.
type Calendar struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	RedirectURL  string   `toml:"redirect_url"`
	Scopes       []string `toml:"scopes"`
	// StoreDriver is "sqlite3" (default, the app database) or "postgres".
	StoreDriver  string `toml:"store_driver"`
	StoreDSN     string `toml:"store_dsn"`
	SyncSchedule string `toml:"sync_schedule"`
	CalendarID   string `toml:"calendar_id"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Data:   Data{Dir: defaultDataDir()},
		UI:     UI{Theme: "nord", StartView: "board"},
		Log:    Log{Level: "info"},
		Notify: Notify{Enabled: true},
		Calendar: Calendar{
			RedirectURL:  DefaultRedirectURL,
			StoreDriver:  "sqlite3",
			SyncSchedule: DefaultSyncSchedule,
			CalendarID:   "primary",
		},
	}
}

// Path returns the config file location: FOCUSBOARD_CONFIG if set, else
// ~/.config/focusboard/config.toml.
func Path() (string, error) {
	if p := os.Getenv("FOCUSBOARD_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "focusboard", "config.toml"), nil
}

// Load reads path (or the default location when path is empty) on top of
// the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		applyEnv(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.Data.Dir = expandHome(strings.TrimSpace(cfg.Data.Dir))
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = defaultDataDir()
	}
	if cfg.Calendar.RedirectURL == "" {
		cfg.Calendar.RedirectURL = DefaultRedirectURL
	}
	if cfg.Calendar.StoreDriver == "" {
		cfg.Calendar.StoreDriver = "sqlite3"
	}
	if cfg.Calendar.SyncSchedule == "" {
		cfg.Calendar.SyncSchedule = DefaultSyncSchedule
	}
	if cfg.Calendar.CalendarID == "" {
		cfg.Calendar.CalendarID = "primary"
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FOCUSBOARD_GOOGLE_CLIENT_ID"); v != "" {
		cfg.Calendar.ClientID = v
	}
	if v := os.Getenv("FOCUSBOARD_GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Calendar.ClientSecret = v
	}
	if v := os.Getenv("FOCUSBOARD_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".focusboard"
	}
	return filepath.Join(home, ".local", "share", "focusboard")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
