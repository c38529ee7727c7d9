package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("FOCUSBOARD_DATA_DIR", "")
	t.Setenv("FOCUSBOARD_GOOGLE_CLIENT_ID", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Notify.Enabled {
		t.Error("notifications disabled by default")
	}
	if cfg.Calendar.RedirectURL != DefaultRedirectURL {
		t.Errorf("redirect = %q", cfg.Calendar.RedirectURL)
	}
	if !strings.HasSuffix(cfg.Data.Dir, filepath.Join(".local", "share", "focusboard")) {
		t.Errorf("data dir = %q", cfg.Data.Dir)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("FOCUSBOARD_DATA_DIR", "")
	t.Setenv("FOCUSBOARD_GOOGLE_CLIENT_ID", "")
	path := writeConfig(t, `
[data]
dir = "/tmp/fb"

[ui]
theme = "dracula"

[notify]
enabled = false

[window]
compact_command = "wmctrl -r :ACTIVE: -e 0,0,0,420,900"

[calendar]
client_id = "abc"
store_driver = "postgres"
store_dsn = "postgres://localhost/focus"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Dir != "/tmp/fb" {
		t.Errorf("data dir = %q", cfg.Data.Dir)
	}
	if cfg.UI.Theme != "dracula" || cfg.UI.StartView != "board" {
		t.Errorf("ui = %+v", cfg.UI)
	}
	if cfg.Notify.Enabled {
		t.Error("notify.enabled = false ignored")
	}
	if cfg.Window.CompactCommand == "" || cfg.Window.RestoreCommand != "" {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Calendar.ClientID != "abc" || cfg.Calendar.StoreDriver != "postgres" {
		t.Errorf("calendar = %+v", cfg.Calendar)
	}
	if cfg.Calendar.SyncSchedule != DefaultSyncSchedule {
		t.Errorf("sync schedule = %q", cfg.Calendar.SyncSchedule)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, "[ui\ntheme=")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FOCUSBOARD_GOOGLE_CLIENT_ID", "from-env")
	t.Setenv("FOCUSBOARD_GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("FOCUSBOARD_DATA_DIR", "/data")
	path := writeConfig(t, "[calendar]\nclient_id = \"from-file\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Calendar.ClientID != "from-env" || cfg.Calendar.ClientSecret != "secret" {
		t.Errorf("calendar = %+v", cfg.Calendar)
	}
	if cfg.Data.Dir != "/data" {
		t.Errorf("data dir = %q", cfg.Data.Dir)
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("FOCUSBOARD_CONFIG", "/etc/fb.toml")
	p, err := Path()
	if err != nil || p != "/etc/fb.toml" {
		t.Errorf("Path = %q, %v", p, err)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/u")
	if got := expandHome("~/fb"); got != "/home/u/fb" {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Errorf("expandHome = %q", got)
	}
}
