package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	cfg, err := LoadFrom(tmp)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Server.URL != "http://127.0.0.1:9000" {
		t.Errorf("expected server url %q, got %q", "http://127.0.0.1:9000", cfg.Server.URL)
	}
	if cfg.Server.EventsPath != "/events" {
		t.Errorf("expected events path %q, got %q", "/events", cfg.Server.EventsPath)
	}
	if cfg.Mock.Port != 9000 {
		t.Errorf("expected mock port 9000, got %d", cfg.Mock.Port)
	}
	if cfg.UI.ShowLiveInConsole == nil || !*cfg.UI.ShowLiveInConsole {
		t.Error("expected ShowLiveInConsole default to be true")
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	yaml := `
server:
  url: http://queue-bl1.example.org:8080
  request_timeout: 30
export:
  dir: /tmp/exports
mock:
  steps: 5
`
	os.WriteFile(filepath.Join(tmp, "qmon.yaml"), []byte(yaml), 0644)

	cfg, err := LoadFrom(tmp)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Server.URL != "http://queue-bl1.example.org:8080" {
		t.Errorf("expected server url override, got %q", cfg.Server.URL)
	}
	if cfg.Server.RequestTimeout != 30 {
		t.Errorf("expected request timeout 30, got %d", cfg.Server.RequestTimeout)
	}
	if cfg.Export.Dir != "/tmp/exports" {
		t.Errorf("expected export dir override, got %q", cfg.Export.Dir)
	}
	if cfg.Mock.Steps != 5 {
		t.Errorf("expected mock steps 5, got %d", cfg.Mock.Steps)
	}
	if cfg.Server.EventsPath != "/events" {
		t.Errorf("expected events path preserved, got %q", cfg.Server.EventsPath)
	}
}

func TestLoadFromTOMLFile(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	toml := `
[server]
url = "https://queue-bl2.example.org"
events_path = "/api/events"

[ui]
theme = "dark"
show_live_in_console = false
`
	os.WriteFile(filepath.Join(tmp, "qmon.toml"), []byte(toml), 0644)

	cfg, err := LoadFrom(tmp)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Server.URL != "https://queue-bl2.example.org" {
		t.Errorf("expected server url from toml, got %q", cfg.Server.URL)
	}
	if cfg.Server.EventsPath != "/api/events" {
		t.Errorf("expected events path from toml, got %q", cfg.Server.EventsPath)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected theme dark, got %q", cfg.UI.Theme)
	}
	if cfg.UI.ShowLiveInConsole == nil || *cfg.UI.ShowLiveInConsole {
		t.Error("expected ShowLiveInConsole=false from toml")
	}
}

func TestYAMLWinsOverTOML(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	os.WriteFile(filepath.Join(tmp, "qmon.yaml"), []byte("export:\n  dir: from-yaml\n"), 0644)
	os.WriteFile(filepath.Join(tmp, "qmon.toml"), []byte("[export]\ndir = \"from-toml\"\n"), 0644)

	cfg, err := LoadFrom(tmp)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Export.Dir != "from-yaml" {
		t.Errorf("expected qmon.yaml to win discovery, got %q", cfg.Export.Dir)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	os.WriteFile(filepath.Join(tmp, "qmon.yaml"), []byte("server: [unclosed"), 0644)

	_, err := LoadFrom(tmp)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "parsing YAML") {
		t.Errorf("expected parse error, got: %v", err)
	}
}

func TestLoadFileValidationFailure(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "bad.yaml")

	os.WriteFile(path, []byte("server:\n  url: ftp://example.org\nmock:\n  port: 70000\n"), 0644)

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "server.url") || !strings.Contains(err.Error(), "mock.port") {
		t.Errorf("expected both failures reported, got: %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	os.WriteFile(filepath.Join(tmp, "qmon.yaml"), []byte(""), 0644)

	cfg, err := LoadFrom(tmp)
	if err != nil {
		t.Fatalf("LoadFrom() with empty file error: %v", err)
	}
	if cfg.Server.RequestTimeout != 10 {
		t.Errorf("expected defaults for empty file, got timeout %d", cfg.Server.RequestTimeout)
	}
}

func TestMergePreservesDefaults(t *testing.T) {
	t.Parallel()
	base := DefaultConfig()
	override := &Config{
		Export: ExportConfig{Dir: "/data"},
	}

	merge(&base, override)

	if base.Export.Dir != "/data" {
		t.Errorf("expected export dir %q, got %q", "/data", base.Export.Dir)
	}
	if base.Server.URL != "http://127.0.0.1:9000" {
		t.Errorf("expected server url preserved, got %q", base.Server.URL)
	}
	if base.Mock.StepIntervalMS != 250 {
		t.Errorf("expected step interval preserved as 250, got %d", base.Mock.StepIntervalMS)
	}
}

func TestMergeBoolPtrNilPreservesDefault(t *testing.T) {
	t.Parallel()
	base := DefaultConfig()
	merge(&base, &Config{})

	if base.UI.ShowLiveInConsole == nil || !*base.UI.ShowLiveInConsole {
		t.Error("expected nil override to preserve ShowLiveInConsole=true")
	}
}

func TestLogPathExplicit(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Log.File = "/var/log/qmon.log"
	if got := cfg.LogPath(); got != "/var/log/qmon.log" {
		t.Errorf("LogPath() = %q, want explicit file", got)
	}
}

func TestDiscoveryChain(t *testing.T) {
	// Uses t.Setenv so cannot be parallel
	homeDir := t.TempDir()
	projectDir := t.TempDir()

	userDir := filepath.Join(homeDir, ".config", "qmon")
	os.MkdirAll(userDir, 0755)
	os.WriteFile(filepath.Join(userDir, "config.toml"), []byte("[export]\ndir = \"user-level\"\n"), 0644)

	t.Setenv("HOME", homeDir)

	cfg, err := LoadFrom(projectDir)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Export.Dir != "user-level" {
		t.Errorf("expected user-level config, got %q", cfg.Export.Dir)
	}

	os.WriteFile(filepath.Join(projectDir, "qmon.yaml"), []byte("export:\n  dir: project-level\n"), 0644)
	cfg, err = LoadFrom(projectDir)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Export.Dir != "project-level" {
		t.Errorf("expected project-level config to win, got %q", cfg.Export.Dir)
	}
}

// Env override tests use t.Setenv, so they cannot be parallel.

func TestEnvOverrideServerURL(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("QMON_SERVER_URL", "http://localhost:9100")

	cfg, err := LoadFrom(tmp)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Server.URL != "http://localhost:9100" {
		t.Errorf("expected env override url, got %q", cfg.Server.URL)
	}
}

func TestEnvOverrideEmptyServerURLDisablesFeed(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("QMON_SERVER_URL", "")

	cfg, err := LoadFrom(tmp)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Server.URL != "" {
		t.Errorf("expected empty server url, got %q", cfg.Server.URL)
	}
}

func TestEnvOverrideRequestTimeout(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("QMON_REQUEST_TIMEOUT", "45")

	cfg, err := LoadFrom(tmp)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Server.RequestTimeout != 45 {
		t.Errorf("expected timeout 45, got %d", cfg.Server.RequestTimeout)
	}
}

func TestEnvOverrideInvalidInteger(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("QMON_MOCK_PORT", "notanumber")

	cfg, err := LoadFrom(tmp)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Mock.Port != 9000 {
		t.Errorf("expected invalid env to be ignored, got port %d", cfg.Mock.Port)
	}
}

func TestEnvOverrideExportDirAndLogFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("QMON_EXPORT_DIR", "/srv/exports")
	t.Setenv("QMON_LOG_FILE", "/tmp/qmon-test.log")

	cfg, err := LoadFrom(tmp)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Export.Dir != "/srv/exports" {
		t.Errorf("expected export dir override, got %q", cfg.Export.Dir)
	}
	if cfg.LogPath() != "/tmp/qmon-test.log" {
		t.Errorf("expected log file override, got %q", cfg.LogPath())
	}
}

func TestEventsURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		url, path, want string
	}{
		{"http://localhost:9000", "/events", "http://localhost:9000/events"},
		{"http://localhost:9000/", "/events", "http://localhost:9000/events"},
		{"https://q.example.org/api", "/stream", "https://q.example.org/api/stream"},
		{"", "/events", ""},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Server.URL = tt.url
		cfg.Server.EventsPath = tt.path
		if got := cfg.EventsURL(); got != tt.want {
			t.Errorf("EventsURL(%q, %q) = %q, want %q", tt.url, tt.path, got, tt.want)
		}
	}
}

func TestRequestTimeout(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Server.RequestTimeout = 3
	if got := cfg.RequestTimeout(); got != 3*time.Second {
		t.Errorf("RequestTimeout = %v", got)
	}
}
