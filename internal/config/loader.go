package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load discovers a config file, merges it with defaults, applies environment
// variable overrides, validates the result, and returns the final config.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return LoadFrom(cwd)
}

// LoadFrom loads config using the given directory as the starting point for
// file discovery. Load() calls it with os.Getwd().
func LoadFrom(dir string) (*Config, error) {
	path, err := discoverConfigPath(dir)
	if err != nil {
		return nil, fmt.Errorf("config discovery: %w", err)
	}
	return LoadFile(path)
}

// LoadFile loads an explicit config file. An empty path means defaults only.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		override, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		merge(&cfg, override)
	}

	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigPath searches the discovery chain and returns the first config
// file that exists. Returns empty string if none found (defaults-only mode).
func discoverConfigPath(dir string) (string, error) {
	candidates := []string{
		filepath.Join(dir, "qmon.yaml"),
		filepath.Join(dir, "qmon.toml"),
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", "qmon", "config.yaml"),
			filepath.Join(home, ".config", "qmon", "config.toml"),
		)
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// loadFromFile reads a YAML or TOML config file, chosen by extension.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	}

	return &cfg, nil
}

// merge deep-merges override onto base. Scalar fields override when non-zero.
// Pointer-to-bool fields override when non-nil.
func merge(base *Config, override *Config) {
	// Server
	if override.Server.URL != "" {
		base.Server.URL = override.Server.URL
	}
	if override.Server.EventsPath != "" {
		base.Server.EventsPath = override.Server.EventsPath
	}
	if override.Server.RequestTimeout != 0 {
		base.Server.RequestTimeout = override.Server.RequestTimeout
	}

	// UI
	if override.UI.Theme != "" {
		base.UI.Theme = override.UI.Theme
	}
	if override.UI.ShowLiveInConsole != nil {
		base.UI.ShowLiveInConsole = override.UI.ShowLiveInConsole
	}
	if override.UI.ConsoleScrollSpeed != 0 {
		base.UI.ConsoleScrollSpeed = override.UI.ConsoleScrollSpeed
	}

	if override.Export.Dir != "" {
		base.Export.Dir = override.Export.Dir
	}
	if override.Log.File != "" {
		base.Log.File = override.Log.File
	}

	// Mock server
	if override.Mock.Host != "" {
		base.Mock.Host = override.Mock.Host
	}
	if override.Mock.Port != 0 {
		base.Mock.Port = override.Mock.Port
	}
	if override.Mock.Steps != 0 {
		base.Mock.Steps = override.Mock.Steps
	}
	if override.Mock.StepIntervalMS != 0 {
		base.Mock.StepIntervalMS = override.Mock.StepIntervalMS
	}
	if override.Mock.Version != "" {
		base.Mock.Version = override.Mock.Version
	}

	if override.Update.Repo != "" {
		base.Update.Repo = override.Update.Repo
	}
}

// applyEnvOverrides applies QMON_* environment variables on top of the config.
func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("QMON_SERVER_URL"); ok {
		cfg.Server.URL = v
	}
	if v := os.Getenv("QMON_EVENTS_PATH"); v != "" {
		cfg.Server.EventsPath = v
	}
	if v := os.Getenv("QMON_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("QMON_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("QMON_REQUEST_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RequestTimeout = n
		} else {
			fmt.Fprintf(os.Stderr, "warning: QMON_REQUEST_TIMEOUT=%q is not a valid integer, ignoring\n", v)
		}
	}
	if v := os.Getenv("QMON_MOCK_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Mock.Port = n
		} else {
			fmt.Fprintf(os.Stderr, "warning: QMON_MOCK_PORT=%q is not a valid integer, ignoring\n", v)
		}
	}
}

// LogPath returns the diagnostic log destination. An empty log.file falls
// back to qmon.log under the user cache directory, or "" when that cannot be
// resolved.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qmon", "qmon.log")
}

// EventsURL joins the server URL and events path. It is empty when no
// server is configured.
func (c *Config) EventsURL() string {
	if c.Server.URL == "" {
		return ""
	}
	return strings.TrimRight(c.Server.URL, "/") + c.Server.EventsPath
}

// RequestTimeout is server.request_timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}
