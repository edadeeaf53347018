package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError collects multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// validate checks the config for internal consistency and returns a
// ValidationError if any checks fail. All checks run; errors are collected,
// not short-circuited.
func validate(cfg *Config) error {
	var errs []string

	// An empty server URL is allowed: the dashboard runs without a live feed.
	if cfg.Server.URL != "" {
		u, err := url.Parse(cfg.Server.URL)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("server.url %q is not a valid URL: %v", cfg.Server.URL, err))
		case u.Scheme != "http" && u.Scheme != "https":
			errs = append(errs, fmt.Sprintf("server.url %q must use http or https", cfg.Server.URL))
		case u.Host == "":
			errs = append(errs, fmt.Sprintf("server.url %q has no host", cfg.Server.URL))
		}
	}

	if !strings.HasPrefix(cfg.Server.EventsPath, "/") {
		errs = append(errs, fmt.Sprintf("server.events_path %q must start with \"/\"", cfg.Server.EventsPath))
	}

	switch cfg.UI.Theme {
	case "default", "light", "dark":
	default:
		errs = append(errs, fmt.Sprintf("ui.theme %q must be \"default\", \"light\", or \"dark\"", cfg.UI.Theme))
	}

	// Positive value checks
	if cfg.Server.RequestTimeout <= 0 {
		errs = append(errs, "server.request_timeout must be positive")
	}
	if cfg.UI.ConsoleScrollSpeed <= 0 {
		errs = append(errs, "ui.console_scroll_speed must be positive")
	}
	if cfg.Mock.Port <= 0 || cfg.Mock.Port > 65535 {
		errs = append(errs, fmt.Sprintf("mock.port %d must be between 1 and 65535", cfg.Mock.Port))
	}
	if cfg.Mock.Steps <= 0 {
		errs = append(errs, "mock.steps must be positive")
	}
	if cfg.Mock.StepIntervalMS <= 0 {
		errs = append(errs, "mock.step_interval_ms must be positive")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
