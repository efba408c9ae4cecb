// Package config loads server settings from an optional docnav.yaml in
// the project root, overridden by environment variables. A .env file in
// the working directory is honored for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"docnav/internal/markup"
	"docnav/internal/watcher"
)

// Config holds all tunable server settings.
type Config struct {
	// EnableWebserver starts the read-only HTTP API alongside the MCP
	// stdio transport.
	EnableWebserver bool `yaml:"enable_webserver"`

	// WebserverPortBase is the first port tried for the HTTP API; the
	// next 19 ports are probed if it is taken.
	WebserverPortBase int `yaml:"webserver_port_base"`

	// MaxIncludeDepth limits include nesting during parsing.
	MaxIncludeDepth int `yaml:"max_include_depth"`

	// DebounceMS is the file watcher's event coalescing window.
	DebounceMS int `yaml:"debounce_ms"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		EnableWebserver:   false,
		WebserverPortBase: 8080,
		MaxIncludeDepth:   markup.DefaultMaxIncludeDepth,
		DebounceMS:        int(watcher.DefaultDebounce / time.Millisecond),
	}
}

// Load assembles the configuration for a project: defaults, then
// docnav.yaml from the project root if present, then environment
// variables. A missing yaml file is fine; a malformed one is an error.
func Load(projectRoot string) (Config, error) {
	// Best effort: a .env is a development convenience, not required.
	_ = godotenv.Load()

	cfg := Default()

	path := filepath.Join(projectRoot, "docnav.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if v := os.Getenv("ENABLE_WEBSERVER"); v != "" {
		cfg.EnableWebserver = isTruthy(v)
	}
	if v := os.Getenv("WEBSERVER_PORT_BASE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 65535 {
			return cfg, fmt.Errorf("WEBSERVER_PORT_BASE: invalid port %q", v)
		}
		cfg.WebserverPortBase = n
	}
	if v := os.Getenv("DOCNAV_MAX_INCLUDE_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("DOCNAV_MAX_INCLUDE_DEPTH: invalid value %q", v)
		}
		cfg.MaxIncludeDepth = n
	}
	if v := os.Getenv("DOCNAV_DEBOUNCE_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("DOCNAV_DEBOUNCE_MS: invalid value %q", v)
		}
		cfg.DebounceMS = n
	}

	if cfg.MaxIncludeDepth < 1 {
		cfg.MaxIncludeDepth = markup.DefaultMaxIncludeDepth
	}
	return cfg, nil
}

// Debounce returns the watcher coalescing window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// isTruthy accepts the usual spellings of an enabled flag.
func isTruthy(v string) bool {
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	}
	return false
}
