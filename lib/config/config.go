// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTimeout bounds each server call when neither the config file
// nor the flags set one.
const DefaultTimeout = 30 * time.Second

// Config is the pkgdb command's configuration.
type Config struct {
	// ServerURL is the root of the PackageDB instance to talk to.
	// Default: https://admin.fedoraproject.org/pkgdb/
	ServerURL string `yaml:"server_url"`

	// Username is the account used for authenticated calls. Empty means
	// anonymous until a --username flag or login provides one.
	Username string `yaml:"username"`

	// SessionFile is where session cookies are persisted between
	// invocations. Empty selects the session store's own default,
	// ~/.config/pkgdb/session.json.
	SessionFile string `yaml:"session_file"`

	// Timeout bounds each server call, in time.ParseDuration syntax.
	// Default: 30s
	Timeout string `yaml:"timeout"`

	// Debug enables request-level logging.
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration, used as the base before a
// config file is merged in. Unlike most deployments of this pattern the
// file is not required: Default alone is a working configuration,
// pointed at the Fedora project's PackageDB instance.
func Default() *Config {
	return &Config{
		ServerURL: "https://admin.fedoraproject.org/pkgdb/",
		Timeout:   "30s",
	}
}

// DefaultPath returns the config file path used when PKGDB_CONFIG is
// unset: ~/.config/pkgdb/config.yaml, honoring XDG_CONFIG_HOME. Returns
// "" when no home directory can be determined.
func DefaultPath() string {
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "pkgdb", "config.yaml")
}

// Load loads configuration from the PKGDB_CONFIG environment variable,
// falling back to [DefaultPath]. PKGDB_CONFIG naming a missing file is
// an error; a missing file at the default path is not, and yields
// [Default].
func Load() (*Config, error) {
	if path := os.Getenv("PKGDB_CONFIG"); path != "" {
		return LoadFile(path)
	}

	path := DefaultPath()
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path, merging the file's values
// over [Default]. The file is the single source of truth: environment
// variables do not override its values. The only expansion performed is
// ${VAR} and ${VAR:-default} in the session_file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.SessionFile = expandVars(cfg.SessionFile)

	return cfg, nil
}

// expandVars expands ${VAR} and ${VAR:-default} patterns against the
// environment. A variable that is unset or empty expands to its default,
// or to "" without one.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors. Empty fields are valid:
// each one falls back to a built-in default downstream.
func (c *Config) Validate() error {
	var errs []error

	if c.ServerURL != "" {
		parsed, err := url.Parse(c.ServerURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("server_url: %w", err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errs = append(errs, fmt.Errorf("server_url must be http or https, got %q", c.ServerURL))
		}
	}

	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("timeout: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// TimeoutDuration parses the Timeout field, treating empty as
// [DefaultTimeout].
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout: %w", err)
	}
	return duration, nil
}
