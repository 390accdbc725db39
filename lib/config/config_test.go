// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.ServerURL != "https://admin.fedoraproject.org/pkgdb/" {
		t.Errorf("ServerURL = %q, want the Fedora instance", cfg.ServerURL)
	}
	if cfg.Timeout != "30s" {
		t.Errorf("Timeout = %q, want 30s", cfg.Timeout)
	}
	if cfg.Username != "" {
		t.Errorf("Username = %q, want empty", cfg.Username)
	}
	if cfg.SessionFile != "" {
		t.Errorf("SessionFile = %q, want empty", cfg.SessionFile)
	}
	if cfg.Debug {
		t.Error("Debug = true, want false")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("uses PKGDB_CONFIG", func(t *testing.T) {
		path := writeConfig(t, "username: jrandom\n")
		t.Setenv("PKGDB_CONFIG", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Username != "jrandom" {
			t.Errorf("Username = %q, want jrandom", cfg.Username)
		}
	})

	t.Run("PKGDB_CONFIG naming a missing file fails", func(t *testing.T) {
		t.Setenv("PKGDB_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

		if _, err := Load(); err == nil {
			t.Fatal("expected error for explicitly configured missing file")
		}
	})

	t.Run("missing default path yields defaults", func(t *testing.T) {
		t.Setenv("PKGDB_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.ServerURL != Default().ServerURL {
			t.Errorf("ServerURL = %q, want default", cfg.ServerURL)
		}
	})

	t.Run("reads the default path when present", func(t *testing.T) {
		configHome := t.TempDir()
		t.Setenv("PKGDB_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", configHome)

		directory := filepath.Join(configHome, "pkgdb")
		if err := os.MkdirAll(directory, 0700); err != nil {
			t.Fatalf("creating config directory: %v", err)
		}
		content := "server_url: https://pkgdb.example.org/\n"
		if err := os.WriteFile(filepath.Join(directory, "config.yaml"), []byte(content), 0644); err != nil {
			t.Fatalf("writing config file: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.ServerURL != "https://pkgdb.example.org/" {
			t.Errorf("ServerURL = %q, want the configured instance", cfg.ServerURL)
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
server_url: https://pkgdb.example.org/
username: jrandom
session_file: /tmp/sessions.json
timeout: 2m
debug: true
`)

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if cfg.ServerURL != "https://pkgdb.example.org/" {
			t.Errorf("ServerURL = %q", cfg.ServerURL)
		}
		if cfg.Username != "jrandom" {
			t.Errorf("Username = %q", cfg.Username)
		}
		if cfg.SessionFile != "/tmp/sessions.json" {
			t.Errorf("SessionFile = %q", cfg.SessionFile)
		}
		if cfg.Timeout != "2m" {
			t.Errorf("Timeout = %q", cfg.Timeout)
		}
		if !cfg.Debug {
			t.Error("Debug = false, want true")
		}
	})

	t.Run("absent keys keep defaults", func(t *testing.T) {
		path := writeConfig(t, "username: jrandom\n")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if cfg.ServerURL != Default().ServerURL {
			t.Errorf("ServerURL = %q, want default", cfg.ServerURL)
		}
		if cfg.Timeout != "30s" {
			t.Errorf("Timeout = %q, want 30s", cfg.Timeout)
		}
	})

	t.Run("expands session_file", func(t *testing.T) {
		t.Setenv("HOME", "/home/test")
		path := writeConfig(t, "session_file: ${HOME}/.pkgdb/sessions.json\n")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if cfg.SessionFile != "/home/test/.pkgdb/sessions.json" {
			t.Errorf("SessionFile = %q, want HOME expanded", cfg.SessionFile)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("malformed YAML fails", func(t *testing.T) {
		path := writeConfig(t, "server_url: [not\n")

		if _, err := LoadFile(path); err == nil {
			t.Fatal("expected error for malformed YAML")
		}
	})
}

func TestExpandVars(t *testing.T) {
	t.Setenv("PKGDB_TEST_PRESENT", "value")
	t.Setenv("PKGDB_TEST_EMPTY", "")

	tests := []struct {
		input    string
		expected string
	}{
		{"${PKGDB_TEST_PRESENT}/sessions", "value/sessions"},
		{"${PKGDB_TEST_MISSING:-fallback}", "fallback"},
		{"${PKGDB_TEST_PRESENT:-fallback}", "value"},
		{"${PKGDB_TEST_EMPTY:-fallback}", "fallback"},
		{"${PKGDB_TEST_MISSING}", ""},
		{"no variables here", "no variables here"},
	}

	for _, test := range tests {
		if result := expandVars(test.input); result != test.expected {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, result, test.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "empty fields",
			modify: func(c *Config) {
				c.ServerURL = ""
				c.Timeout = ""
			},
			wantErr: false,
		},
		{
			name: "server_url without scheme",
			modify: func(c *Config) {
				c.ServerURL = "admin.fedoraproject.org/pkgdb/"
			},
			wantErr: true,
		},
		{
			name: "server_url with wrong scheme",
			modify: func(c *Config) {
				c.ServerURL = "ftp://admin.fedoraproject.org/pkgdb/"
			},
			wantErr: true,
		},
		{
			name: "unparsable timeout",
			modify: func(c *Config) {
				c.Timeout = "banana"
			},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, test.wantErr)
			}
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		cfg := Default()
		cfg.ServerURL = "ftp://example.org/"
		cfg.Timeout = "banana"

		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected validation errors")
		}
		message := err.Error()
		if !strings.Contains(message, "server_url") || !strings.Contains(message, "timeout") {
			t.Errorf("error %q should mention both server_url and timeout", message)
		}
	})
}

func TestTimeoutDuration(t *testing.T) {
	cfg := Default()
	duration, err := cfg.TimeoutDuration()
	if err != nil {
		t.Fatalf("TimeoutDuration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("duration = %v, want 30s", duration)
	}

	cfg.Timeout = ""
	duration, err = cfg.TimeoutDuration()
	if err != nil {
		t.Fatalf("TimeoutDuration with empty field: %v", err)
	}
	if duration != DefaultTimeout {
		t.Errorf("duration = %v, want DefaultTimeout", duration)
	}

	cfg.Timeout = "2m"
	duration, err = cfg.TimeoutDuration()
	if err != nil {
		t.Fatalf("TimeoutDuration: %v", err)
	}
	if duration != 2*time.Minute {
		t.Errorf("duration = %v, want 2m", duration)
	}

	cfg.Timeout = "banana"
	if _, err := cfg.TimeoutDuration(); err == nil {
		t.Error("expected error for unparsable timeout")
	}
}
