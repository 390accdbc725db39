// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/pflag"

	"github.com/packagedb/pkgdb-go/lib/config"
	"github.com/packagedb/pkgdb-go/lib/secret"
	"github.com/packagedb/pkgdb-go/pkgdb"
	"github.com/packagedb/pkgdb-go/session"
)

// ClientConfig carries the flags shared by every command that talks to
// a PackageDB server. Command parameter structs include it as a field;
// [BindFlags] detects the [FlagBinder] implementation and registers the
// flags below.
//
// Zero values mean "not specified": [ClientConfig.Connect] resolves
// each setting as flag, then config file, then built-in default.
type ClientConfig struct {
	ServerURL   string
	Username    string
	SessionFile string
	ConfigFile  string
	Timeout     time.Duration
	Debug       bool
}

// AddFlags implements [FlagBinder].
func (c *ClientConfig) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.ServerURL, "server", "",
		"PackageDB instance URL (default from config file, then "+pkgdb.DefaultBaseURL+")")
	flagSet.StringVarP(&c.Username, "username", "u", "",
		"Account for authenticated calls")
	flagSet.StringVar(&c.SessionFile, "session-file", "",
		"Session cookie record path (default ~/.config/pkgdb/session.json)")
	flagSet.StringVar(&c.ConfigFile, "config", "",
		"Config file path (default $PKGDB_CONFIG, then ~/.config/pkgdb/config.yaml)")
	flagSet.DurationVar(&c.Timeout, "timeout", 0,
		"Time limit per server call (default from config file, then 30s)")
	flagSet.BoolVar(&c.Debug, "debug", false,
		"Log every request sent to the server")
}

// Connection is an established command-to-server setup: the client,
// the store its sessions persist in, and the logger it reports through.
type Connection struct {
	Client *pkgdb.Client
	Store  *session.FileStore
	Logger *slog.Logger

	timeout time.Duration
}

// Connect resolves the configuration chain and builds the client.
// password may be nil; only the login command has one to offer. No
// network I/O happens here.
func (c *ClientConfig) Connect(password *secret.Buffer) (*Connection, error) {
	var cfg *config.Config
	var err error
	if c.ConfigFile != "" {
		cfg, err = config.LoadFile(c.ConfigFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, Validation("loading configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid configuration: %v", err)
	}

	serverURL := c.ServerURL
	if serverURL == "" {
		serverURL = cfg.ServerURL
	}
	username := c.Username
	if username == "" {
		username = cfg.Username
	}
	sessionFile := c.SessionFile
	if sessionFile == "" {
		sessionFile = cfg.SessionFile
	}
	if sessionFile == "" {
		sessionFile = session.DefaultStorePath()
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout, err = cfg.TimeoutDuration()
		if err != nil {
			return nil, Validation("invalid configuration: %v", err)
		}
	}

	logger := NewCommandLogger(c.Debug || cfg.Debug)
	store := session.NewFileStore(sessionFile)

	client, err := pkgdb.NewClient(pkgdb.Config{
		BaseURL:  serverURL,
		Username: username,
		Password: password,
		Store:    store,
		Logger:   logger,
	})
	if err != nil {
		return nil, Validation("%v", err)
	}

	return &Connection{
		Client:  client,
		Store:   store,
		Logger:  logger,
		timeout: timeout,
	}, nil
}

// Context derives a context bounded by the resolved per-call timeout.
// Callers must invoke the cancel function when the call returns.
func (c *Connection) Context(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, c.timeout)
}
