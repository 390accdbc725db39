// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package pkgdb

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/packagedb/pkgdb-go/lib/secret"
	"github.com/packagedb/pkgdb-go/lib/version"
	"github.com/packagedb/pkgdb-go/session"
)

// DefaultBaseURL is the Fedora project's PackageDB instance, used when no
// other URL is configured.
const DefaultBaseURL = "https://admin.fedoraproject.org/pkgdb/"

// Config holds configuration for creating a Client. The zero value is
// usable: it points at [DefaultBaseURL] as an anonymous client.
type Config struct {
	// BaseURL is the root of the PackageDB instance. Defaults to
	// DefaultBaseURL.
	BaseURL string
	// Username identifies the account for authenticated calls.
	Username string
	// Password authenticates Username. The buffer is read but never
	// closed; the caller retains ownership.
	Password *secret.Buffer
	// UserAgent overrides the default agent string.
	UserAgent string
	// Store persists session credentials across invocations. If nil, the
	// session lives only in memory.
	Store session.Store
	// HTTPClient is used for all requests. If nil, http.DefaultClient is
	// used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is
	// used.
	Logger *slog.Logger
}

// Client talks to one PackageDB instance.
type Client struct {
	session *session.Client

	// branches caches the server's branch table, keyed by branch
	// shortname. Populated on first use, refreshed on request.
	branches map[string]Collection
}

// NewClient creates a PackageDB client. No network I/O happens until the
// first call.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "Fedora PackageDB Client/" + version.Short()
	}

	sessionClient, err := session.NewClient(session.Config{
		BaseURL:    baseURL,
		Username:   config.Username,
		Password:   config.Password,
		UserAgent:  userAgent,
		Store:      config.Store,
		HTTPClient: config.HTTPClient,
		Logger:     config.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Client{session: sessionClient}, nil
}

// Username returns the username the client was configured with, or "" for
// an anonymous client.
func (c *Client) Username() string {
	return c.session.Username()
}

// Authenticate establishes a session with the server. With force false an
// existing session is reused; with force true the server issues a fresh
// one. Most callers never need this: authenticated methods log in on
// demand. It exists for front ends that want to validate credentials as
// their own step.
func (c *Client) Authenticate(ctx context.Context, force bool) error {
	_, err := c.session.Authenticate(ctx, force)
	return err
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Logout(ctx)
}

// Send calls a server method directly and returns the raw JSON response.
// It is the escape hatch for server methods this package has no wrapper
// for; see [session.Client.Send] for the semantics.
func (c *Client) Send(ctx context.Context, path string, auth bool, params url.Values) ([]byte, error) {
	return c.session.Send(ctx, path, auth, params)
}

// checkLegacyStatus translates the server's older error convention: some
// methods report failure with a false "status" key in a 200 response, the
// error text under "message". Returns nil for payloads that are not
// objects or carry no status key.
func checkLegacyStatus(body []byte) error {
	var envelope struct {
		Status  *bool  `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	if envelope.Status != nil && !*envelope.Status {
		return &session.AppError{Name: "PackageDBError", Message: envelope.Message}
	}
	return nil
}
