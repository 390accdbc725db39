// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/packagedb/pkgdb-go/lib/netutil"
	"github.com/packagedb/pkgdb-go/lib/secret"
	"github.com/packagedb/pkgdb-go/lib/version"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root of every URL used to contact the server (e.g.
	// "https://admin.fedoraproject.org/pkgdb/"). Required.
	BaseURL string
	// Username identifies the account for authenticated calls. Optional —
	// a client without an identity can still make unauthenticated calls.
	Username string
	// Password authenticates Username. The buffer is read but never
	// closed; the caller retains ownership. Optional.
	Password *secret.Buffer
	// UserAgent is sent with every request. If empty, a default
	// identifying this library and its version is used.
	UserAgent string
	// Store persists session credentials across invocations. If nil, the
	// session lives only in memory.
	Store Store
	// HTTPClient is used for all requests. If nil, http.DefaultClient is
	// used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is
	// used.
	Logger *slog.Logger
}

// Client talks to one session-cookie-authenticated JSON web service.
//
// A Client holds at most one session credential in memory. Authenticate
// establishes it, Send attaches it to requests and renews it from
// Set-Cookie response headers, and the configured Store carries it across
// invocations. A Client is not safe for concurrent use — the credential
// mutates across calls.
type Client struct {
	baseURL    string
	username   string
	password   *secret.Buffer
	userAgent  string
	store      Store
	httpClient *http.Client
	logger     *slog.Logger

	credential *Credential
}

// NewClient creates a Client. No network I/O happens here: if the store
// holds a credential for the configured username it becomes the in-memory
// credential, otherwise the client starts unauthenticated.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("session: BaseURL is required")
	}

	// Validate the URL structure up front. Request URLs are built by
	// string concatenation — method paths arrive pre-encoded, and
	// round-tripping them through url.URL risks re-encoding.
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("session: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "pkgdb-go/" + version.Short()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/") + "/",
		username:   config.Username,
		password:   config.Password,
		userAgent:  userAgent,
		store:      config.Store,
		httpClient: httpClient,
		logger:     logger,
	}

	if client.store != nil && client.username != "" {
		credential, err := client.store.Load(client.username)
		switch {
		case err == nil:
			client.credential = credential
		case errors.Is(err, ErrNotFound):
			// No saved session; start unauthenticated.
		default:
			client.logger.Warn("could not load saved session",
				"username", client.username,
				"error", err,
			)
		}
	}

	return client, nil
}

// Username returns the username the client was configured with, or "" for
// an anonymous client.
func (c *Client) Username() string {
	return c.username
}

// Authenticate ensures the client holds a session credential and returns
// it. With force false this is a cache check: an existing in-memory
// credential is returned as-is, with no network traffic. With force true,
// or with no credential in memory, it performs the login exchange; the
// server either issues a fresh session cookie or the call fails with
// *AuthError.
//
// The returned credential is the client's own; callers must not modify it.
func (c *Client) Authenticate(ctx context.Context, force bool) (*Credential, error) {
	if !force && !c.credential.Empty() {
		return c.credential, nil
	}
	if c.username == "" {
		return nil, &AuthError{Message: "username must be set"}
	}
	if c.password == nil {
		return nil, &AuthError{Message: "password must be set"}
	}

	// The password leaves protected memory only here, as a form value
	// that lives for the duration of the request.
	form := url.Values{
		"user_name": {c.username},
		"password":  {c.password.String()},
		"login":     {"Login"},
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.requestURL("login"), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("session: creating login request: %w", err)
	}
	c.setHeaders(request)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if !c.credential.Empty() {
		// Send the old cookie along so the server can invalidate or
		// replace the session it belongs to.
		request.Header.Set("Cookie", c.credential.Header())
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &ServerError{Message: "login request failed", Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusForbidden {
		return nil, &AuthError{Message: "invalid username or password"}
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &ServerError{
			StatusCode: response.StatusCode,
			Message:    "unexpected response to login: " + netutil.ErrorBody(response.Body),
		}
	}

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, &ServerError{Message: "reading login response", Err: err}
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ServerError{
			Message: "login response is not JSON: " + netutil.Excerpt(body),
			Err:     err,
		}
	}

	// A "message" key is how the server says the credentials were wrong;
	// the HTTP status is still 200.
	if message, ok := payload["message"]; ok {
		return nil, &AuthError{Message: "unable to log in to server: " + fieldText(message)}
	}

	credential := &Credential{}
	if credential.MergeResponse(response) == 0 {
		return nil, &AuthError{Message: "server did not send back a session cookie"}
	}

	if c.store != nil {
		if err := c.store.Save(c.username, credential); err != nil {
			// The session just works without persistence; the next
			// invocation will have to log in again.
			c.logger.Warn("could not save session",
				"username", c.username,
				"error", err,
			)
		}
	}
	c.credential = credential

	c.logger.Info("authenticated", "username", c.username)
	return credential, nil
}

// Send calls a server method and returns the raw JSON response body for
// the caller to unmarshal.
//
// path is the method's URL fragment under the base URL; leading slashes
// are tolerated. When params is non-nil the request is a form-encoded
// POST, otherwise a GET. With auth true the call carries an authenticated
// session credential, logging in first when necessary. With auth false an
// existing credential is still attached so the server can associate the
// traffic with its session, but none is established.
//
// A session the server reports as expired — an HTTP 403, or a
// "logging_in" key in the decoded payload — is re-established and the
// call replayed exactly once; a second expiry fails with *AuthError.
// Payloads carrying an "exc" key fail with *AppError; transport failures
// and non-JSON bodies fail with *ServerError.
func (c *Client) Send(ctx context.Context, path string, auth bool, params url.Values) ([]byte, error) {
	return c.send(ctx, path, auth, params, false)
}

// send is Send with the retry budget made explicit: the replay after a
// forced re-authentication runs with retried=true and is never replayed
// again.
func (c *Client) send(ctx context.Context, path string, auth bool, params url.Values, retried bool) ([]byte, error) {
	method := http.MethodGet
	var bodyReader io.Reader
	if params != nil {
		method = http.MethodPost
		bodyReader = strings.NewReader(params.Encode())
	}

	request, err := http.NewRequestWithContext(ctx, method, c.requestURL(path), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("session: creating request for %s: %w", path, err)
	}
	c.setHeaders(request)
	if params != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	if auth {
		credential, err := c.Authenticate(ctx, false)
		if err != nil {
			return nil, err
		}
		request.Header.Set("Cookie", credential.Header())
	} else if !c.credential.Empty() {
		// Not needed for this call, but it lets the server tie the
		// request to the visit.
		request.Header.Set("Cookie", c.credential.Header())
	}

	c.logger.Debug("sending request",
		"method", method,
		"path", path,
		"auth", auth,
		"retried", retried,
	)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &ServerError{Message: fmt.Sprintf("request for %s failed", path), Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusForbidden {
		return c.resend(ctx, path, auth, params, retried, "server returned 403")
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &ServerError{
			StatusCode: response.StatusCode,
			Message:    fmt.Sprintf("unexpected response for %s: %s", path, netutil.ErrorBody(response.Body)),
		}
	}

	// The server renews sliding sessions by setting the cookie again on
	// ordinary responses. Absence of a Set-Cookie header is the normal
	// case, not an error.
	if !c.credential.Empty() {
		c.credential.MergeResponse(response)
	}

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, &ServerError{Message: "reading response body", Err: err}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ServerError{
			Message: fmt.Sprintf("response for %s is not JSON: %s", path, netutil.Excerpt(body)),
			Err:     err,
		}
	}

	// The protocol's two in-band signals only ever appear in object
	// payloads; arrays and scalars are plain results.
	fields, _ := payload.(map[string]any)

	if name, ok := fields["exc"]; ok {
		return nil, &AppError{
			Name:    fieldText(name),
			Message: fieldText(fields["tg_flash"]),
		}
	}

	// "logging_in" is the login page rendered as JSON: the HTTP exchange
	// succeeded but the session is gone.
	if _, ok := fields["logging_in"]; ok {
		return c.resend(ctx, path, auth, params, retried, "session expired")
	}

	return body, nil
}

// resend re-establishes the session and replays the call once. A replayed
// call that expires again is an invariant violation — Authenticate fails
// loudly on bad credentials, so the server is issuing sessions it will
// not honor — and fails with *AuthError instead of retrying further.
func (c *Client) resend(ctx context.Context, path string, auth bool, params url.Values, retried bool, cause string) ([]byte, error) {
	if retried {
		c.logger.Error("session invalid after re-authentication",
			"path", path,
			"cause", cause,
		)
		return nil, &AuthError{Message: fmt.Sprintf("unable to establish a working session for %s: %s", path, cause)}
	}

	c.logger.Debug("re-authenticating", "path", path, "cause", cause)
	if _, err := c.Authenticate(ctx, true); err != nil {
		return nil, err
	}
	return c.send(ctx, path, auth, params, true)
}

// Logout ends the server-side session. An *AuthError is swallowed — a
// client that cannot authenticate has no server-side session to end —
// but other errors propagate. The in-memory credential is kept; the
// server has invalidated it, and the next authenticated call will mint a
// fresh one.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.Send(ctx, "logout", true, nil); err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			c.logger.Debug("logout without a session", "error", err)
			return nil
		}
		return fmt.Errorf("session: logout failed: %w", err)
	}
	return nil
}

// requestURL builds the URL for a server method: the base URL, the path
// with leading slashes stripped, and the JSON format marker.
func (c *Client) requestURL(path string) string {
	return c.baseURL + strings.TrimLeft(path, "/") + "?tg_format=json"
}

// setHeaders applies the headers every request carries. The server labels
// its JSON responses text/javascript, and that is the accept type it
// expects from clients.
func (c *Client) setHeaders(request *http.Request) {
	request.Header.Set("User-Agent", c.userAgent)
	request.Header.Set("Accept", "text/javascript")
}

// fieldText renders a decoded JSON field value for use in an error
// message. The protocol's error fields are strings in practice; anything
// else is formatted as-is.
func fieldText(value any) string {
	if value == nil {
		return ""
	}
	if text, ok := value.(string); ok {
		return text
	}
	return fmt.Sprint(value)
}
