// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
)

// AuthError reports that an authenticated session could not be established
// or kept: the client configuration is missing a username or password, the
// server refused the login, the login response carried no session cookie,
// or a session was still invalid after the dispatcher's single retry.
// Callers can use errors.As to react specifically (for example, by
// prompting for a fresh password):
//
//	var authErr *session.AuthError
//	if errors.As(err, &authErr) { ... }
type AuthError struct {
	// Message is the human-readable reason authentication failed.
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("session: authentication failed: %s", e.Message)
}

// ServerError reports a failure below the application protocol: the server
// was unreachable, answered with an unexpected HTTP status, or returned a
// body that is not valid JSON (a load balancer's HTML error page, for
// instance).
type ServerError struct {
	// StatusCode is the HTTP status of the response, or zero when the
	// failure happened before a status arrived (connection errors) or
	// after a 2xx (undecodable body).
	StatusCode int
	// Message describes the failure, including a body excerpt when the
	// server sent one.
	Message string
	// Err is the underlying cause, when one exists.
	Err error
}

func (e *ServerError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("session: server error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("session: server error: %s", e.Message)
}

func (e *ServerError) Unwrap() error { return e.Err }

// AppError is a structured application-level error the server reports
// inside an otherwise successful HTTP response: the payload's "exc" key
// names the server-side exception and "tg_flash" carries the
// human-readable message. Transport worked, authentication worked, the
// specific request was rejected.
type AppError struct {
	// Name is the machine-readable exception name (e.g. "PackageDBError").
	Name string
	// Message is the human-readable description from the server.
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("session: %s: %s", e.Name, e.Message)
}

// IsAppError checks whether err is an *AppError with the given exception name.
func IsAppError(err error, name string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Name == name
	}
	return false
}
