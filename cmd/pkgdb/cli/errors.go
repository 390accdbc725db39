// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies a command failure so the process can exit
// with a meaningful status code. Categories are coarse on purpose: they
// distinguish caller mistakes from server-side conditions, not one
// server response from another.
type ErrorCategory string

const (
	// CategoryValidation marks errors in the invocation itself: bad
	// flags, missing arguments, malformed parameter values.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound marks lookups whose subject does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden marks authentication and authorization
	// failures.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryTransient marks failures that may clear on retry, such
	// as network errors and server-side outages.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal marks bugs and unclassified failures.
	CategoryInternal ErrorCategory = "internal"
)

// CommandError attaches an [ErrorCategory] to an underlying error.
// [ExitCodeFor] maps the category to a process exit status. Use the
// category-specific constructors rather than constructing CommandError
// directly.
type CommandError struct {
	// Category classifies the error for exit status selection.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category is not part
// of the text; it surfaces as the process exit status instead.
func (e *CommandError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error, allowing errors.Is and errors.As
// to walk the full chain through the CommandError wrapper.
func (e *CommandError) Unwrap() error { return e.Err }

// Validation builds a [CategoryValidation] error.
func Validation(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound builds a [CategoryNotFound] error.
func NotFound(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden builds a [CategoryForbidden] error.
func Forbidden(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Transient builds a [CategoryTransient] error.
func Transient(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal builds a [CategoryInternal] error.
func Internal(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
