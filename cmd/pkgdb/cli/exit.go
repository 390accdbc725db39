// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"

	"github.com/packagedb/pkgdb-go/session"
)

// ExitError carries an explicit process exit code through the error
// return chain. Commands that need a specific status return it directly;
// everything else is classified by [ExitCodeFor].
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the process exit status.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// ExitCodeFor maps an error to a process exit status:
//
//	0   nil
//	2   invalid invocation (CategoryValidation)
//	4   subject not found (CategoryNotFound)
//	75  transient failure, retry may succeed (CategoryTransient,
//	    server errors)
//	77  permission or authentication failure (CategoryForbidden,
//	    authentication errors)
//	1   everything else
//
// Errors carrying an ExitCode() int method, such as [ExitError], use
// that code directly.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}

	var command *CommandError
	if errors.As(err, &command) {
		switch command.Category {
		case CategoryValidation:
			return 2
		case CategoryNotFound:
			return 4
		case CategoryTransient:
			return 75
		case CategoryForbidden:
			return 77
		}
		return 1
	}

	var auth *session.AuthError
	if errors.As(err, &auth) {
		return 77
	}

	var server *session.ServerError
	if errors.As(err, &server) {
		return 75
	}

	return 1
}
