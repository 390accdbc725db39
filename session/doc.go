// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

// Package session implements the session-cookie authentication and JSON
// request protocol spoken by the package database and its sibling web
// services.
//
// The package provides one core type. [Client] holds the service base URL,
// an optional identity (username plus password in mmap-backed
// secret.Buffer memory), and at most one in-memory session credential.
// [Client.Send] is the request primitive: it calls a server method by URL
// fragment, form-encodes any parameters, attaches the session cookie, and
// interprets the JSON response. [Client.Authenticate] performs the login
// exchange that mints the credential.
//
// The protocol's defining behavior is transparent session recovery. When
// the server reports an expired session, either as an HTTP 403 or as a
// "logging_in" key inside an otherwise successful JSON response, Send
// re-authenticates and replays the call exactly once. A second expiry on
// the replayed call fails with [*AuthError] rather than retrying again;
// Authenticate fails loudly on bad credentials, so reaching that state
// means the server is issuing sessions it will not honor.
//
// Credentials outlive a process through a [Store]. [FileStore] keeps one
// JSON record for all usernames at a well-known path with owner-only
// permissions; [MemoryStore] serves tests and ephemeral clients. Store
// failures never fail an operation: unreadable records degrade to "no
// saved session" and unwritable ones to a logged warning.
//
// Errors are typed. [*AuthError] means the session could not be
// established or kept, [*ServerError] means the transport or the response
// body was broken, and [*AppError] carries a structured application error
// the server reported inside a successful HTTP response. [IsAppError]
// tests for a specific application error by name. Request URLs are built
// by string concatenation rather than url.URL so pre-encoded path
// fragments pass through untouched.
//
// A Client is not safe for concurrent use: the in-memory credential
// mutates across calls.
package session
