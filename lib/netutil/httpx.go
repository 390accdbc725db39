// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP response I/O helpers shared by the client
// packages.
//
// All body reads are bounded at MaxResponseSize so a misbehaving server
// cannot make the client allocate without limit. The helpers target JSON
// API responses; streaming or bulk downloads should be read incrementally
// instead.
package netutil

import (
	"io"
	"strings"
	"unicode/utf8"
)

// MaxResponseSize is the bound on response body reads: 256 MB. The ACL
// dump endpoints return multi-megabyte payloads, so the bound is generous;
// it exists only to stop a pathological response from exhausting memory,
// never to interfere with normal operation.
const MaxResponseSize int64 = 256 << 20

// MaxExcerptSize is how much of a response body Excerpt and ErrorBody keep
// for inclusion in an error message.
const MaxExcerptSize = 512

// ReadResponse reads a response body up to MaxResponseSize bytes. Use
// instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an HTTP error response body and returns an excerpt for
// diagnostic error messages. Read errors are silently ignored — a partial
// or empty body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return Excerpt(data)
}

// Excerpt condenses a response body for an error message: whitespace runs
// collapse to single spaces and anything beyond MaxExcerptSize bytes is
// cut at a rune boundary and marked with an ellipsis. Error bodies are
// often whole HTML pages; the first half-kilobyte identifies the failure
// without drowning the log line.
func Excerpt(body []byte) string {
	condensed := strings.Join(strings.Fields(string(body)), " ")
	if len(condensed) <= MaxExcerptSize {
		return condensed
	}
	cut := MaxExcerptSize
	for cut > 0 && !utf8.RuneStart(condensed[cut]) {
		cut--
	}
	return condensed[:cut] + "..."
}
