// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the pkgdb command's YAML configuration file.
//
// Configuration is optional: every command runs with built-in defaults
// when no file exists. The file is found through, in order:
//
//   - the PKGDB_CONFIG environment variable (via [Load]); pointing it
//     at a file that does not exist is an error
//   - an explicit path, usually from a --config flag (via [LoadFile])
//   - ~/.config/pkgdb/config.yaml, honoring XDG_CONFIG_HOME (via
//     [Load] when PKGDB_CONFIG is unset); a missing file here selects
//     the defaults silently
//
// Command-line flags override file values; the file overrides built-in
// defaults. Environment variables never override file values. The only
// expansion performed is ${VAR} and ${VAR:-default} in the session_file
// path, for portability of shared config files.
//
// A complete file:
//
//	server_url: https://admin.fedoraproject.org/pkgdb/
//	username: jrandom
//	session_file: ${HOME}/.config/pkgdb/session.json
//	timeout: 1m
//	debug: false
//
// This package depends on no other pkgdb packages.
package config
