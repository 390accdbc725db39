// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command framework for the pkgdb command line
// tool: the [Command] tree with dispatch and help output, declarative
// flag binding from struct tags ([BindFlags]), categorized command
// errors that map to exit codes ([CommandError], [ExitCodeFor]), JSON
// output support ([JSONOutput]), and the shared [ClientConfig] flags
// that resolve a command's connection to a PackageDB server from flags,
// the config file, and built-in defaults.
//
// Commands live in the commands package; this package is the plumbing
// they share.
package cli
