// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

// Pkgdb is the CLI for the Fedora package database. It provides
// subcommands for session management (login, logout), package and
// ownership queries (info, owners, packages, orphans, user-packages,
// critpath, collections, acls), administration (branch, package,
// remove-user, set-critpath), and raw server access (call).
package main
