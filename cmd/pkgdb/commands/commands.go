// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete pkgdb CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/packagedb/pkgdb-go/cmd/pkgdb/cli"
	"github.com/packagedb/pkgdb-go/lib/version"
)

// Root builds and returns the complete pkgdb CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "pkgdb",
		Description: `pkgdb: query and administer the Fedora package database.

Look up package ownership, ACLs, branches, and collections; with the
right privileges, create packages and branches or edit ACLs. Query
commands work anonymously, administrative commands need "pkgdb login"
or prompt for a password.`,
		Subcommands: []*cli.Command{
			cli.LoginCommand(),
			cli.LogoutCommand(),
			cli.InfoCommand(),
			cli.OwnersCommand(),
			cli.OrphansCommand(),
			cli.PackagesCommand(),
			cli.CollectionsCommand(),
			cli.UserPackagesCommand(),
			cli.CritpathCommand(),
			cli.ACLsCommand(),
			cli.BranchCommand(),
			cli.PackageCommand(),
			cli.RemoveUserCommand(),
			cli.SetCritpathCommand(),
			cli.CallCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("pkgdb %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Show everything the server knows about a package",
				Command:     "pkgdb info kernel",
			},
			{
				Description: "Show who owns a package on each branch",
				Command:     "pkgdb owners kernel",
			},
			{
				Description: "Authenticate and save a session",
				Command:     "pkgdb login jrandom",
			},
			{
				Description: "List the packages a user has access to",
				Command:     "pkgdb user-packages jrandom --acl owner",
			},
			{
				Description: "List orphaned packages as JSON",
				Command:     "pkgdb orphans --json",
			},
			{
				Description: "Branch a package for a new release",
				Command:     "pkgdb branch clone kernel F-13 devel",
			},
			{
				Description: "Call a server method the CLI has no wrapper for",
				Command:     "pkgdb call collections",
			},
		},
	}
}
