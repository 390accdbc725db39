// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"log/slog"
)

// --- info ---

// infoParams holds the parameters for the info command.
type infoParams struct {
	Client ClientConfig
	Branch string `flag:"branch,b" desc:"Limit to one branch (F-13, EL-5, devel)"`
}

// InfoCommand returns the "info" command: everything the server records
// about one package. The response shape varies with the server version,
// so the output is the server's JSON, indented, rather than a table.
func InfoCommand() *Command {
	var params infoParams

	return &Command{
		Name:    "info",
		Summary: "Show package details",
		Description: `Fetch the server's record of a package: description, status, and the
per-branch listings with their owners and ACLs. Output is the server's
JSON, indented.`,
		Usage: "pkgdb info <package> [flags]",
		Examples: []Example{
			{
				Description: "Show bash across all branches",
				Command:     "pkgdb info bash",
			},
			{
				Description: "Show bash on the F-13 branch only",
				Command:     "pkgdb info bash --branch F-13",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return Validation("package name required\n\nUsage: pkgdb info <package> [flags]")
			}
			if len(args) > 1 {
				return Validation("unexpected argument: %s", args[1])
			}

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			payload, err := connection.Client.PackageInfo(callCtx, args[0], params.Branch)
			if err != nil {
				return err
			}
			return WriteJSON(payload)
		},
	}
}

// --- owners ---

// ownersParams holds the parameters for the owners command.
type ownersParams struct {
	Client     ClientConfig
	Collection string `flag:"collection,c" desc:"Limit to one collection by name (Fedora, Fedora EPEL)"`
	Version    string `flag:"version" desc:"Limit to one collection version (requires --collection)"`
}

// OwnersCommand returns the "owners" command: the ownership and ACL
// records for one package, as the server's JSON.
func OwnersCommand() *Command {
	var params ownersParams

	return &Command{
		Name:    "owners",
		Summary: "Show who owns a package",
		Usage:   "pkgdb owners <package> [flags]",
		Examples: []Example{
			{
				Description: "Show bash ownership across all collections",
				Command:     "pkgdb owners bash",
			},
			{
				Description: "Show bash ownership on Fedora 13",
				Command:     "pkgdb owners bash --collection Fedora --version 13",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return Validation("package name required\n\nUsage: pkgdb owners <package> [flags]")
			}
			if len(args) > 1 {
				return Validation("unexpected argument: %s", args[1])
			}
			if params.Version != "" && params.Collection == "" {
				return Validation("--version requires --collection")
			}

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			payload, err := connection.Client.Owners(callCtx, args[0], params.Collection, params.Version)
			if err != nil {
				return err
			}
			return WriteJSON(payload)
		},
	}
}
