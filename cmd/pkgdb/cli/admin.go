// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/packagedb/pkgdb-go/pkgdb"
)

// The commands in this file drive the privileged dispatcher operations.
// They all authenticate, so they prompt for a password unless a saved
// session is still live.

// --- branch ---

// BranchCommand returns the "branch" command group.
func BranchCommand() *Command {
	return &Command{
		Name:    "branch",
		Summary: "Create package branches",
		Description: `Create branches for new releases, either one package at a time or
for the whole database at once. Both operations require cvsadmin
privileges on the server.`,
		Subcommands: []*Command{
			branchCloneCommand(),
			branchMassCommand(),
		},
		Examples: []Example{
			{
				Description: "Branch kernel for Fedora 13 from devel",
				Command:     "pkgdb branch clone kernel F-13 devel",
			},
			{
				Description: "Branch every unblocked package for Fedora 13",
				Command:     "pkgdb branch mass F-13",
			},
		},
	}
}

// branchCloneParams holds the parameters for the branch clone command.
type branchCloneParams struct {
	Client     ClientConfig
	NoEmailLog bool `flag:"no-email-log" desc:"Do not email the results of the branching"`
}

func branchCloneCommand() *Command {
	var params branchCloneParams

	return &Command{
		Name:    "clone",
		Summary: "Branch one package from an existing branch",
		Usage:   "pkgdb branch clone <package> <branch> <master> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 3 {
				return Validation("expected <package> <branch> <master>\n\nUsage: pkgdb branch clone <package> <branch> <master> [flags]")
			}
			pkg, branch, master := args[0], args[1], args[2]

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			if err := connection.Client.CloneBranch(callCtx, pkg, branch, master, !params.NoEmailLog); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Branched %s %s from %s\n", pkg, branch, master)
			return nil
		},
	}
}

// branchMassParams holds the parameters for the branch mass command.
type branchMassParams struct {
	Client ClientConfig
}

func branchMassCommand() *Command {
	var params branchMassParams

	return &Command{
		Name:    "mass",
		Summary: "Branch every unblocked package for a new release",
		Description: `Ask the server to branch every package that builds on devel for a
new release. The server runs the branching in the background and
mails the requester when it finishes, including any failures.`,
		Usage:  "pkgdb branch mass <branch> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return Validation("expected exactly one branch\n\nUsage: pkgdb branch mass <branch> [flags]")
			}

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			if err := connection.Client.MassBranch(callCtx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Mass branching to %s started. The server mails the results when it finishes.\n", args[0])
			return nil
		},
	}
}

// --- package ---

// PackageCommand returns the "package" command group.
func PackageCommand() *Command {
	return &Command{
		Name:    "package",
		Summary: "Create and edit packages",
		Description: `Create new packages and edit existing ones: the owner, the summary,
the branches, and the watcher and comaintainer lists. Requires
cvsadmin privileges on the server.`,
		Subcommands: []*Command{
			packageAddCommand(),
			packageEditCommand(),
		},
		Examples: []Example{
			{
				Description: "Create a package owned by jrandom with an F-13 branch",
				Command:     "pkgdb package add rust-widget --owner jrandom --summary 'A widget' --branch F-13",
			},
			{
				Description: "Add a comaintainer on every branch of an existing package",
				Command:     "pkgdb package edit rust-widget --comaintainer jdoe",
			},
		},
	}
}

// packageEditParams holds the parameters shared by package add and
// package edit; both build the same kind of change set.
type packageEditParams struct {
	Client        ClientConfig
	Owner         string   `flag:"owner,o" desc:"Username that owns the package"`
	Summary       string   `flag:"summary" desc:"One line description of the package"`
	Branches      []string `flag:"branch,b" desc:"Branch shortname the change applies to (repeatable)"`
	CCList        []string `flag:"cc" desc:"Username to put on watch (repeatable)"`
	Comaintainers []string `flag:"comaintainer" desc:"Username to grant comaintainer ACLs (repeatable)"`
	Groups        []string `flag:"group" desc:"Group to grant commit access (repeatable)"`
}

// edit converts the flag values into the client's change set.
func (p *packageEditParams) edit() pkgdb.PackageEdit {
	return pkgdb.PackageEdit{
		Owner:         p.Owner,
		Description:   p.Summary,
		Branches:      p.Branches,
		CCList:        p.CCList,
		Comaintainers: p.Comaintainers,
		Groups:        p.Groups,
	}
}

// empty reports whether no change was requested at all.
func (p *packageEditParams) empty() bool {
	return p.Owner == "" && p.Summary == "" &&
		len(p.Branches) == 0 && len(p.CCList) == 0 &&
		len(p.Comaintainers) == 0 && len(p.Groups) == 0
}

func packageAddCommand() *Command {
	var params packageEditParams

	return &Command{
		Name:    "add",
		Summary: "Create a new package",
		Usage:   "pkgdb package add <package> --owner <username> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return Validation("expected exactly one package name\n\nUsage: pkgdb package add <package> --owner <username> [flags]")
			}
			if params.Owner == "" {
				return Validation("--owner is required when creating a package")
			}

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			if err := connection.Client.AddPackage(callCtx, args[0], params.edit()); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Created package %s\n", args[0])
			return nil
		},
	}
}

func packageEditCommand() *Command {
	var params packageEditParams

	return &Command{
		Name:    "edit",
		Summary: "Edit an existing package",
		Usage:   "pkgdb package edit <package> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return Validation("expected exactly one package name\n\nUsage: pkgdb package edit <package> [flags]")
			}
			if params.empty() {
				return Validation("nothing to change (pass at least one of --owner, --summary, --branch, --cc, --comaintainer, --group)")
			}

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			if err := connection.Client.EditPackage(callCtx, args[0], params.edit()); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Updated package %s\n", args[0])
			return nil
		},
	}
}

// --- remove-user ---

// removeUserParams holds the parameters for the remove-user command.
type removeUserParams struct {
	Client      ClientConfig
	Collections []string `flag:"collection,c" desc:"Branch shortname to remove the user from (repeatable, default: all)"`
}

// RemoveUserCommand returns the "remove-user" command.
func RemoveUserCommand() *Command {
	var params removeUserParams

	return &Command{
		Name:    "remove-user",
		Summary: "Remove a user's ACLs from a package",
		Usage:   "pkgdb remove-user <username> <package> [flags]",
		Examples: []Example{
			{
				Description: "Remove jrandom from every branch of kernel",
				Command:     "pkgdb remove-user jrandom kernel",
			},
			{
				Description: "Remove jrandom from the F-13 branch only",
				Command:     "pkgdb remove-user jrandom kernel --collection F-13",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return Validation("expected <username> <package>\n\nUsage: pkgdb remove-user <username> <package> [flags]")
			}
			username, pkg := args[0], args[1]

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			if err := connection.Client.RemoveUser(callCtx, username, pkg, params.Collections); err != nil {
				return err
			}
			if len(params.Collections) > 0 {
				fmt.Fprintf(os.Stderr, "Removed %s from %s on %s\n", username, pkg, strings.Join(params.Collections, ", "))
			} else {
				fmt.Fprintf(os.Stderr, "Removed %s from %s\n", username, pkg)
			}
			return nil
		},
	}
}

// --- set-critpath ---

// setCritpathParams holds the parameters for the set-critpath command.
type setCritpathParams struct {
	Client      ClientConfig
	Packages    []string `flag:"package,p" desc:"Package to update (repeatable)"`
	Collections []string `flag:"collection,c" desc:"Branch shortname to update (repeatable, default: devel)"`
	Remove      bool     `flag:"remove" desc:"Take the packages off the critical path instead"`
	Reset       bool     `flag:"reset" desc:"Clear existing critical path flags on the collections first"`
}

// SetCritpathCommand returns the "set-critpath" command.
func SetCritpathCommand() *Command {
	var params setCritpathParams

	return &Command{
		Name:    "set-critpath",
		Summary: "Mark packages as critical path",
		Description: `Mark packages as critical path, or take them off it. With --reset
the collections' existing flags are cleared before the new ones are
applied, which makes the named packages the complete critical path
list. Requires admin privileges on the server.`,
		Usage: "pkgdb set-critpath [flags]",
		Examples: []Example{
			{
				Description: "Add kernel and glibc to the critical path on devel",
				Command:     "pkgdb set-critpath --package kernel --package glibc",
			},
			{
				Description: "Replace the F-13 critical path list wholesale",
				Command:     "pkgdb set-critpath --reset --collection F-13 --package kernel --package glibc",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}
			if len(params.Packages) == 0 && !params.Reset {
				return Validation("nothing to do (pass --package, or --reset to clear the existing flags)")
			}

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			err = connection.Client.SetCritpath(callCtx, params.Packages, !params.Remove, params.Collections, params.Reset)
			if err != nil {
				return err
			}

			switch {
			case len(params.Packages) == 0:
				fmt.Fprintln(os.Stderr, "Critical path flags cleared.")
			case params.Remove:
				fmt.Fprintf(os.Stderr, "Removed from critical path: %s\n", strings.Join(params.Packages, ", "))
			default:
				fmt.Fprintf(os.Stderr, "Marked critical path: %s\n", strings.Join(params.Packages, ", "))
			}
			return nil
		},
	}
}
