// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/packagedb/pkgdb-go/pkgdb"
)

// ACLsCommand returns the "acls" command group: the bulk ACL dumps the
// server exports for provisioning external systems.
func ACLsCommand() *Command {
	return &Command{
		Name:    "acls",
		Summary: "Dump bulk ACL exports",
		Description: `Dump the bulk ACL exports the server generates for external
consumers: the VCS commit ACLs, the bugzilla component configuration,
and the commit notification lists.

These are large responses covering every package in the database. Use
--json to feed them into other tooling.`,
		Subcommands: []*Command{
			aclsVCSCommand(),
			aclsBugzillaCommand(),
			aclsNotifyCommand(),
		},
		Examples: []Example{
			{
				Description: "Dump the commit ACLs for every package",
				Command:     "pkgdb acls vcs --json",
			},
			{
				Description: "Show the bugzilla configuration as a table",
				Command:     "pkgdb acls bugzilla",
			},
			{
				Description: "Show who gets commit notifications for Fedora 13",
				Command:     "pkgdb acls notify --collection Fedora --version 13",
			},
		},
	}
}

// formatMembers renders an ACL membership as a single cell: usernames
// first, then group names with an @ prefix.
func formatMembers(members pkgdb.ACLMembers) string {
	parts := make([]string, 0, len(members.People)+len(members.Groups))
	parts = append(parts, members.People...)
	for _, group := range members.Groups {
		parts = append(parts, "@"+group)
	}
	return strings.Join(parts, ",")
}

// --- acls vcs ---

// aclsVCSParams holds the parameters for the acls vcs command.
type aclsVCSParams struct {
	Client ClientConfig
	JSONOutput
}

// aclsVCSResult is the JSON output of acls vcs.
type aclsVCSResult struct {
	Packages map[string]map[string]pkgdb.VCSACL `json:"packages"`
}

func aclsVCSCommand() *Command {
	var params aclsVCSParams

	return &Command{
		Name:    "vcs",
		Summary: "Dump the VCS commit ACLs for every package",
		Usage:   "pkgdb acls vcs [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			acls, err := connection.Client.VCSACLs(callCtx)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(aclsVCSResult{Packages: EmptyMapIfNil(acls)}); done {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "PACKAGE\tBRANCH\tCOMMIT\n")
			for _, name := range slices.Sorted(maps.Keys(acls)) {
				branches := acls[name]
				for _, branch := range slices.Sorted(maps.Keys(branches)) {
					fmt.Fprintf(writer, "%s\t%s\t%s\n", name, branch, formatMembers(branches[branch].Commit))
				}
			}
			writer.Flush()
			return nil
		},
	}
}

// --- acls bugzilla ---

// aclsBugzillaParams holds the parameters for the acls bugzilla command.
type aclsBugzillaParams struct {
	Client ClientConfig
	JSONOutput
}

// aclsBugzillaResult is the JSON output of acls bugzilla.
type aclsBugzillaResult struct {
	Collections map[string]map[string]pkgdb.BugzillaACL `json:"collections"`
}

func aclsBugzillaCommand() *Command {
	var params aclsBugzillaParams

	return &Command{
		Name:    "bugzilla",
		Summary: "Dump the bugzilla configuration for every package",
		Usage:   "pkgdb acls bugzilla [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			acls, err := connection.Client.BugzillaACLs(callCtx)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(aclsBugzillaResult{Collections: EmptyMapIfNil(acls)}); done {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "COLLECTION\tPACKAGE\tOWNER\tQA CONTACT\tCC\n")
			for _, collection := range slices.Sorted(maps.Keys(acls)) {
				packages := acls[collection]
				for _, name := range slices.Sorted(maps.Keys(packages)) {
					acl := packages[name]
					fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
						collection,
						name,
						acl.Owner,
						acl.QAContact,
						formatMembers(acl.CCList),
					)
				}
			}
			writer.Flush()
			return nil
		},
	}
}

// --- acls notify ---

// aclsNotifyParams holds the parameters for the acls notify command.
type aclsNotifyParams struct {
	Client     ClientConfig
	Collection string `flag:"collection,c" desc:"Limit to one collection by name (Fedora, Fedora EPEL)"`
	Version    string `flag:"version" desc:"Limit to one release of --collection"`
	IncludeEOL bool   `flag:"eol" desc:"Include end of life releases"`
	JSONOutput
}

// aclsNotifyResult is the JSON output of acls notify.
type aclsNotifyResult struct {
	Packages map[string][]string `json:"packages"`
}

func aclsNotifyCommand() *Command {
	var params aclsNotifyParams

	return &Command{
		Name:    "notify",
		Summary: "Dump the commit notification list for every package",
		Usage:   "pkgdb acls notify [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
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

			notify, err := connection.Client.NotifyACLs(callCtx, params.Collection, params.Version, params.IncludeEOL)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(aclsNotifyResult{Packages: EmptyMapIfNil(notify)}); done {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "PACKAGE\tNOTIFY\n")
			for _, name := range slices.Sorted(maps.Keys(notify)) {
				fmt.Fprintf(writer, "%s\t%s\n", name, strings.Join(notify[name], ","))
			}
			writer.Flush()
			return nil
		},
	}
}
