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
	"strconv"
	"text/tabwriter"

	"github.com/packagedb/pkgdb-go/pkgdb"
)

// --- orphans ---

// orphansParams holds the parameters for the orphans command.
type orphansParams struct {
	Client ClientConfig
	JSONOutput
}

// orphansResult is the JSON output of orphans.
type orphansResult struct {
	Packages []pkgdb.Package `json:"packages"`
}

// OrphansCommand returns the "orphans" command.
func OrphansCommand() *Command {
	var params orphansParams

	return &Command{
		Name:    "orphans",
		Summary: "List orphaned packages",
		Description: `List packages whose owner gave them up. Orphaned packages keep their
ACLs but have no one responsible for them; anyone with access may take
ownership.`,
		Usage: "pkgdb orphans [flags]",
		Examples: []Example{
			{
				Description: "List every orphaned package",
				Command:     "pkgdb orphans",
			},
			{
				Description: "List orphans as JSON",
				Command:     "pkgdb orphans --json",
			},
		},
		Params: func() any { return &params },
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

			packages, err := connection.Client.OrphanPackages(callCtx)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(orphansResult{Packages: EmptyIfNil(packages)}); done {
				return err
			}

			if len(packages) == 0 {
				fmt.Fprintln(os.Stderr, "No orphaned packages.")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "PACKAGE\tSUMMARY\n")
			for _, pkg := range packages {
				fmt.Fprintf(writer, "%s\t%s\n", pkg.Name, pkg.Summary)
			}
			writer.Flush()
			return nil
		},
	}
}

// --- packages ---

// packagesParams holds the parameters for the packages command.
type packagesParams struct {
	Client     ClientConfig
	Collection string `flag:"collection,c" desc:"Limit to one collection by branch shortname (F-13, devel)"`
	JSONOutput
}

// packagesResult is the JSON output of packages.
type packagesResult struct {
	Packages []string `json:"packages"`
}

// PackagesCommand returns the "packages" command: the names of every
// package in the database, or in one collection.
func PackagesCommand() *Command {
	var params packagesParams

	return &Command{
		Name:    "packages",
		Summary: "List package names",
		Usage:   "pkgdb packages [flags]",
		Examples: []Example{
			{
				Description: "List every package in the database",
				Command:     "pkgdb packages",
			},
			{
				Description: "List the packages with an F-13 branch",
				Command:     "pkgdb packages --collection F-13",
			},
		},
		Params: func() any { return &params },
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

			names, err := connection.Client.PackageList(callCtx, params.Collection)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(packagesResult{Packages: EmptyIfNil(names)}); done {
				return err
			}

			if len(names) == 0 {
				fmt.Fprintln(os.Stderr, "No packages found.")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

// --- collections ---

// collectionsParams holds the parameters for the collections command.
type collectionsParams struct {
	Client     ClientConfig
	IncludeEOL bool `flag:"eol" desc:"Include collections whose releases reached end of life"`
	JSONOutput
}

// collectionsResult is the JSON output of collections.
type collectionsResult struct {
	Collections []pkgdb.Collection `json:"collections"`
}

// CollectionsCommand returns the "collections" command.
func CollectionsCommand() *Command {
	var params collectionsParams

	return &Command{
		Name:    "collections",
		Summary: "List distribution collections",
		Description: `List the collections the server tracks: Fedora releases, EPEL
releases, and the rolling devel branch. Dead releases are hidden
unless --eol is given.`,
		Usage: "pkgdb collections [flags]",
		Examples: []Example{
			{
				Description: "List live collections",
				Command:     "pkgdb collections",
			},
			{
				Description: "Include end of life releases",
				Command:     "pkgdb collections --eol",
			},
		},
		Params: func() any { return &params },
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

			collections, err := connection.Client.CollectionList(callCtx, params.IncludeEOL)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(collectionsResult{Collections: EmptyIfNil(collections)}); done {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "BRANCH\tNAME\tVERSION\tSTATUS\tDIST TAG\n")
			for _, collection := range collections {
				status := collection.Status
				if status == "" {
					status = strconv.Itoa(collection.StatusCode)
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
					collection.BranchName,
					collection.Name,
					collection.Version,
					status,
					collection.DistTag,
				)
			}
			writer.Flush()
			return nil
		},
	}
}

// --- user-packages ---

// userPackagesParams holds the parameters for the user-packages command.
type userPackagesParams struct {
	Client     ClientConfig
	ACLs       []string `flag:"acl" desc:"Count only these ACLs (owner, approveacls, commit, watchbugzilla, watchcommits)"`
	IncludeEOL bool     `flag:"eol" desc:"Include packages held only on end of life releases"`
	JSONOutput
}

// userPackagesResult is the JSON output of user-packages.
type userPackagesResult struct {
	Packages []pkgdb.Package `json:"packages"`
}

// UserPackagesCommand returns the "user-packages" command: the packages
// a user holds ACLs on.
func UserPackagesCommand() *Command {
	var params userPackagesParams

	return &Command{
		Name:    "user-packages",
		Summary: "List the packages a user has ACLs on",
		Usage:   "pkgdb user-packages <username> [flags]",
		Examples: []Example{
			{
				Description: "List everything jrandom has access to",
				Command:     "pkgdb user-packages jrandom",
			},
			{
				Description: "List only the packages jrandom owns",
				Command:     "pkgdb user-packages jrandom --acl owner",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return Validation("username required\n\nUsage: pkgdb user-packages <username> [flags]")
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

			packages, err := connection.Client.UserPackages(callCtx, args[0], params.ACLs, params.IncludeEOL)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(userPackagesResult{Packages: EmptyIfNil(packages)}); done {
				return err
			}

			if len(packages) == 0 {
				fmt.Fprintln(os.Stderr, "No packages found.")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "PACKAGE\tSUMMARY\n")
			for _, pkg := range packages {
				fmt.Fprintf(writer, "%s\t%s\n", pkg.Name, pkg.Summary)
			}
			writer.Flush()
			return nil
		},
	}
}

// --- critpath ---

// critpathParams holds the parameters for the critpath command.
type critpathParams struct {
	Client      ClientConfig
	Collections []string `flag:"collection" desc:"Limit to these collection branches (F-13, devel)"`
	JSONOutput
}

// critpathResult is the JSON output of critpath.
type critpathResult struct {
	Collections map[string][]string `json:"collections"`
}

// CritpathCommand returns the "critpath" command: the packages marked
// critical path, grouped by collection branch.
func CritpathCommand() *Command {
	var params critpathParams

	return &Command{
		Name:    "critpath",
		Summary: "List critical path packages",
		Usage:   "pkgdb critpath [flags]",
		Examples: []Example{
			{
				Description: "List critical path packages on every live release",
				Command:     "pkgdb critpath",
			},
			{
				Description: "List critical path packages on F-13",
				Command:     "pkgdb critpath --collection F-13",
			},
		},
		Params: func() any { return &params },
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

			byBranch, err := connection.Client.CritpathPackages(callCtx, params.Collections)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(critpathResult{Collections: EmptyMapIfNil(byBranch)}); done {
				return err
			}

			if len(byBranch) == 0 {
				fmt.Fprintln(os.Stderr, "No critical path packages.")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "BRANCH\tPACKAGE\n")
			for _, branch := range slices.Sorted(maps.Keys(byBranch)) {
				for _, name := range byBranch[branch] {
					fmt.Fprintf(writer, "%s\t%s\n", branch, name)
				}
			}
			writer.Flush()
			return nil
		},
	}
}
