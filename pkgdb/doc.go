// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

// Package pkgdb is a client for the Fedora package database, the service
// that records who owns and who may commit to each package in the
// distribution.
//
// [Client] wraps a [session.Client] pointed at a PackageDB instance and
// exposes the server's methods as typed calls: ownership lookups
// ([Client.PackageInfo], [Client.Owners]), package and collection
// listings ([Client.PackageList], [Client.CollectionList],
// [Client.OrphanPackages], [Client.UserPackages]), the ACL dumps that
// feed the version control system and bugzilla
// ([Client.VCSACLs], [Client.BugzillaACLs], [Client.NotifyACLs]), and the
// administrative operations behind the dispatcher endpoints
// ([Client.AddPackage], [Client.EditPackage], [Client.CloneBranch],
// [Client.MassBranch], [Client.RemoveUser], [Client.SetCritpath]).
//
// Branches are usually named by abbreviation: "F-13" is version 13 of the
// Fedora collection, "EL-5" is Fedora EPEL 5, and the bare name "devel"
// is Fedora's development branch. [CanonicalBranchName] resolves an
// abbreviation to its collection name and version; [Client.Branches]
// fetches the live branch table from the server and caches it on the
// client.
//
// Errors the server reports about a request, such as asking for a package
// that does not exist, come back as [session.AppError]. The server has
// two conventions for these: a modern one the session layer handles, and
// an older one, a false "status" key in an otherwise successful payload,
// which this package translates so callers see [session.AppError] either
// way.
//
// Like the session client it wraps, a Client is not safe for concurrent
// use.
package pkgdb
