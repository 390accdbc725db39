// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package pkgdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Package is one package record as the server lists it.
type Package struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Summary    string `json:"summary"`
	StatusCode int    `json:"statuscode"`
}

// ACLs a user can hold on a package, for [Client.UserPackages] filters.
const (
	ACLOwner         = "owner"
	ACLApproveACLs   = "approveacls"
	ACLCommit        = "commit"
	ACLWatchBugzilla = "watchbugzilla"
	ACLWatchCommits  = "watchcommits"
)

// PackageInfo retrieves ownership information for a package. With a
// non-empty branch abbreviation the result is restricted to that branch's
// collection. The payload is the server's package listing structure,
// returned raw for the caller to pick apart.
func (c *Client) PackageInfo(ctx context.Context, pkg, branch string) (json.RawMessage, error) {
	var params url.Values
	if branch != "" {
		collection, collectionVersion, err := CanonicalBranchName(branch)
		if err != nil {
			return nil, err
		}
		params = url.Values{
			"collectionName":    {collection},
			"collectionVersion": {collectionVersion},
		}
	}

	body, err := c.session.Send(ctx, "acls/name/"+pkg, false, params)
	if err != nil {
		return nil, err
	}
	if err := checkLegacyStatus(body); err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Owners retrieves the ownership information for a package, optionally
// limited to one collection ("Fedora", "Fedora EPEL") and, below that,
// one collection version.
func (c *Client) Owners(ctx context.Context, pkg, collectionName, collectionVersion string) (json.RawMessage, error) {
	method := "acls/name/" + pkg
	if collectionName != "" {
		method += "/" + collectionName
		if collectionVersion != "" {
			method += "/" + collectionVersion
		}
	}

	body, err := c.session.Send(ctx, method, false, nil)
	if err != nil {
		return nil, err
	}
	if err := checkLegacyStatus(body); err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// PackageList returns the names of all packages in a collection,
// identified by branch shortname like "devel" or "F-13". With an empty
// collection, packages from all collections are returned. The shortname
// is validated against the server's branch table before the listing.
func (c *Client) PackageList(ctx context.Context, collection string) ([]string, error) {
	params := url.Values{"tg_paginate_limit": {"0"}}

	var body []byte
	var err error
	if collection != "" {
		branches, branchErr := c.Branches(ctx, false)
		if branchErr != nil {
			return nil, branchErr
		}
		if _, ok := branches[collection]; !ok {
			return nil, fmt.Errorf("pkgdb: collection shortname %q is unknown", collection)
		}
		body, err = c.session.Send(ctx, "collections/name/"+collection+"/", false, params)
	} else {
		body, err = c.session.Send(ctx, "acls/list/*", false, params)
	}
	if err != nil {
		return nil, err
	}

	var payload struct {
		Packages []Package `json:"packages"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("pkgdb: decoding package list: %w", err)
	}

	names := make([]string, 0, len(payload.Packages))
	for _, pkg := range payload.Packages {
		names = append(names, pkg.Name)
	}
	return names, nil
}

// UserPackages returns the packages a user holds ACLs on. acls limits the
// match to specific ACLs (see the ACL constants); nil selects any. With
// includeEOL true, packages that only exist in dead releases are
// included.
func (c *Client) UserPackages(ctx context.Context, username string, acls []string, includeEOL bool) ([]Package, error) {
	params := url.Values{
		"eol":               {strconv.FormatBool(includeEOL)},
		"tg_paginate_limit": {"0"},
	}
	for _, acl := range acls {
		params.Add("acls", acl)
	}

	body, err := c.session.Send(ctx, "users/packages/"+username, false, params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Pkgs []Package `json:"pkgs"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("pkgdb: decoding user packages: %w", err)
	}
	return payload.Pkgs, nil
}

// OrphanPackages returns the packages that are orphaned in any release
// still alive.
func (c *Client) OrphanPackages(ctx context.Context) ([]Package, error) {
	params := url.Values{"tg_paginate_limit": {"0"}}

	body, err := c.session.Send(ctx, "acls/orphans", false, params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Pkgs []Package `json:"pkgs"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("pkgdb: decoding orphan list: %w", err)
	}
	return payload.Pkgs, nil
}
