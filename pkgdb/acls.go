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

// ACLMembers names the people and groups holding one ACL.
type ACLMembers struct {
	People []string `json:"people"`
	Groups []string `json:"groups"`
}

// VCSACL is the version control ACL for one branch of one package.
type VCSACL struct {
	Commit ACLMembers `json:"commit"`
}

// BugzillaACL is the set of package attributes bugzilla is configured
// from: the default assignee, the QA contact if the package has one, the
// component description, and who to put on CC.
type BugzillaACL struct {
	Owner     string     `json:"owner"`
	QAContact string     `json:"qacontact"`
	Summary   string     `json:"summary"`
	CCList    ACLMembers `json:"cclist"`
}

// VCSACLs returns the commit ACLs for every package, keyed by package
// name and then branch shortname.
func (c *Client) VCSACLs(ctx context.Context) (map[string]map[string]VCSACL, error) {
	body, err := c.session.Send(ctx, "lists/vcs", false, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		PackageACLs map[string]map[string]VCSACL `json:"packageAcls"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("pkgdb: decoding vcs acls: %w", err)
	}
	return payload.PackageACLs, nil
}

// BugzillaACLs returns the bugzilla configuration for every package,
// keyed by collection name and then package name.
func (c *Client) BugzillaACLs(ctx context.Context) (map[string]map[string]BugzillaACL, error) {
	body, err := c.session.Send(ctx, "lists/bugzilla", false, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		BugzillaACLs map[string]map[string]BugzillaACL `json:"bugzillaAcls"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("pkgdb: decoding bugzilla acls: %w", err)
	}
	return payload.BugzillaACLs, nil
}

// NotifyACLs returns, for each package, the usernames to notify about
// events on it. collectionName limits the result to one collection
// ("Fedora", "Fedora EPEL") and collectionVersion, when collectionName is
// given, to one version. With includeEOL true, dead releases count too.
func (c *Client) NotifyACLs(ctx context.Context, collectionName, collectionVersion string, includeEOL bool) (map[string][]string, error) {
	method := "lists/notify"
	if collectionName != "" {
		method += "/" + collectionName
		if collectionVersion != "" {
			method += "/" + collectionVersion
		}
	}
	params := url.Values{"eol": {strconv.FormatBool(includeEOL)}}

	body, err := c.session.Send(ctx, method, false, params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Packages map[string][]string `json:"packages"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("pkgdb: decoding notify acls: %w", err)
	}
	return payload.Packages, nil
}

// CritpathPackages returns the names of packages marked critical path,
// keyed by collection shortname. collections limits the result to those
// collections; nil means every release still alive.
func (c *Client) CritpathPackages(ctx context.Context, collections []string) (map[string][]string, error) {
	var params url.Values
	if len(collections) > 0 {
		params = url.Values{}
		for _, collection := range collections {
			params.Add("collctn_list", collection)
		}
	}

	body, err := c.session.Send(ctx, "lists/critpath", false, params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Pkgs map[string][]string `json:"pkgs"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("pkgdb: decoding critpath list: %w", err)
	}
	return payload.Pkgs, nil
}
