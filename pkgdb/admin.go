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

// PackageEdit describes changes to a package's ownership and ACLs. Zero
// fields are left unchanged on the server.
type PackageEdit struct {
	// Owner becomes the package owner on the affected branches.
	Owner string
	// Description becomes the package summary.
	Description string
	// Branches are the branch abbreviations the edit applies to.
	Branches []string
	// CCList usernames are set to watch the package.
	CCList []string
	// Comaintainers usernames are granted comaintainer ACLs.
	Comaintainers []string
	// Groups are the group names allowed to commit.
	Groups []string
}

// form renders the edit as the dispatcher's form parameters. The list
// valued fields travel JSON-encoded inside single form values, except
// branches, which the server takes as a repeated field.
func (e PackageEdit) form() url.Values {
	params := url.Values{}
	if e.Owner != "" {
		params.Set("owner", e.Owner)
	}
	if e.Description != "" {
		params.Set("summary", e.Description)
	}
	if len(e.CCList) > 0 {
		params.Set("ccList", jsonList(e.CCList))
	}
	if len(e.Comaintainers) > 0 {
		params.Set("comaintList", jsonList(e.Comaintainers))
	}
	if len(e.Groups) > 0 {
		params.Set("groups", jsonList(e.Groups))
	}
	for _, branch := range e.Branches {
		params.Add("collections", branch)
	}
	return params
}

// hasACLChanges reports whether the edit carries anything beyond owner
// and description.
func (e PackageEdit) hasACLChanges() bool {
	return len(e.Branches) > 0 || len(e.CCList) > 0 || len(e.Comaintainers) > 0 || len(e.Groups) > 0
}

func jsonList(values []string) string {
	// Marshaling a string slice cannot fail.
	encoded, _ := json.Marshal(values)
	return string(encoded)
}

// AddPackage creates a package. edit.Owner is required; the server
// creates the package with a single devel branch, then any further fields
// of edit are applied with a follow-up [Client.EditPackage]-equivalent
// call.
func (c *Client) AddPackage(ctx context.Context, pkg string, edit PackageEdit) error {
	if edit.Owner == "" {
		return fmt.Errorf("pkgdb: creating package %s requires an owner", pkg)
	}

	params := url.Values{"owner": {edit.Owner}}
	if edit.Description != "" {
		params.Set("summary", edit.Description)
	}
	body, err := c.session.Send(ctx, "acls/dispatcher/add_package/"+pkg, true, params)
	if err != nil {
		return err
	}
	if err := checkLegacyStatus(body); err != nil {
		return fmt.Errorf("pkgdb: creating %s: %w", pkg, err)
	}

	if !edit.hasACLChanges() {
		return nil
	}

	// The create call already assigned the owner.
	followUp := edit
	followUp.Owner = ""
	body, err = c.session.Send(ctx, "acls/dispatcher/edit_package/"+pkg, true, followUp.form())
	if err != nil {
		return err
	}
	if err := checkLegacyStatus(body); err != nil {
		return fmt.Errorf("pkgdb: saving details for %s: %w", pkg, err)
	}
	return nil
}

// EditPackage changes a package's ownership, description, or ACLs.
func (c *Client) EditPackage(ctx context.Context, pkg string, edit PackageEdit) error {
	body, err := c.session.Send(ctx, "acls/dispatcher/edit_package/"+pkg, true, edit.form())
	if err != nil {
		return err
	}
	if err := checkLegacyStatus(body); err != nil {
		return fmt.Errorf("pkgdb: editing %s: %w", pkg, err)
	}
	return nil
}

// CloneBranch copies a branch's permissions onto another branch of the
// same package. branch is the abbreviation to clone to, master the one to
// clone from. With emailLog false the server skips mailing a copy of the
// change log.
func (c *Client) CloneBranch(ctx context.Context, pkg, branch, master string, emailLog bool) error {
	params := url.Values{"email_log": {strconv.FormatBool(emailLog)}}
	_, err := c.session.Send(ctx, "acls/dispatcher/clone_branch/"+pkg+"/"+branch+"/"+master, true, params)
	return err
}

// MassBranch branches every unblocked package from devel for a new
// release. branch is the abbreviation of the release to create.
func (c *Client) MassBranch(ctx context.Context, branch string) error {
	_, err := c.session.Send(ctx, "collections/mass_branch/"+branch, true, nil)
	return err
}

// RemoveUser removes a user's ACLs from a package. collections limits the
// removal to those branch shortnames; nil removes the user from every
// branch of the package.
func (c *Client) RemoveUser(ctx context.Context, username, pkg string, collections []string) error {
	params := url.Values{
		"username": {username},
		"pkg_name": {pkg},
	}
	// The dispatcher takes this list under the older spelling of the
	// parameter name.
	for _, collection := range collections {
		params.Add("collectn_list", collection)
	}

	_, err := c.session.Send(ctx, "acls/dispatcher/remove_user", true, params)
	return err
}

// SetCritpath marks packages as critical path, or unmarks them with
// critpath false. packages defaults to every package in the given
// collections; collections defaults to every release still alive. With
// reset true the critpath flag is first cleared from all packages in the
// collections before the new marks are applied.
func (c *Client) SetCritpath(ctx context.Context, packages []string, critpath bool, collections []string, reset bool) error {
	params := url.Values{
		"critpath": {strconv.FormatBool(critpath)},
		"reset":    {strconv.FormatBool(reset)},
	}
	for _, pkg := range packages {
		params.Add("pkg_list", pkg)
	}
	for _, collection := range collections {
		params.Add("collctn_list", collection)
	}

	_, err := c.session.Send(ctx, "acls/dispatcher/set_critpath", true, params)
	return err
}
