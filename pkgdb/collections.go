// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package pkgdb

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// StatusEOL is the status code of a collection that has reached end of
// life. Listings exclude these releases unless asked to include them.
const StatusEOL = 9

// Collection is one release of a distribution tracked by the server: a
// Fedora release, an EPEL release, or a rolling branch like devel.
type Collection struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Version    string `json:"version"`
	StatusCode int    `json:"statuscode"`
	BranchName string `json:"branchname"`
	Summary    string `json:"summary"`
	Owner      string `json:"owner"`
	DistTag    string `json:"disttag"`

	// Status is the server's label for StatusCode, "Active" or "EOL".
	// Filled from the collection listing, which sends it alongside each
	// collection; empty on collections obtained any other way.
	Status string `json:"status,omitempty"`
}

// CollectionMap translates branch abbreviations to collection names, for
// instance FC to Fedora.
var CollectionMap = map[string]string{
	"F":    "Fedora",
	"FC":   "Fedora",
	"EL":   "Fedora EPEL",
	"EPEL": "Fedora EPEL",
	"OLPC": "Fedora OLPC",
	"RHL":  "Red Hat Linux",
}

// CanonicalBranchName resolves a branch abbreviation into a collection
// name and version: "F-13" is version 13 of the Fedora collection, "EL-5"
// is Fedora EPEL 5. The bare name "devel" is Fedora's development
// version.
func CanonicalBranchName(branch string) (string, string, error) {
	if branch == "devel" {
		return "Fedora", "devel", nil
	}
	parts := strings.Split(branch, "-")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("pkgdb: branch %q is not an abbreviation of the form F-13 or EL-5", branch)
	}
	name, ok := CollectionMap[parts[0]]
	if !ok {
		return "", "", fmt.Errorf("pkgdb: collection abbreviation %q is unknown (use F, FC, EL, EPEL, OLPC, or RHL)", parts[0])
	}
	return name, parts[1], nil
}

// Branches returns the server's branch table keyed by branch shortname,
// like "devel" or "F-13". The table is fetched once and cached on the
// client; refresh forces a new fetch.
func (c *Client) Branches(ctx context.Context, refresh bool) (map[string]Collection, error) {
	if c.branches != nil && !refresh {
		return c.branches, nil
	}
	collections, err := c.fetchCollections(ctx)
	if err != nil {
		return nil, err
	}
	branches := make(map[string]Collection, len(collections))
	for _, collection := range collections {
		branches[collection.BranchName] = collection
	}
	c.branches = branches
	return branches, nil
}

// CollectionList returns every collection the server tracks. With
// includeEOL false, collections of dead releases are filtered out.
func (c *Client) CollectionList(ctx context.Context, includeEOL bool) ([]Collection, error) {
	collections, err := c.fetchCollections(ctx)
	if err != nil {
		return nil, err
	}
	if !includeEOL {
		collections = slices.DeleteFunc(collections, func(collection Collection) bool {
			return collection.StatusCode == StatusEOL
		})
	}
	return collections, nil
}

// fetchCollections retrieves and decodes the collection list. The server
// sends each collection as a pair of [collection, status label]; the
// label lands in the Status field.
func (c *Client) fetchCollections(ctx context.Context) ([]Collection, error) {
	body, err := c.session.Send(ctx, "collections/", false, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Collections [][]json.RawMessage `json:"collections"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("pkgdb: decoding collection list: %w", err)
	}

	collections := make([]Collection, 0, len(payload.Collections))
	for _, entry := range payload.Collections {
		if len(entry) == 0 {
			continue
		}
		var collection Collection
		if err := json.Unmarshal(entry[0], &collection); err != nil {
			return nil, fmt.Errorf("pkgdb: decoding collection entry: %w", err)
		}
		if len(entry) > 1 {
			// A label the decoder cannot read is not worth failing the
			// whole listing for.
			_ = json.Unmarshal(entry[1], &collection.Status)
		}
		collections = append(collections, collection)
	}
	return collections, nil
}
