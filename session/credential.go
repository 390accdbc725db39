// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"net/http"
	"slices"
	"strings"
	"time"
)

// Cookie is one entry of a session credential: a name/value pair plus the
// attributes the server sent alongside it. Attributes are preserved in the
// persisted record but never rendered into request headers — the server
// identifies a session by the pairs alone.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitzero"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
}

// Credential is a session credential: the set of cookies the server issued
// for one authenticated session. It is opaque to callers — the client
// renders it into Cookie request headers and merges Set-Cookie response
// headers into it; nothing else inspects the contents. The zero value is
// an empty credential.
//
// Cookies are kept sorted by name, so the rendered header and the
// persisted form are deterministic.
type Credential struct {
	Cookies []Cookie `json:"cookies"`
}

// Empty reports whether the credential carries no cookies. A nil receiver
// is empty.
func (c *Credential) Empty() bool {
	return c == nil || len(c.Cookies) == 0
}

// Header renders the credential as a Cookie request header value:
// name=value pairs joined by "; ", attributes omitted. Returns "" for an
// empty credential.
func (c *Credential) Header() string {
	if c.Empty() {
		return ""
	}
	pairs := make([]string, 0, len(c.Cookies))
	for _, cookie := range c.Cookies {
		pairs = append(pairs, cookie.Name+"="+cookie.Value)
	}
	return strings.Join(pairs, "; ")
}

// MergeResponse folds every Set-Cookie header on response into the
// credential: same-named cookies are replaced, new names are added,
// cookies the server did not mention stay as they are. Reports how many
// cookies were merged; zero means the response carried no Set-Cookie
// header, which on most responses is the normal case.
func (c *Credential) MergeResponse(response *http.Response) int {
	parsed := response.Cookies()
	for _, cookie := range parsed {
		c.set(Cookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     cookie.Path,
			Domain:   cookie.Domain,
			Expires:  cookie.Expires,
			Secure:   cookie.Secure,
			HTTPOnly: cookie.HttpOnly,
		})
	}
	return len(parsed)
}

func (c *Credential) set(cookie Cookie) {
	for i := range c.Cookies {
		if c.Cookies[i].Name == cookie.Name {
			c.Cookies[i] = cookie
			return
		}
	}
	c.Cookies = append(c.Cookies, cookie)
	slices.SortFunc(c.Cookies, func(a, b Cookie) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// Clone returns an independent copy of the credential. Stores clone on
// both save and load so the client's in-memory credential and the
// persisted record never alias. Clone of nil is nil.
func (c *Credential) Clone() *Credential {
	if c == nil {
		return nil
	}
	return &Credential{Cookies: slices.Clone(c.Cookies)}
}
