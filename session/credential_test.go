// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"net/http"
	"testing"
)

// responseWithCookies builds a bare response carrying the given Set-Cookie
// header values, the way MergeResponse sees one off the wire.
func responseWithCookies(values ...string) *http.Response {
	header := http.Header{}
	for _, value := range values {
		header.Add("Set-Cookie", value)
	}
	return &http.Response{Header: header}
}

func TestCredential_Empty(t *testing.T) {
	var nilCredential *Credential
	if !nilCredential.Empty() {
		t.Error("nil credential should be empty")
	}
	if !(&Credential{}).Empty() {
		t.Error("zero credential should be empty")
	}
	full := &Credential{Cookies: []Cookie{{Name: "tg-visit", Value: "a"}}}
	if full.Empty() {
		t.Error("credential with a cookie should not be empty")
	}
}

func TestCredential_Header(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := (&Credential{}).Header(); got != "" {
			t.Errorf("Header() = %q, want empty", got)
		}
	})

	t.Run("attributes are not rendered", func(t *testing.T) {
		credential := &Credential{}
		credential.MergeResponse(responseWithCookies("tg-visit=abc123; Path=/; Secure; HttpOnly"))
		if got := credential.Header(); got != "tg-visit=abc123" {
			t.Errorf("Header() = %q", got)
		}
	})

	t.Run("pairs are sorted by name", func(t *testing.T) {
		credential := &Credential{}
		credential.MergeResponse(responseWithCookies("zz-extra=2", "tg-visit=1"))
		if got := credential.Header(); got != "tg-visit=1; zz-extra=2" {
			t.Errorf("Header() = %q", got)
		}
	})
}

func TestCredential_MergeResponse(t *testing.T) {
	t.Run("adds new cookies", func(t *testing.T) {
		credential := &Credential{}
		if merged := credential.MergeResponse(responseWithCookies("tg-visit=abc")); merged != 1 {
			t.Errorf("merged = %d, want 1", merged)
		}
		if credential.Empty() {
			t.Error("credential should hold the merged cookie")
		}
	})

	t.Run("replaces same-named cookies", func(t *testing.T) {
		credential := &Credential{Cookies: []Cookie{{Name: "tg-visit", Value: "old"}}}
		credential.MergeResponse(responseWithCookies("tg-visit=new"))
		if got := credential.Header(); got != "tg-visit=new" {
			t.Errorf("Header() = %q", got)
		}
		if len(credential.Cookies) != 1 {
			t.Errorf("expected 1 cookie, got %d", len(credential.Cookies))
		}
	})

	t.Run("keeps unmentioned cookies", func(t *testing.T) {
		credential := &Credential{Cookies: []Cookie{{Name: "tg-visit", Value: "keep"}}}
		credential.MergeResponse(responseWithCookies("other=added"))
		if got := credential.Header(); got != "other=added; tg-visit=keep" {
			t.Errorf("Header() = %q", got)
		}
	})

	t.Run("no set-cookie header", func(t *testing.T) {
		credential := &Credential{Cookies: []Cookie{{Name: "tg-visit", Value: "keep"}}}
		if merged := credential.MergeResponse(responseWithCookies()); merged != 0 {
			t.Errorf("merged = %d, want 0", merged)
		}
		if got := credential.Header(); got != "tg-visit=keep" {
			t.Errorf("Header() = %q", got)
		}
	})

	t.Run("captures attributes", func(t *testing.T) {
		credential := &Credential{}
		credential.MergeResponse(responseWithCookies("tg-visit=abc; Path=/pkgdb; Secure; HttpOnly"))
		cookie := credential.Cookies[0]
		if cookie.Path != "/pkgdb" {
			t.Errorf("Path = %q", cookie.Path)
		}
		if !cookie.Secure || !cookie.HTTPOnly {
			t.Errorf("Secure = %v, HTTPOnly = %v, want both true", cookie.Secure, cookie.HTTPOnly)
		}
	})
}

func TestCredential_Clone(t *testing.T) {
	t.Run("nil clones to nil", func(t *testing.T) {
		var credential *Credential
		if credential.Clone() != nil {
			t.Error("Clone of nil should be nil")
		}
	})

	t.Run("clone is independent", func(t *testing.T) {
		original := &Credential{Cookies: []Cookie{{Name: "tg-visit", Value: "a"}}}
		clone := original.Clone()
		clone.Cookies[0].Value = "mutated"
		clone.MergeResponse(responseWithCookies("extra=1"))

		if got := original.Header(); got != "tg-visit=a" {
			t.Errorf("original changed through its clone: %q", got)
		}
	})
}
