// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/packagedb/pkgdb-go/session"
)

// seedSession writes a session record holding a live credential for
// username, so commands can authenticate without a login roundtrip.
func seedSession(t *testing.T, username string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(path)
	credential := &session.Credential{
		Cookies: []session.Cookie{{Name: "tg-visit", Value: "abc123"}},
	}
	if err := store.Save(username, credential); err != nil {
		t.Fatalf("seeding session: %v", err)
	}
	return path
}

func TestRemoveUserCommand(t *testing.T) {
	isolateConfig(t)

	var gotForm map[string][]string
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acls/dispatcher/remove_user" {
			t.Errorf("path = %q, want /acls/dispatcher/remove_user", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		gotForm = r.PostForm
		gotCookie = r.Header.Get("Cookie")
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	sessionFile := seedSession(t, "admin")
	args := []string{
		"--server", server.URL,
		"--session-file", sessionFile,
		"--username", "admin",
		"--collection", "F-13",
		"jrandom", "kernel",
	}
	err := RemoveUserCommand().Execute(context.Background(), args, testLogger())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := gotForm["username"]; len(got) != 1 || got[0] != "jrandom" {
		t.Errorf("username = %v, want [jrandom]", got)
	}
	if got := gotForm["pkg_name"]; len(got) != 1 || got[0] != "kernel" {
		t.Errorf("pkg_name = %v, want [kernel]", got)
	}
	if got := gotForm["collectn_list"]; len(got) != 1 || got[0] != "F-13" {
		t.Errorf("collectn_list = %v, want [F-13]", got)
	}
	if !strings.Contains(gotCookie, "tg-visit=abc123") {
		t.Errorf("Cookie = %q, want the saved session cookie", gotCookie)
	}
}

func TestRemoveUserCommand_ArgumentCount(t *testing.T) {
	isolateConfig(t)
	err := RemoveUserCommand().Execute(context.Background(), []string{"jrandom"}, testLogger())
	assertValidationError(t, err)
}

func TestPackageAddCommand_RequiresOwner(t *testing.T) {
	isolateConfig(t)
	err := PackageCommand().Execute(context.Background(), []string{"add", "rust-widget"}, testLogger())
	assertValidationError(t, err)
}

func TestPackageEditCommand_RequiresChange(t *testing.T) {
	isolateConfig(t)
	err := PackageCommand().Execute(context.Background(), []string{"edit", "rust-widget"}, testLogger())
	assertValidationError(t, err)
}

func TestBranchCloneCommand_ArgumentCount(t *testing.T) {
	isolateConfig(t)
	err := BranchCommand().Execute(context.Background(), []string{"clone", "kernel", "F-13"}, testLogger())
	assertValidationError(t, err)
}

func TestSetCritpathCommand_RequiresWork(t *testing.T) {
	isolateConfig(t)
	err := SetCritpathCommand().Execute(context.Background(), nil, testLogger())
	assertValidationError(t, err)
}

func TestSetCritpathCommand_RemoveSendsFalse(t *testing.T) {
	isolateConfig(t)

	var gotForm map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		gotForm = r.PostForm
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	args := []string{
		"--server", server.URL,
		"--session-file", seedSession(t, "admin"),
		"--username", "admin",
		"--package", "kernel",
		"--remove",
	}
	err := SetCritpathCommand().Execute(context.Background(), args, testLogger())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := gotForm["critpath"]; len(got) != 1 || got[0] != "false" {
		t.Errorf("critpath = %v, want [false] with --remove", got)
	}
	if got := gotForm["pkg_list"]; len(got) != 1 || got[0] != "kernel" {
		t.Errorf("pkg_list = %v, want [kernel]", got)
	}
}

// assertValidationError fails the test unless err is a validation
// CommandError.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var commandError *CommandError
	if !errors.As(err, &commandError) || commandError.Category != CategoryValidation {
		t.Errorf("error = %v, want a validation CommandError", err)
	}
}
