// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package pkgdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/packagedb/pkgdb-go/session"
)

func TestAddPackage(t *testing.T) {
	t.Run("requires an owner", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			calls++
		}))
		defer server.Close()

		err := testClient(t, server.URL).AddPackage(context.Background(), "bzr", PackageEdit{})
		if err == nil {
			t.Fatal("expected an error without an owner")
		}
		if calls != 0 {
			t.Errorf("expected no network calls, got %d", calls)
		}
	})

	t.Run("create only", func(t *testing.T) {
		var paths []string
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			paths = append(paths, request.URL.Path)
			if got := request.PostFormValue("owner"); got != "toshio" {
				t.Errorf("owner = %q", got)
			}
			if request.PostFormValue("summary") != "" {
				t.Error("summary should be absent without a description")
			}
			respondJSON(writer, `{"status": true}`)
		}))
		defer server.Close()

		err := testClient(t, server.URL).AddPackage(context.Background(), "bzr", PackageEdit{Owner: "toshio"})
		if err != nil {
			t.Fatalf("AddPackage failed: %v", err)
		}
		if !slices.Equal(paths, []string{"/acls/dispatcher/add_package/bzr"}) {
			t.Errorf("paths = %v", paths)
		}
	})

	t.Run("acl changes trigger a follow-up edit", func(t *testing.T) {
		var paths []string
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			paths = append(paths, request.URL.Path)
			request.ParseForm()
			switch request.URL.Path {
			case "/acls/dispatcher/add_package/bzr":
				if got := request.PostFormValue("owner"); got != "toshio" {
					t.Errorf("create owner = %q", got)
				}
			case "/acls/dispatcher/edit_package/bzr":
				if request.PostForm.Has("owner") {
					t.Error("the edit must not re-send the owner")
				}
				if got := request.PostFormValue("summary"); got != "A friendly VCS" {
					t.Errorf("edit summary = %q", got)
				}
				if got := request.PostFormValue("ccList"); got != `["hno","shahms"]` {
					t.Errorf("ccList = %q", got)
				}
				if got := request.PostForm["collections"]; !slices.Equal(got, []string{"F-13", "devel"}) {
					t.Errorf("collections = %v", got)
				}
			default:
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			respondJSON(writer, `{"status": true}`)
		}))
		defer server.Close()

		err := testClient(t, server.URL).AddPackage(context.Background(), "bzr", PackageEdit{
			Owner:       "toshio",
			Description: "A friendly VCS",
			Branches:    []string{"F-13", "devel"},
			CCList:      []string{"hno", "shahms"},
		})
		if err != nil {
			t.Fatalf("AddPackage failed: %v", err)
		}
		if len(paths) != 2 {
			t.Errorf("expected 2 requests, got %d: %v", len(paths), paths)
		}
	})

	t.Run("rejected create stops the flow", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			calls++
			respondJSON(writer, `{"status": false, "message": "package already exists"}`)
		}))
		defer server.Close()

		err := testClient(t, server.URL).AddPackage(context.Background(), "bzr", PackageEdit{
			Owner:    "toshio",
			Branches: []string{"devel"},
		})
		if !session.IsAppError(err, "PackageDBError") {
			t.Fatalf("expected PackageDBError, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected the flow to stop after the create, got %d calls", calls)
		}
	})
}

func TestEditPackage(t *testing.T) {
	t.Run("form encoding", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/acls/dispatcher/edit_package/bzr" {
				t.Errorf("path = %s", request.URL.Path)
			}
			request.ParseForm()
			if got := request.PostFormValue("owner"); got != "hno" {
				t.Errorf("owner = %q", got)
			}
			if got := request.PostFormValue("groups"); got != `["provenpackager"]` {
				t.Errorf("groups = %q", got)
			}
			if got := request.PostFormValue("comaintList"); got != `["shahms"]` {
				t.Errorf("comaintList = %q", got)
			}
			respondJSON(writer, `{"status": true}`)
		}))
		defer server.Close()

		err := testClient(t, server.URL).EditPackage(context.Background(), "bzr", PackageEdit{
			Owner:         "hno",
			Groups:        []string{"provenpackager"},
			Comaintainers: []string{"shahms"},
		})
		if err != nil {
			t.Fatalf("EditPackage failed: %v", err)
		}
	})

	t.Run("server rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			respondJSON(writer, `{"status": false, "message": "not allowed"}`)
		}))
		defer server.Close()

		err := testClient(t, server.URL).EditPackage(context.Background(), "bzr", PackageEdit{Owner: "hno"})
		if !session.IsAppError(err, "PackageDBError") {
			t.Fatalf("expected PackageDBError, got %v", err)
		}
	})
}

func TestCloneBranch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/acls/dispatcher/clone_branch/bzr/F-13/devel" {
			t.Errorf("path = %s", request.URL.Path)
		}
		if got := request.Header.Get("Cookie"); got != "tg-visit=test" {
			t.Errorf("Cookie = %q, authenticated call should carry the session", got)
		}
		if got := request.PostFormValue("email_log"); got != "false" {
			t.Errorf("email_log = %q", got)
		}
		respondJSON(writer, `{"status": true}`)
	}))
	defer server.Close()

	if err := testClient(t, server.URL).CloneBranch(context.Background(), "bzr", "F-13", "devel", false); err != nil {
		t.Fatalf("CloneBranch failed: %v", err)
	}
}

func TestMassBranch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/collections/mass_branch/F-13" {
			t.Errorf("path = %s", request.URL.Path)
		}
		if request.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", request.Method)
		}
		respondJSON(writer, `{"status": true}`)
	}))
	defer server.Close()

	if err := testClient(t, server.URL).MassBranch(context.Background(), "F-13"); err != nil {
		t.Fatalf("MassBranch failed: %v", err)
	}
}

func TestRemoveUser(t *testing.T) {
	t.Run("specific collections", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/acls/dispatcher/remove_user" {
				t.Errorf("path = %s", request.URL.Path)
			}
			request.ParseForm()
			if got := request.PostFormValue("username"); got != "hno" {
				t.Errorf("username = %q", got)
			}
			if got := request.PostFormValue("pkg_name"); got != "bzr" {
				t.Errorf("pkg_name = %q", got)
			}
			if got := request.PostForm["collectn_list"]; !slices.Equal(got, []string{"F-10", "devel"}) {
				t.Errorf("collectn_list = %v", got)
			}
			respondJSON(writer, `{"status": true}`)
		}))
		defer server.Close()

		err := testClient(t, server.URL).RemoveUser(context.Background(), "hno", "bzr", []string{"F-10", "devel"})
		if err != nil {
			t.Fatalf("RemoveUser failed: %v", err)
		}
	})

	t.Run("all collections", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			request.ParseForm()
			if request.PostForm.Has("collectn_list") {
				t.Error("collectn_list should be absent when removing from all collections")
			}
			respondJSON(writer, `{"status": true}`)
		}))
		defer server.Close()

		if err := testClient(t, server.URL).RemoveUser(context.Background(), "hno", "bzr", nil); err != nil {
			t.Fatalf("RemoveUser failed: %v", err)
		}
	})
}

func TestSetCritpath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/acls/dispatcher/set_critpath" {
			t.Errorf("path = %s", request.URL.Path)
		}
		request.ParseForm()
		if got := request.PostFormValue("critpath"); got != "true" {
			t.Errorf("critpath = %q", got)
		}
		if got := request.PostFormValue("reset"); got != "true" {
			t.Errorf("reset = %q", got)
		}
		if got := request.PostForm["pkg_list"]; !slices.Equal(got, []string{"kernel", "glibc"}) {
			t.Errorf("pkg_list = %v", got)
		}
		if got := request.PostForm["collctn_list"]; !slices.Equal(got, []string{"devel"}) {
			t.Errorf("collctn_list = %v", got)
		}
		respondJSON(writer, `{}`)
	}))
	defer server.Close()

	err := testClient(t, server.URL).SetCritpath(context.Background(),
		[]string{"kernel", "glibc"}, true, []string{"devel"}, true)
	if err != nil {
		t.Fatalf("SetCritpath failed: %v", err)
	}
}
