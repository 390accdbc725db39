// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"
)

// captureStdout captures stdout output during fn execution.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = writer

	fn()

	writer.Close()
	os.Stdout = original

	var buffer bytes.Buffer
	io.Copy(&buffer, reader)
	reader.Close()

	return buffer.String()
}

func TestWriteJSON(t *testing.T) {
	output := captureStdout(t, func() {
		if err := WriteJSON(map[string]string{"name": "kernel"}); err != nil {
			t.Errorf("WriteJSON: %v", err)
		}
	})
	want := "{\n  \"name\": \"kernel\"\n}\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

// TestWriteJSON_RawMessage checks that raw server responses come out
// re-indented, which is what the info and owners commands rely on.
func TestWriteJSON_RawMessage(t *testing.T) {
	output := captureStdout(t, func() {
		if err := WriteJSON(json.RawMessage(`{"pkg":{"name":"bash"}}`)); err != nil {
			t.Errorf("WriteJSON: %v", err)
		}
	})
	want := "{\n  \"pkg\": {\n    \"name\": \"bash\"\n  }\n}\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestEmitJSON(t *testing.T) {
	t.Run("flag unset", func(t *testing.T) {
		var flags JSONOutput
		var done bool
		var err error
		output := captureStdout(t, func() {
			done, err = flags.EmitJSON(map[string]int{"n": 1})
		})
		if done || err != nil {
			t.Errorf("EmitJSON = (%v, %v), want (false, nil)", done, err)
		}
		if output != "" {
			t.Errorf("output = %q, want nothing without --json", output)
		}
	})

	t.Run("flag set", func(t *testing.T) {
		flags := JSONOutput{OutputJSON: true}
		var done bool
		var err error
		output := captureStdout(t, func() {
			done, err = flags.EmitJSON(map[string]int{"n": 1})
		})
		if !done || err != nil {
			t.Errorf("EmitJSON = (%v, %v), want (true, nil)", done, err)
		}
		want := "{\n  \"n\": 1\n}\n"
		if output != want {
			t.Errorf("output = %q, want %q", output, want)
		}
	})
}

func TestEmptyIfNil(t *testing.T) {
	data, err := json.Marshal(EmptyIfNil([]string(nil)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("nil slice encodes as %s, want []", data)
	}

	filled := []string{"kernel"}
	if got := EmptyIfNil(filled); len(got) != 1 || got[0] != "kernel" {
		t.Errorf("EmptyIfNil(%v) = %v, want unchanged", filled, got)
	}
}

func TestEmptyMapIfNil(t *testing.T) {
	data, err := json.Marshal(EmptyMapIfNil(map[string][]string(nil)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("nil map encodes as %s, want {}", data)
	}
}
