// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONOutput provides the shared --json flag. Command parameter structs
// embed it and call [JSONOutput.EmitJSON] with their result before
// rendering text.
type JSONOutput struct {
	OutputJSON bool `flag:"json" desc:"Emit machine-readable JSON instead of text"`
}

// EmitJSON writes value to stdout as indented JSON when the --json flag
// is set. done reports whether output was handled; when true the caller
// returns err instead of rendering its text form.
func (j *JSONOutput) EmitJSON(value any) (done bool, err error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(value)
}

// WriteJSON renders value to stdout as indented JSON.
func WriteJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// EmptyIfNil returns an empty slice in place of nil. JSON encoding
// renders nil slices as null; command output should show [] instead.
func EmptyIfNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}

// EmptyMapIfNil returns an empty map in place of nil, for the same
// reason as [EmptyIfNil].
func EmptyMapIfNil[M ~map[K]V, K comparable, V any](m M) M {
	if m == nil {
		return M{}
	}
	return m
}
