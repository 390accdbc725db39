// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// callParams holds the parameters for the call command.
type callParams struct {
	Client     ClientConfig
	Auth       bool     `flag:"auth" desc:"Authenticate before the call"`
	Params     []string `flag:"param,p" desc:"Request parameter as key=value (repeatable)"`
	ParamsFile string   `flag:"params-file" desc:"JSONC file of request parameters to send first"`
}

// CallCommand returns the "call" command: the escape hatch for server
// methods without a dedicated subcommand.
func CallCommand() *Command {
	var params callParams

	return &Command{
		Name:    "call",
		Summary: "Call a server method directly",
		Description: `Call a server method by path and print its JSON response. Without
parameters the request is a GET; any parameter turns it into a form
POST. Parameters come from --param flags, from a JSONC file, or
both; --param entries are sent after the file's, so repeated keys
accumulate.

In the file, string values are sent as they are, numbers and
booleans are converted, and an array sends its key once per
element.`,
		Usage: "pkgdb call <path> [flags]",
		Examples: []Example{
			{
				Description: "Fetch the collection list",
				Command:     "pkgdb call collections",
			},
			{
				Description: "Look up a package with an authenticated POST",
				Command:     "pkgdb call acls/name/kernel --auth --param collectionName=Fedora",
			},
			{
				Description: "Send a prepared parameter set",
				Command:     "pkgdb call acls/dispatcher/edit_package/kernel --auth --params-file edit.jsonc",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return Validation("server path required\n\nUsage: pkgdb call <path> [flags]")
			}
			if len(args) > 1 {
				return Validation("unexpected argument: %s", args[1])
			}

			values, err := buildCallValues(params.ParamsFile, params.Params)
			if err != nil {
				return err
			}

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			body, err := connection.Client.Send(callCtx, args[0], params.Auth, values)
			if err != nil {
				return err
			}
			return WriteJSON(json.RawMessage(body))
		},
	}
}

// buildCallValues merges a JSONC parameter file and key=value flags
// into form values. It returns nil when neither source provided
// anything, which keeps the request a GET.
func buildCallValues(paramsFile string, flagParams []string) (url.Values, error) {
	values := url.Values{}

	if paramsFile != "" {
		data, err := os.ReadFile(paramsFile)
		if err != nil {
			return nil, Validation("reading %s: %v", paramsFile, err)
		}

		// Strip comments and trailing commas before parsing as standard JSON.
		var fields map[string]any
		if err := json.Unmarshal(jsonc.ToJSON(data), &fields); err != nil {
			return nil, Validation("parsing %s: %v", paramsFile, err)
		}

		for key, value := range fields {
			items, ok := value.([]any)
			if !ok {
				items = []any{value}
			}
			for _, item := range items {
				text, err := callValueString(item)
				if err != nil {
					return nil, Validation("parameter %q in %s: %v", key, paramsFile, err)
				}
				values.Add(key, text)
			}
		}
	}

	for _, pair := range flagParams {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, Validation("--param needs key=value, got %q", pair)
		}
		values.Add(key, value)
	}

	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

// callValueString converts one JSON value into its form encoding.
func callValueString(value any) (string, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case bool, float64:
		return fmt.Sprint(typed), nil
	case nil:
		return "", fmt.Errorf("null has no form encoding")
	default:
		return "", fmt.Errorf("nested objects have no form encoding")
	}
}
