// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// logoutParams holds the parameters for the logout command.
type logoutParams struct {
	Client ClientConfig
}

// LogoutCommand returns the "logout" command. Logout asks the server to
// end the session, then removes the username's entry from the local
// session record. A session the server has already expired is not an
// error; the local entry is removed either way.
func LogoutCommand() *Command {
	var params logoutParams

	return &Command{
		Name:    "logout",
		Summary: "End the session and discard the saved cookie",
		Usage:   "pkgdb logout [flags]",
		Examples: []Example{
			{
				Description: "Log out the configured account",
				Command:     "pkgdb logout",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}
			username := connection.Client.Username()
			if username == "" {
				return Validation("username required (pass --username or set it in the config file)")
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			if err := connection.Client.Logout(callCtx); err != nil {
				return err
			}
			if err := connection.Store.Delete(username); err != nil {
				return Internal("removing saved session: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Logged out %s\n", username)
			return nil
		},
	}
}
