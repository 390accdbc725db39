// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/packagedb/pkgdb-go/lib/secret"
)

// loginParams holds the parameters for the login command.
type loginParams struct {
	Client       ClientConfig
	PasswordFile string `flag:"password-file" desc:"File containing the password, or - to read stdin (default: prompt)"`
	Force        bool   `flag:"force" desc:"Re-authenticate even when a saved session exists"`
}

// LoginCommand returns the "login" command for establishing a session.
// The session cookie lands in the session record file; subsequent
// commands that modify the database use it transparently, so a password
// is needed only here.
func LoginCommand() *Command {
	var params loginParams

	return &Command{
		Name:    "login",
		Summary: "Authenticate and save the session",
		Description: `Log in to the PackageDB server and save the session cookie locally.

After login, commands that modify the database use the saved session
without prompting. When the server eventually expires the session,
commands start failing with an authentication error; run login --force
to replace it.

The session record lives at ~/.config/pkgdb/session.json (or
$PKGDB_SESSION_FILE, or the configured session_file) with owner-only
permissions.`,
		Usage: "pkgdb login [username] [flags]",
		Examples: []Example{
			{
				Description: "Log in interactively (prompts for password)",
				Command:     "pkgdb login jrandom",
			},
			{
				Description: "Log in with the password read from a file",
				Command:     "pkgdb login jrandom --password-file ~/.pkgdb-password",
			},
			{
				Description: "Replace a session the server has expired",
				Command:     "pkgdb login jrandom --force",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 1 {
				return Validation("unexpected argument: %s", args[1])
			}
			if len(args) == 1 {
				params.Client.Username = args[0]
			}

			connection, err := params.Client.Connect(nil)
			if err != nil {
				return err
			}
			username := connection.Client.Username()
			if username == "" {
				return Validation("username required (pass it as an argument, with --username, or in the config file)")
			}

			if !params.Force {
				if _, err := connection.Store.Load(username); err == nil {
					fmt.Fprintf(os.Stderr, "Already logged in as %s. Use --force to re-authenticate.\n", username)
					return nil
				}
			}

			passwordBuffer, err := readLoginPassword(params.PasswordFile)
			if err != nil {
				return err
			}
			defer passwordBuffer.Close()

			// Rebuild the connection with the password attached.
			connection, err = params.Client.Connect(passwordBuffer)
			if err != nil {
				return err
			}

			callCtx, cancel := connection.Context(ctx)
			defer cancel()

			if err := connection.Client.Authenticate(callCtx, true); err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Logged in as %s\n", username)
			fmt.Fprintf(os.Stderr, "Session saved to %s\n", connection.Store.Path())
			return nil
		},
	}
}

// readLoginPassword reads the password for the login command. With a
// path it reads the file ("-" reads stdin); otherwise it prompts on the
// terminal with echo disabled.
func readLoginPassword(passwordFile string) (*secret.Buffer, error) {
	if passwordFile != "" {
		buffer, err := secret.ReadFromPath(passwordFile)
		if err != nil {
			return nil, Validation("reading password: %v", err)
		}
		return buffer, nil
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return nil, Validation("no terminal for the password prompt (use --password-file, or - for stdin)")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, Internal("reading password: %w", err)
	}

	buffer, err := secret.NewFromBytes(passwordBytes)
	if err != nil {
		secret.Zero(passwordBytes)
		return nil, err
	}
	return buffer, nil
}
