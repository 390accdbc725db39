// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/packagedb/pkgdb-go/cmd/pkgdb/cli"
	"github.com/packagedb/pkgdb-go/cmd/pkgdb/commands"
)

func main() {
	if err := run(); err != nil {
		// A command that has already printed its own diagnostics
		// returns an ExitError carrying the status it wants. Don't
		// print a redundant "error:" line for those.
		var silent *cli.ExitError
		if errors.As(err, &silent) {
			os.Exit(silent.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(cli.ExitCodeFor(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cli.NewCommandLogger(false)
	return commands.Root().Execute(ctx, os.Args[1:], logger)
}
