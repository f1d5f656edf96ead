// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Command scire is the terminal client for the Scire support desk.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/scire-project/scire/cmd/scire/cli"
	"github.com/scire-project/scire/cmd/scire/commands"
)

func main() {
	err := run()
	if err == nil {
		return
	}
	var exit *cli.ExitError
	if errors.As(err, &exit) {
		os.Exit(exit.Code)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	var usage *cli.UsageError
	if errors.As(err, &usage) {
		os.Exit(usage.ExitCode())
	}
	os.Exit(1)
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root(ctx, commands.StandardStreams()).Execute(os.Args[1:])
}
