// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands defines the scire command tree.
package commands

import (
	"context"

	"github.com/scire-project/scire/cmd/scire/cli"
)

// Root returns the top-level command. ctx bounds every network call
// and is cancelled on interrupt by main.
func Root(ctx context.Context, streams Streams) *cli.Command {
	return &cli.Command{
		Name:        "scire",
		Description: "Scire support tickets from the terminal.",
		Output:      streams.Err,
		Subcommands: []*cli.Command{
			loginCommand(ctx, streams),
			logoutCommand(streams),
			profileCommand(ctx, streams),
			ticketsCommand(ctx, streams),
			showCommand(ctx, streams),
			createCommand(ctx, streams),
			sendCommand(ctx, streams),
			closeCommand(ctx, streams),
			reopenCommand(ctx, streams),
			downloadCommand(ctx, streams),
			uiCommand(ctx, streams),
			versionCommand(streams),
		},
	}
}
