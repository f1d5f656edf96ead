// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/scire-project/scire/cmd/scire/cli"
	"github.com/scire-project/scire/lib/version"
)

func versionCommand(streams Streams) *cli.Command {
	var full bool
	return &cli.Command{
		Name:    "version",
		Summary: "Print build information",
		Usage:   "scire version [--full]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.BoolVar(&full, "full", false, "include the Go toolchain and platform")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("version takes no arguments")
			}
			if full {
				fmt.Fprintln(streams.Out, version.Full())
			} else {
				fmt.Fprintln(streams.Out, version.Info())
			}
			return nil
		},
	}
}
