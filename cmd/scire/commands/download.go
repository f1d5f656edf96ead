// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/scire-project/scire/cmd/scire/cli"
	"github.com/scire-project/scire/lib/format"
	"github.com/scire-project/scire/lib/notice"
	"github.com/scire-project/scire/lib/schema"
)

func downloadCommand(ctx context.Context, streams Streams) *cli.Command {
	var (
		global globalOptions
		output string
	)
	return &cli.Command{
		Name:    "download",
		Summary: "Save a file attached to a ticket",
		Description: `Save a file attached to a ticket.

FILE is a file name or storage uuid from "scire show". It may be
omitted when the ticket has exactly one file. The file is written to
--output, or to its own name in the working directory.`,
		Usage: "scire download ID [FILE] [--output PATH] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("download", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.StringVarP(&output, "output", "o", "", "where to write the file")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return fmt.Errorf("usage: scire download ID [FILE] [--output PATH]")
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			env, err := global.setup(streams, setupOptions{RequireSession: true})
			if err != nil {
				return err
			}
			defer env.close()

			client := env.client(clientOptions{})
			defer client.Close()
			if err := client.OpenTicket(ctx, id); err != nil {
				return err
			}
			selector := ""
			if len(args) == 2 {
				selector = args[1]
			}
			file, err := selectFile(streams.Err, client.State().ActiveFiles, selector)
			if err != nil {
				return err
			}
			path, err := client.SaveFile(ctx, file, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(streams.Out, "Saved %s to %s\n", format.File(file.Name, file.Size), path)
			return nil
		},
	}
}

// selectFile picks the file named or identified by selector. With no
// selector the ticket must have exactly one file; otherwise the
// choices are listed on w.
func selectFile(w io.Writer, files []schema.TicketFile, selector string) (schema.TicketFile, error) {
	if selector == "" {
		switch len(files) {
		case 0:
			return schema.TicketFile{}, notice.Validation("the ticket has no files")
		case 1:
			return files[0], nil
		}
		listFiles(w, files)
		return schema.TicketFile{}, notice.Validation("the ticket has %d files; name one", len(files))
	}

	var matches []schema.TicketFile
	for _, file := range files {
		if file.UUID == selector || file.Name == selector {
			matches = append(matches, file)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		listFiles(w, files)
		return schema.TicketFile{}, notice.Validation("no file %q on this ticket", selector)
	default:
		listFiles(w, matches)
		return schema.TicketFile{}, notice.Validation("%d files are named %q; use the uuid", len(matches), selector)
	}
}

func listFiles(w io.Writer, files []schema.TicketFile) {
	for _, file := range files {
		fmt.Fprintf(w, "  %s  %s\n", format.File(file.Name, file.Size), file.UUID)
	}
}
