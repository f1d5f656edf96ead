// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/scire-project/scire/cmd/scire/cli"
	"github.com/scire-project/scire/lib/format"
	"github.com/scire-project/scire/lib/messenger"
	"github.com/scire-project/scire/lib/schema"
	"github.com/scire-project/scire/lib/store"
)

// defaultConfirmTimeout bounds the wait for the server's broadcast of
// a command's result.
const defaultConfirmTimeout = 30 * time.Second

func createCommand(ctx context.Context, streams Streams) *cli.Command {
	var (
		global      globalOptions
		title       string
		description string
		attach      []string
		timeout     time.Duration
	)
	return &cli.Command{
		Name:    "create",
		Summary: "Open a new ticket",
		Description: `Open a new ticket and attach files to it.

The command waits for the server to confirm the ticket, then for every
attachment to be uploaded and acknowledged.`,
		Usage: "scire create --title TITLE --description TEXT [--attach PATH]... [flags]",
		Examples: []cli.Example{
			{Command: `scire create --title "Printer jammed" --description "Floor 3" --attach photo.jpg`},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.StringVarP(&title, "title", "t", "", "ticket title (required)")
			flagSet.StringVarP(&description, "description", "d", "", "ticket description (required)")
			flagSet.StringArrayVarP(&attach, "attach", "a", nil, "file to attach (repeatable)")
			flagSet.DurationVar(&timeout, "timeout", defaultConfirmTimeout, "how long to wait for confirmation")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("create takes no positional arguments; use --title and --description")
			}
			env, err := global.setup(streams, setupOptions{RequireSession: true})
			if err != nil {
				return err
			}
			defer env.close()

			created := make(chan int64, 1)
			client := env.client(clientOptions{OnNavigate: func(ticketID int64) {
				select {
				case created <- ticketID:
				default:
				}
			}})
			defer client.Close()

			// The profile identifies this session's own creation broadcast.
			if _, err := client.LoadProfile(ctx); err != nil {
				return err
			}
			client.SetDraft(&title, &description)
			for _, path := range attach {
				if _, err := client.AddPendingPath(path); err != nil {
					return err
				}
			}
			if err := env.connect(ctx, client); err != nil {
				return err
			}
			if err := client.CreateTicket(); err != nil {
				return err
			}

			waitContext, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			var ticketID int64
			select {
			case ticketID = <-created:
			case <-waitContext.Done():
				return fmt.Errorf("ticket sent but not confirmed within %s", timeout)
			}
			fmt.Fprintf(streams.Out, "Created ticket #%d\n", ticketID)

			state, err := awaitState(waitContext, client, attachmentsSettled)
			if err != nil {
				return fmt.Errorf("waiting for attachments: %w", err)
			}
			return reportAttachments(streams, state)
		},
	}
}

// attachmentsSettled reports whether every pending file has been
// acknowledged (and so removed) or has failed.
func attachmentsSettled(state store.State) bool {
	for _, file := range state.PendingFiles {
		if file.State != store.PendingFailed {
			return false
		}
	}
	return true
}

func reportAttachments(streams Streams, state store.State) error {
	failed := 0
	for _, file := range state.PendingFiles {
		failed++
		fmt.Fprintf(streams.Err, "not attached: %s: %s\n", format.File(file.Name, file.Size), file.Err)
	}
	if failed > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// socketCommand builds a command that opens one ticket, connects, and
// runs a socket operation on it.
func socketCommand(parent context.Context, streams Streams, name, summary, usage string, minimumArguments int,
	run func(ctx context.Context, env *environment, client *messenger.Client, args []string) error,
) *cli.Command {
	var (
		global  globalOptions
		timeout time.Duration
	)
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.DurationVar(&timeout, "timeout", defaultConfirmTimeout, "how long to wait for confirmation")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) < minimumArguments {
				return fmt.Errorf("usage: %s", usage)
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

			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()
			if err := client.OpenTicket(ctx, id); err != nil {
				return err
			}
			if err := env.connect(ctx, client); err != nil {
				return err
			}
			return run(ctx, env, client, args[1:])
		},
	}
}

// confirm waits for done, turning a timeout into a note rather than a
// failure: the command was sent and the server may still apply it.
func confirm(ctx context.Context, streams Streams, client *messenger.Client, done func(store.State) bool) error {
	if _, err := awaitState(ctx, client, done); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintln(streams.Err, "sent; no confirmation from the server yet")
			return nil
		}
		return err
	}
	return nil
}

func activeStatus(state store.State) (schema.Status, bool) {
	if state.ActiveTicket == nil {
		return 0, false
	}
	return state.ActiveTicket.Status, true
}

func sendCommand(ctx context.Context, streams Streams) *cli.Command {
	return socketCommand(ctx, streams, "send", "Send a message on a ticket", "scire send ID TEXT... [flags]", 2,
		func(ctx context.Context, env *environment, client *messenger.Client, args []string) error {
			before := len(client.State().Messages)
			client.SetDraftMessage(strings.Join(args, " "))
			if err := client.SendMessage(); err != nil {
				return err
			}
			return confirm(ctx, streams, client, func(state store.State) bool {
				return len(state.Messages) > before
			})
		})
}

func closeCommand(ctx context.Context, streams Streams) *cli.Command {
	return socketCommand(ctx, streams, "close", "Mark a ticket as solved", "scire close ID [flags]", 1,
		func(ctx context.Context, env *environment, client *messenger.Client, _ []string) error {
			if err := client.CloseTicket(); err != nil {
				return err
			}
			err := confirm(ctx, streams, client, func(state store.State) bool {
				status, ok := activeStatus(state)
				return ok && status == schema.StatusSolved
			})
			if err == nil {
				fmt.Fprintln(streams.Out, "Ticket closed")
			}
			return err
		})
}

func reopenCommand(ctx context.Context, streams Streams) *cli.Command {
	return socketCommand(ctx, streams, "reopen", "Reopen a solved ticket", "scire reopen ID [flags]", 1,
		func(ctx context.Context, env *environment, client *messenger.Client, _ []string) error {
			if err := client.ReopenTicket(); err != nil {
				return err
			}
			err := confirm(ctx, streams, client, func(state store.State) bool {
				status, ok := activeStatus(state)
				return ok && status != schema.StatusSolved
			})
			if err == nil {
				fmt.Fprintln(streams.Out, "Ticket reopened")
			}
			return err
		})
}
