// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/scire-project/scire/cmd/scire/cli"
	"github.com/scire-project/scire/lib/format"
	"github.com/scire-project/scire/lib/schema"
	"github.com/scire-project/scire/lib/store"
)

// readOnlyCommand builds a command that needs the stored session and
// REST access but no socket.
func readOnlyCommand(streams Streams, name, summary, usage string, arguments int,
	run func(env *environment, args []string) error,
) *cli.Command {
	var global globalOptions
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
			global.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != arguments {
				return fmt.Errorf("usage: %s", usage)
			}
			env, err := global.setup(streams, setupOptions{RequireSession: true})
			if err != nil {
				return err
			}
			defer env.close()
			return run(env, args)
		},
	}
}

func profileCommand(ctx context.Context, streams Streams) *cli.Command {
	return readOnlyCommand(streams, "profile", "Show the signed-in user", "scire profile [flags]", 0,
		func(env *environment, _ []string) error {
			client := env.client(clientOptions{})
			defer client.Close()
			profile, err := client.LoadProfile(ctx)
			if err != nil {
				return err
			}
			printProfile(streams.Out, profile)
			return nil
		})
}

func printProfile(w io.Writer, profile schema.Profile) {
	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(table, "Name:\t%s\n", profile.DisplayName())
	fmt.Fprintf(table, "Username:\t%s\n", profile.Username)
	rows := []struct {
		label string
		value string
	}{
		{"Company:", profile.CompanyName()},
		{"Department:", optional(profile.Department)},
		{"Post:", optional(profile.Post)},
		{"Phone:", optional(profile.Phone)},
		{"Mobile:", optional(profile.Cellular)},
		{"Workplace:", optional(profile.LocalWorkplace)},
	}
	for _, row := range rows {
		if row.value != "" {
			fmt.Fprintf(table, "%s\t%s\n", row.label, row.value)
		}
	}
	table.Flush()
}

func optional(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func ticketsCommand(ctx context.Context, streams Streams) *cli.Command {
	return readOnlyCommand(streams, "tickets", "List tickets, newest first", "scire tickets [flags]", 0,
		func(env *environment, _ []string) error {
			client := env.client(clientOptions{})
			defer client.Close()
			if err := client.LoadTickets(ctx); err != nil {
				return err
			}
			printTickets(streams.Out, client.State().Tickets, env.zone, time.Now())
			return nil
		})
}

func printTickets(w io.Writer, tickets []schema.Ticket, zone *time.Location, now time.Time) {
	if len(tickets) == 0 {
		fmt.Fprintln(w, "No tickets")
		return
	}
	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tSTATUS\tTITLE\tASSIGNED\tCREATED\tUPDATED")
	for _, ticket := range tickets {
		fmt.Fprintf(table, "#%d\t%s\t%s\t%s\t%s\t%s\n",
			ticket.ID, ticket.Status.Label(), ticket.Title, format.Assignee(ticket),
			format.Time(ticket.CreatedAt.Time, zone), format.Ago(ticket.UpdatedAt.Time, now))
	}
	table.Flush()
}

func showCommand(ctx context.Context, streams Streams) *cli.Command {
	return readOnlyCommand(streams, "show", "Show a ticket and its conversation", "scire show ID [flags]", 1,
		func(env *environment, args []string) error {
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			client := env.client(clientOptions{})
			defer client.Close()
			if err := client.OpenTicket(ctx, id); err != nil {
				return err
			}
			printConversation(streams.Out, client.State(), env.zone, time.Now())
			return nil
		})
}

func printConversation(w io.Writer, state store.State, zone *time.Location, now time.Time) {
	ticket := state.ActiveTicket
	if ticket == nil {
		return
	}
	fmt.Fprintf(w, "#%d %s\n", ticket.ID, ticket.Title)
	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(table, "Status:\t%s\n", ticket.Status.Label())
	fmt.Fprintf(table, "From:\t%s\n", ticket.OwnerName)
	fmt.Fprintf(table, "Assigned:\t%s\n", format.Assignee(*ticket))
	if created := format.Time(ticket.CreatedAt.Time, zone); created != "" {
		fmt.Fprintf(table, "Created:\t%s (%s)\n", created, format.Ago(ticket.CreatedAt.Time, now))
	}
	table.Flush()

	if ticket.Description != "" {
		fmt.Fprintf(w, "\n%s\n", ticket.Description)
	}
	if len(state.ActiveFiles) > 0 {
		fmt.Fprintln(w, "\nFiles:")
		for _, file := range state.ActiveFiles {
			fmt.Fprintf(w, "  %s  %s\n", format.File(file.Name, file.Size), file.UUID)
		}
	}
	if len(state.Messages) > 0 {
		fmt.Fprintln(w, "\nMessages:")
		for _, message := range state.Messages {
			for _, line := range strings.Split(format.MessageBlock(message), "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
}
