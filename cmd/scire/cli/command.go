// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the command tree.
type Command struct {
	// Name is what the user types.
	Name string

	// Summary is the one-line description in the parent's listing.
	Summary string

	// Description is shown in the command's own help.
	Description string

	// Usage overrides the synthesized usage line.
	Usage string

	Examples []Example

	// Flags builds the command's flag set. It is called for every
	// parse and for help, so it binds fresh variables or variables the
	// command resets itself.
	Flags func() *pflag.FlagSet

	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing.
	Run func(args []string) error

	// Output receives help text. Defaults to the parent's, then
	// os.Stderr.
	Output io.Writer

	parent *Command
}

// Example is a usage example shown in help.
type Example struct {
	Description string
	Command     string
}

// UsageError is a command line the tree could not act on. main prints
// it and exits 2.
type UsageError struct {
	// Command is the full name of the command that rejected the line.
	Command string

	Problem string

	// Suggestion is the nearest valid spelling, when one is close.
	Suggestion string
}

func (e *UsageError) Error() string {
	var builder strings.Builder
	builder.WriteString(e.Problem)
	if e.Suggestion != "" {
		fmt.Fprintf(&builder, " (did you mean %s?)", e.Suggestion)
	}
	fmt.Fprintf(&builder, "\n\nRun '%s --help' for usage.", e.Command)
	return builder.String()
}

func (e *UsageError) ExitCode() int { return 2 }

// Execute parses args and runs the matching subcommand, or this
// command's Run.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.output())
		return nil
	}

	if len(c.Subcommands) > 0 {
		if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
			sub, err := c.lookup(args[0])
			if err != nil {
				return err
			}
			return sub.Execute(args[1:])
		}
		if c.Run == nil {
			c.PrintHelp(c.output())
			return &UsageError{Command: c.fullName(), Problem: "a command is required"}
		}
	}

	positional, err := c.parseFlags(args)
	if err != nil {
		return err
	}
	if c.Run == nil {
		return fmt.Errorf("%s has nothing to run", c.fullName())
	}
	return c.Run(positional)
}

// lookup finds the named subcommand and links it to c.
func (c *Command) lookup(name string) (*Command, error) {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			sub.parent = c
			return sub, nil
		}
	}
	usage := &UsageError{Command: c.fullName(), Problem: fmt.Sprintf("unknown command %q", name)}
	if suggestion := suggestCommand(name, c.Subcommands); suggestion != "" {
		usage.Suggestion = fmt.Sprintf("%q", suggestion)
	}
	return nil, usage
}

// parseFlags returns the positional arguments. Flag errors carry a
// suggestion when an unknown flag is a near miss.
func (c *Command) parseFlags(args []string) ([]string, error) {
	if c.Flags == nil {
		return args, nil
	}
	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		usage := &UsageError{Command: c.fullName(), Problem: err.Error()}
		if strings.Contains(err.Error(), "unknown flag") || strings.Contains(err.Error(), "unknown shorthand") {
			usage.Suggestion = suggestFlag(args, c.Flags())
		}
		return nil, usage
	}
	return flagSet.Args(), nil
}

// PrintHelp writes the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	if text := c.Description; text != "" {
		fmt.Fprintf(w, "%s\n\n", text)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", c.usageLine())
	c.writeSubcommands(w)
	c.writeFlags(w)
	c.writeExamples(w)
	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", c.fullName())
	}
}

func (c *Command) usageLine() string {
	switch {
	case c.Usage != "":
		return c.Usage
	case len(c.Subcommands) > 0:
		return c.fullName() + " <command> [flags]"
	default:
		return c.fullName() + " [flags]"
	}
}

func (c *Command) writeSubcommands(w io.Writer) {
	if len(c.Subcommands) == 0 {
		return
	}
	fmt.Fprintf(w, "\nCommands:\n")
	table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for _, sub := range c.Subcommands {
		fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
	}
	table.Flush()
}

func (c *Command) writeFlags(w io.Writer) {
	if c.Flags == nil {
		return
	}
	if defaults := c.Flags().FlagUsages(); defaults != "" {
		fmt.Fprintf(w, "\nFlags:\n%s", defaults)
	}
}

func (c *Command) writeExamples(w io.Writer) {
	if len(c.Examples) == 0 {
		return
	}
	fmt.Fprintf(w, "\nExamples:\n")
	for _, example := range c.Examples {
		if example.Description != "" {
			fmt.Fprintf(w, "  # %s\n", example.Description)
		}
		fmt.Fprintf(w, "  %s\n", example.Command)
	}
}

func (c *Command) output() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.Output != nil {
			return command.Output
		}
	}
	return os.Stderr
}

func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
