// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/scire-project/scire/cmd/scire/cli"
	"github.com/scire-project/scire/lib/secret"
	"github.com/scire-project/scire/lib/session"
)

func loginCommand(ctx context.Context, streams Streams) *cli.Command {
	var (
		global    globalOptions
		tokenFile string
		noVerify  bool
	)
	return &cli.Command{
		Name:    "login",
		Summary: "Store the access token for this machine",
		Description: `Store the bearer token issued by the identity service.

The token is read from --token-file ("-" for stdin) or prompted for
without echo. Unless --no-verify is given, it is checked against the
profile endpoint before it is saved.`,
		Usage: "scire login [--token-file PATH] [flags]",
		Examples: []cli.Example{
			{Description: "Prompt for the token", Command: "scire login"},
			{Description: "Pipe the token in", Command: "pass show scire | scire login --token-file -"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.StringVar(&tokenFile, "token-file", "", `read the token from a file, or "-" for stdin`)
			flagSet.BoolVar(&noVerify, "no-verify", false, "save without checking the token")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("login takes no arguments")
			}
			buffer, err := readToken(streams, tokenFile)
			if err != nil {
				return err
			}
			defer buffer.Close()
			token := buffer.String()

			env, err := global.setup(streams, setupOptions{Secrets: []string{token}})
			if err != nil {
				return err
			}
			defer env.close()
			env.session = session.Session{Token: token, SavedAt: time.Now().UTC()}

			name := ""
			if !noVerify {
				client := env.client(clientOptions{})
				defer client.Close()
				profile, err := client.LoadProfile(ctx)
				if err != nil {
					return fmt.Errorf("checking token: %w", err)
				}
				name = profile.DisplayName()
			}

			if err := session.Save(env.sessionPath, env.session); err != nil {
				return err
			}
			if name != "" {
				fmt.Fprintf(streams.Out, "Signed in as %s\n", name)
			} else {
				fmt.Fprintf(streams.Out, "Token saved to %s\n", env.sessionPath)
			}
			return nil
		},
	}
}

// readToken takes the token from a file, stdin, or a no-echo prompt.
func readToken(streams Streams, tokenFile string) (*secret.Buffer, error) {
	if tokenFile != "" {
		return secret.ReadFromPath(tokenFile, streams.In)
	}
	stdin, ok := streams.In.(*os.File)
	if !ok {
		return nil, errors.New("no terminal available for the token prompt (use --token-file)")
	}
	buffer, err := secret.ReadTerminal(int(stdin.Fd()), streams.Err, "Token")
	if errors.Is(err, secret.ErrNoTerminal) {
		return nil, fmt.Errorf("%w (use --token-file)", err)
	}
	return buffer, err
}

func logoutCommand(streams Streams) *cli.Command {
	var global globalOptions
	return &cli.Command{
		Name:    "logout",
		Summary: "Forget the stored access token",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("logout", pflag.ContinueOnError)
			global.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("logout takes no arguments")
			}
			env, err := global.setup(streams, setupOptions{})
			if err != nil {
				return err
			}
			defer env.close()
			if err := session.Remove(env.sessionPath); err != nil {
				return err
			}
			fmt.Fprintln(streams.Out, "Signed out")
			return nil
		},
	}
}
