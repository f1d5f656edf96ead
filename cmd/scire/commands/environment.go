// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/scire-project/scire/lib/clock"
	"github.com/scire-project/scire/lib/config"
	"github.com/scire-project/scire/lib/connection"
	"github.com/scire-project/scire/lib/format"
	"github.com/scire-project/scire/lib/logging"
	"github.com/scire-project/scire/lib/messenger"
	"github.com/scire-project/scire/lib/metrics"
	"github.com/scire-project/scire/lib/notice"
	"github.com/scire-project/scire/lib/restapi"
	"github.com/scire-project/scire/lib/session"
	"github.com/scire-project/scire/lib/store"
)

// Streams are the process's standard streams. Tests substitute
// buffers.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StandardStreams returns os.Stdin, os.Stdout and os.Stderr.
func StandardStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// globalOptions are accepted by every command.
type globalOptions struct {
	ConfigPath string
	LogLevel   string
}

func (options *globalOptions) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&options.ConfigPath, "config", "", "configuration file (default $SCIRE_CONFIG)")
	flagSet.StringVar(&options.LogLevel, "log-level", "", "override the configured log level")
}

// environment is the loaded configuration, logger and session for one
// command invocation.
type environment struct {
	streams     Streams
	config      *config.Config
	logger      *logging.Logger
	sessionPath string
	session     session.Session
	zone        *time.Location
}

// setupOptions adjust setup for commands with special needs.
type setupOptions struct {
	// RequireSession fails when no session is stored.
	RequireSession bool

	// LogFileOnly forces the file sink, for commands that own the
	// terminal. An empty configured file falls back to a file next to
	// the session.
	LogFileOnly bool

	// Also receive log records alongside the main sink.
	Also []slog.Handler

	// Secrets are masked in addition to the stored token.
	Secrets []string
}

func (options *globalOptions) setup(streams Streams, setup setupOptions) (*environment, error) {
	loaded, err := config.Load(options.ConfigPath)
	if err != nil {
		return nil, err
	}

	sessionPath := loaded.Session.Path
	if sessionPath == "" {
		sessionPath = session.DefaultPath()
	}
	stored, err := session.Load(sessionPath)
	if err != nil && (setup.RequireSession || !errors.Is(err, session.ErrNoSession)) {
		return nil, err
	}

	level := loaded.Logging.Level
	if options.LogLevel != "" {
		level = options.LogLevel
	}
	logOptions := logging.Options{
		Level:      level,
		File:       loaded.Logging.File,
		MaxSizeMB:  loaded.Logging.MaxSizeMB,
		MaxBackups: loaded.Logging.MaxBackups,
		Also:       setup.Also,
		Secrets:    setup.Secrets,
	}
	if stored.Token != "" {
		logOptions.Secrets = append(logOptions.Secrets, stored.Token)
	}
	if setup.LogFileOnly && logOptions.File == "" {
		logOptions.File = sessionPath + ".log"
	}
	if _, isFile := streams.Err.(*os.File); !isFile {
		logOptions.Stderr = streams.Err
	}
	logger, err := logging.New(logOptions)
	if err != nil {
		return nil, err
	}

	return &environment{
		streams:     streams,
		config:      loaded,
		logger:      logger,
		sessionPath: sessionPath,
		session:     stored,
		zone:        format.Zone(loaded.Display.UTCOffset),
	}, nil
}

func (env *environment) close() {
	env.logger.Close()
}

// clientOptions adjust the messenger client for a command.
type clientOptions struct {
	Notifier          notice.Notifier
	OnConnectionState func(connection.State)
	OnNavigate        func(int64)
	Registerer        prometheus.Registerer
}

// client builds a messenger client for the stored session.
func (env *environment) client(options clientOptions) *messenger.Client {
	var collectors *metrics.Metrics
	if options.Registerer != nil {
		collectors = metrics.New(options.Registerer)
	}
	endpoints := env.config.Endpoints
	return messenger.New(messenger.Config{
		Endpoints: restapi.Endpoints{
			Identity: endpoints.Identity,
			API:      endpoints.API,
			Storage:  endpoints.Storage,
		},
		SocketURL:  endpoints.Socket,
		Token:      env.session.Token,
		HTTPClient: &http.Client{Timeout: env.config.HTTP.Timeout},
		Dialer: connection.WebsocketDialer{
			HandshakeTimeout: env.config.Connection.HandshakeTimeout,
			WriteTimeout:     env.config.Connection.WriteTimeout,
		},
		Clock:             clock.Real(),
		ReconnectDelay:    env.config.Connection.ReconnectDelay,
		Notifier:          options.Notifier,
		OnConnectionState: options.OnConnectionState,
		OnNavigate:        options.OnNavigate,
		Logger:            env.logger.Logger,
		Metrics:           collectors,
	})
}

// connect starts client and waits for the socket, bounded by the
// handshake timeout plus one reconnect delay.
func (env *environment) connect(ctx context.Context, client *messenger.Client) error {
	client.Start(ctx)
	wait := env.config.Connection.HandshakeTimeout + env.config.Connection.ReconnectDelay
	waitContext, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	if err := client.AwaitOpen(waitContext); err != nil {
		return fmt.Errorf("connecting to %s: %w", env.config.Endpoints.Socket, err)
	}
	return nil
}

// awaitState blocks until done accepts the client's state or ctx ends.
func awaitState(ctx context.Context, client *messenger.Client, done func(store.State) bool) (store.State, error) {
	changes := client.Subscribe()
	state := client.State()
	for !done(state) {
		select {
		case change, ok := <-changes:
			if !ok {
				return state, errors.New("session closed")
			}
			state = change.State
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
	return state, nil
}

// parseTicketID reads a ticket id argument, with or without a
// leading #.
func parseTicketID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, notice.Validation("ticket id %q is not a positive number", arg)
	}
	return id, nil
}
