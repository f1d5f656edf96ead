// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/scire-project/scire/cmd/scire/cli"
	"github.com/scire-project/scire/lib/messengerui"
)

func uiCommand(ctx context.Context, streams Streams) *cli.Command {
	var (
		global        globalOptions
		metricsListen string
		downloadDir   string
	)
	return &cli.Command{
		Name:    "ui",
		Summary: "Open the interactive ticket messenger",
		Description: `Open the interactive ticket messenger.

Logs go to the configured log file, or to a file next to the session
when none is configured, because the terminal belongs to the UI.
Warnings and errors also appear in the status bar.`,
		Usage: "scire ui [--metrics-listen ADDR] [--download-dir DIR] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("ui", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.StringVar(&metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address (default from config)")
			flagSet.StringVar(&downloadDir, "download-dir", "", "directory for saved attachments (default: working directory)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("ui takes no arguments")
			}
			statusBar := messengerui.NewLogHandler(slog.LevelWarn)
			env, err := global.setup(streams, setupOptions{
				RequireSession: true,
				LogFileOnly:    true,
				Also:           []slog.Handler{statusBar},
			})
			if err != nil {
				return err
			}
			defer env.close()

			if metricsListen == "" {
				metricsListen = env.config.Metrics.Listen
			}
			var registry *prometheus.Registry
			if metricsListen != "" {
				registry = prometheus.NewRegistry()
				stop, err := serveMetrics(env.logger.Logger, metricsListen, registry)
				if err != nil {
					return err
				}
				defer stop()
			}

			relay := &messengerui.Relay{}
			options := clientOptions{
				OnConnectionState: relay.ConnectionState,
				OnNavigate:        relay.Navigate,
			}
			if registry != nil {
				options.Registerer = registry
			}
			client := env.client(options)
			defer client.Close()

			uiContext, cancel := context.WithCancel(ctx)
			defer cancel()
			client.Start(uiContext)

			model := messengerui.NewModel(uiContext, client, messengerui.Options{
				Zone:        env.zone,
				DownloadDir: downloadDir,
			})
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(uiContext))
			statusBar.SetProgram(program)
			relay.SetProgram(program)

			_, err = program.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}

// serveMetrics serves registry on /metrics until the returned stop
// function is called.
func serveMetrics(logger *slog.Logger, address string, registry *prometheus.Registry) (func(), error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "address", listener.Addr().String())
	return func() {
		shutdownContext, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdownContext)
	}, nil
}
