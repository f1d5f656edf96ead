// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging constructs the slog loggers used by the client.
//
// Output goes to stderr as text when stderr is a terminal and as JSON
// otherwise, or to a size-rotated file when one is configured. The
// terminal UI always logs to a file because it owns the screen.
// Every logger masks the registered secrets (the session token) before
// a record reaches its sink.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// File, when set, sends output to a rotating log file instead of
	// Stderr. The file is always JSON.
	File       string
	MaxSizeMB  int
	MaxBackups int

	// Stderr defaults to os.Stderr. Tests substitute a buffer.
	Stderr io.Writer

	// Secrets are replaced with [REDACTED] wherever they appear in a
	// message or string attribute.
	Secrets []string

	// Also receive every record alongside the main sink, after
	// masking. The terminal UI adds its status-bar handler here.
	Also []slog.Handler
}

// Logger is a configured logger plus the file sink it may own.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// New builds a Logger from options.
func New(options Options) (*Logger, error) {
	level, err := ParseLevel(options.Level)
	if err != nil {
		return nil, err
	}
	handlerOptions := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	var closer io.Closer
	switch {
	case options.File != "":
		rotating := &lumberjack.Logger{
			Filename:   options.File,
			MaxSize:    options.MaxSizeMB,
			MaxBackups: options.MaxBackups,
		}
		handler = slog.NewJSONHandler(rotating, handlerOptions)
		closer = rotating
	case options.Stderr != nil:
		handler = slog.NewTextHandler(options.Stderr, handlerOptions)
	case term.IsTerminal(int(os.Stderr.Fd())):
		handler = slog.NewTextHandler(os.Stderr, handlerOptions)
	default:
		handler = slog.NewJSONHandler(os.Stderr, handlerOptions)
	}

	if len(options.Also) > 0 {
		handler = Tee(append([]slog.Handler{handler}, options.Also...)...)
	}
	return &Logger{
		Logger: slog.New(NewMaskingHandler(handler, options.Secrets...)),
		closer: closer,
	}, nil
}

// ParseLevel maps a level name onto a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", name)
}
