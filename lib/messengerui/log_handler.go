// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package messengerui

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scire-project/scire/lib/connection"
)

// statusMsg carries a log record to the status bar.
type statusMsg struct {
	Text  string
	Level slog.Level
}

// statusFadeMsg clears the status bar once its message has been shown
// long enough. Sequence ties it to the message it was scheduled for so
// a fade never clears a newer message.
type statusFadeMsg struct {
	Sequence int
}

// statusFadeDelay is how long a status message stays visible.
const statusFadeDelay = 5 * time.Second

// LogHandler is a slog.Handler that routes records into a running
// program's status bar. Notices from the sync core are logged at Warn
// by notice.LogNotifier, so this is how failures reach the screen.
//
// Records that arrive before SetProgram are dropped. Handlers derived
// through WithAttrs and WithGroup share the program pointer.
type LogHandler struct {
	level   slog.Level
	program *atomic.Pointer[tea.Program]
	attrs   []slog.Attr
	group   string
}

// NewLogHandler creates a handler delivering records at or above
// level.
func NewLogHandler(level slog.Level) *LogHandler {
	return &LogHandler{level: level, program: &atomic.Pointer[tea.Program]{}}
}

// SetProgram enables delivery. Safe from any goroutine.
func (handler *LogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

func (handler *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

func (handler *LogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}
	program.Send(statusMsg{Text: handler.summary(record), Level: record.Level})
	return nil
}

// summary renders "message (key=value, ...)". The category attribute
// notices carry is shown as a prefix instead.
func (handler *LogHandler) summary(record slog.Record) string {
	var category string
	var parts []string
	add := func(attr slog.Attr) {
		if attr.Key == "category" && handler.group == "" {
			category = attr.Value.String()
			return
		}
		key := attr.Key
		if handler.group != "" {
			key = handler.group + "." + key
		}
		parts = append(parts, key+"="+attr.Value.String())
	}
	for _, attr := range handler.attrs {
		add(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		add(attr)
		return true
	})

	var builder strings.Builder
	if category != "" {
		builder.WriteString(category)
		builder.WriteString(": ")
	}
	builder.WriteString(record.Message)
	if len(parts) > 0 {
		builder.WriteString(" (")
		builder.WriteString(strings.Join(parts, ", "))
		builder.WriteString(")")
	}
	return builder.String()
}

func (handler *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *handler
	clone.attrs = append(append([]slog.Attr(nil), handler.attrs...), attrs...)
	return &clone
}

func (handler *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	clone := *handler
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// Relay forwards sync core callbacks into the program. Pass
// Relay.ConnectionState as messenger.Config.OnConnectionState and
// Relay.Navigate as OnNavigate.
type Relay struct {
	program atomic.Pointer[tea.Program]
}

// SetProgram enables delivery. Callbacks before it are dropped; the
// model reads the current connection state at Init.
func (relay *Relay) SetProgram(program *tea.Program) {
	relay.program.Store(program)
}

func (relay *Relay) ConnectionState(state connection.State) {
	if program := relay.program.Load(); program != nil {
		program.Send(connectionMsg{State: state})
	}
}

func (relay *Relay) Navigate(ticketID int64) {
	if program := relay.program.Load(); program != nil {
		program.Send(navigateMsg{TicketID: ticketID})
	}
}
