// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package format renders tickets, files and messages as the plain text
// lines the CLI prints and the terminal UI styles.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/scire-project/scire/lib/schema"
)

// DefaultUTCOffset is the display zone offset in hours used when the
// configuration does not set one.
const DefaultUTCOffset = 4

// timeLayout renders as "HH:MM - DD.MM.YYYY".
const timeLayout = "15:04 - 02.01.2006"

// Zone returns a fixed zone offset hours from UTC, named "UTC+4"
// style.
func Zone(offsetHours int) *time.Location {
	if offsetHours == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// Time renders t in zone. The zero time renders as the empty string.
func Time(t time.Time, zone *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if zone == nil {
		zone = Zone(DefaultUTCOffset)
	}
	return t.In(zone).Format(timeLayout)
}

// Ago renders t relative to now ("3 minutes ago").
func Ago(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FileSize renders a byte count with SI units ("1.2 MB").
func FileSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

// File renders "name - size".
func File(name string, size int64) string {
	return name + " - " + FileSize(size)
}

// Message renders the single line for a message. Status and presence
// notices use the admin's name; chat lines are prefixed with the
// author.
func Message(message schema.Message) string {
	switch message.Kind {
	case schema.MessageMarkedPending:
		return adminLine(message, "marked ticket as "+schema.StatusPending.Label())
	case schema.MessageMarkedInProgress:
		return adminLine(message, "marked ticket as "+schema.StatusInProgress.Label())
	case schema.MessageMarkedSolved:
		return adminLine(message, "marked ticket as "+schema.StatusSolved.Label())
	case schema.MessageAdminConnected:
		return adminLine(message, "connected")
	case schema.MessageAdminDisconnected:
		return adminLine(message, "disconnected")
	case schema.MessageUserMarkedSolved:
		return message.UserName + " marked ticket as " + schema.StatusSolved.Label()
	}
	if message.ByAdmin() {
		return "[Admin] " + message.AdminName + ": " + message.Text
	}
	return message.UserName + ": " + message.Text
}

func adminLine(message schema.Message, event string) string {
	return "[Admin] " + message.AdminName + " " + event
}

// MessageBlock renders the message line followed by one indented line
// per attached file.
func MessageBlock(message schema.Message) string {
	if len(message.Files) == 0 {
		return Message(message)
	}
	var builder strings.Builder
	builder.WriteString(Message(message))
	for _, file := range message.Files {
		builder.WriteString("\n    ")
		builder.WriteString(File(file.Name, file.Size))
	}
	return builder.String()
}

// Assignee is the assigned admin's name, or "None".
func Assignee(ticket schema.Ticket) string {
	if ticket.AssigneeName == "" {
		return "None"
	}
	return ticket.AssigneeName
}
