// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package messengerui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/scire-project/scire/lib/schema"
)

// Theme is the palette for the messenger views. Colors are ANSI
// 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	StatusPending    lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusSolved     lipgloss.Color

	// AdminText colors messages written by support staff.
	AdminText lipgloss.Color

	// NoticeText colors status notices inside a conversation.
	NoticeText lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	WarningText lipgloss.Color
	ErrorText   lipgloss.Color

	ConnectedText    lipgloss.Color
	DisconnectedText lipgloss.Color
}

// StatusColor returns the color for a ticket status.
func (theme Theme) StatusColor(status schema.Status) lipgloss.Color {
	switch status {
	case schema.StatusInProgress:
		return theme.StatusInProgress
	case schema.StatusSolved:
		return theme.StatusSolved
	default:
		return theme.StatusPending
	}
}

// DefaultTheme targets dark 256-color terminals.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusPending:    lipgloss.Color("75"),  // blue
	StatusInProgress: lipgloss.Color("220"), // amber
	StatusSolved:     lipgloss.Color("114"), // green

	AdminText:  lipgloss.Color("141"),
	NoticeText: lipgloss.Color("244"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	WarningText: lipgloss.Color("214"),
	ErrorText:   lipgloss.Color("196"),

	ConnectedText:    lipgloss.Color("114"),
	DisconnectedText: lipgloss.Color("196"),
}
