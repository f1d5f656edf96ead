// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package messengerui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings for every view. Bindings that collide
// across views are only consulted in the view that owns them.
type KeyMap struct {
	// List view.
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	New     key.Binding
	Refresh key.Binding

	// Create view.
	NextField  key.Binding
	Submit     key.Binding
	RemoveFile key.Binding

	// Chat view.
	Send         key.Binding
	CloseTicket  key.Binding
	ReopenTicket key.Binding
	NextFile     key.Binding
	Download     key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding

	Back key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new ticket"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "create"),
	),
	RemoveFile: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "drop last file"),
	),
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	CloseTicket: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("C-k", "close ticket"),
	),
	ReopenTicket: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "reopen"),
	),
	NextFile: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("C-n", "next file"),
	),
	Download: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("C-g", "download"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("C-u", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("C-d", "scroll down"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
