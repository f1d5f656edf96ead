// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package messengerui is the terminal front end for a messenger
// session, built on bubbletea.
//
// It has three views: the ticket list, the new-ticket form, and the
// conversation for one ticket. Every view renders the session's store
// snapshot; keystrokes call session operations and the resulting
// changes come back through the store subscription. Failures reach the
// status bar through [LogHandler], which receives the warnings
// notice.LogNotifier writes.
//
// The owner of the tea.Program wires [LogHandler.SetProgram] and
// [Relay.SetProgram] once the program exists, and passes the relay's
// methods as the session's connection and navigation hooks.
package messengerui
