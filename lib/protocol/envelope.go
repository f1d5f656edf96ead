// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol defines the socket envelope and its action
// variants.
//
// Every frame in either direction is a JSON object {"action", "data"}.
// Inbound frames decode into one of the [Event] variants; an action the
// client does not know decodes into [Unknown] rather than an error, so
// the caller decides how to surface it. Outbound frames are built from
// [Command] values by [Encode].
package protocol

import (
	"encoding/json"
	"fmt"
)

// Action names used on the wire.
const (
	ActionCreateTicket     = "create_ticket"
	ActionAddFileToTicket  = "add_file_to_ticket"
	ActionSendMessage      = "send_message"
	ActionCloseTicket      = "close_ticket"
	ActionReopenTicket     = "reopen_ticket"
	ActionSetTicketStatus  = "set_ticket_status"
	ActionAssignTicket     = "assign_ticket"
	ActionConnectTicket    = "connect_ticket"
	ActionDisconnectTicket = "disconnect_ticket"
)

// Envelope is the raw frame shape.
type Envelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// ParseEnvelope decodes the outer frame without interpreting data.
func ParseEnvelope(frame []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if envelope.Action == "" {
		return Envelope{}, fmt.Errorf("envelope has no action")
	}
	return envelope, nil
}
