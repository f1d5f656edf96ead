// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/scire-project/scire/lib/schema"
)

// Event is a decoded server-to-client frame. The set of variants is
// closed; switch on the concrete type and treat [Unknown] as the
// fallback.
type Event interface {
	Action() string
	event()
}

// TicketCreated announces a new ticket.
type TicketCreated struct{ Ticket schema.Ticket }

// FileAttached acknowledges one add_file_to_ticket command.
type FileAttached struct{ File schema.TicketFile }

// MessageSent carries a new message in some ticket's conversation.
type MessageSent struct{ Message schema.MessageRecord }

// TicketClosed carries a ticket after it was closed.
type TicketClosed struct{ Ticket schema.Ticket }

// TicketReopened carries a ticket after it was reopened.
type TicketReopened struct{ Ticket schema.Ticket }

// StatusSet carries a ticket after an admin changed its status.
type StatusSet struct{ Ticket schema.Ticket }

// TicketAssigned carries a ticket after an admin took it.
type TicketAssigned struct{ Ticket schema.Ticket }

// AdminConnected signals an admin opening the ticket's conversation.
type AdminConnected struct{ Ticket schema.Ticket }

// AdminDisconnected signals an admin leaving the conversation.
type AdminDisconnected struct{ Ticket schema.Ticket }

// Unknown is any frame whose action the client does not recognize.
type Unknown struct {
	Name string
	Data json.RawMessage
}

func (TicketCreated) Action() string     { return ActionCreateTicket }
func (FileAttached) Action() string      { return ActionAddFileToTicket }
func (MessageSent) Action() string       { return ActionSendMessage }
func (TicketClosed) Action() string      { return ActionCloseTicket }
func (TicketReopened) Action() string    { return ActionReopenTicket }
func (StatusSet) Action() string         { return ActionSetTicketStatus }
func (TicketAssigned) Action() string    { return ActionAssignTicket }
func (AdminConnected) Action() string    { return ActionConnectTicket }
func (AdminDisconnected) Action() string { return ActionDisconnectTicket }
func (u Unknown) Action() string         { return u.Name }

func (TicketCreated) event()     {}
func (FileAttached) event()      {}
func (MessageSent) event()       {}
func (TicketClosed) event()      {}
func (TicketReopened) event()    {}
func (StatusSet) event()         {}
func (TicketAssigned) event()    {}
func (AdminConnected) event()    {}
func (AdminDisconnected) event() {}
func (Unknown) event()           {}

// Decode parses an inbound frame. A malformed envelope, or a known
// action whose data does not match its shape, is an error. An
// unrecognized action is not: it decodes to [Unknown].
func Decode(frame []byte) (Event, error) {
	envelope, err := ParseEnvelope(frame)
	if err != nil {
		return nil, err
	}

	switch envelope.Action {
	case ActionCreateTicket:
		ticket, err := decodeData[schema.Ticket](envelope)
		return TicketCreated{Ticket: ticket}, err
	case ActionAddFileToTicket:
		file, err := decodeData[schema.TicketFile](envelope)
		return FileAttached{File: file}, err
	case ActionSendMessage:
		message, err := decodeData[schema.MessageRecord](envelope)
		return MessageSent{Message: message}, err
	case ActionCloseTicket:
		ticket, err := decodeData[schema.Ticket](envelope)
		return TicketClosed{Ticket: ticket}, err
	case ActionReopenTicket:
		ticket, err := decodeData[schema.Ticket](envelope)
		return TicketReopened{Ticket: ticket}, err
	case ActionSetTicketStatus:
		ticket, err := decodeData[schema.Ticket](envelope)
		return StatusSet{Ticket: ticket}, err
	case ActionAssignTicket:
		ticket, err := decodeData[schema.Ticket](envelope)
		return TicketAssigned{Ticket: ticket}, err
	case ActionConnectTicket:
		ticket, err := decodeData[schema.Ticket](envelope)
		return AdminConnected{Ticket: ticket}, err
	case ActionDisconnectTicket:
		ticket, err := decodeData[schema.Ticket](envelope)
		return AdminDisconnected{Ticket: ticket}, err
	default:
		return Unknown{Name: envelope.Action, Data: envelope.Data}, nil
	}
}

// decodeData unmarshals a known action's payload. Missing or null data
// is an error: every server event carries its entity.
func decodeData[T any](envelope Envelope) (T, error) {
	var value T
	if len(envelope.Data) == 0 || bytes.Equal(envelope.Data, []byte("null")) {
		return value, fmt.Errorf("%s: missing data", envelope.Action)
	}
	if err := json.Unmarshal(envelope.Data, &value); err != nil {
		return value, fmt.Errorf("%s: decoding data: %w", envelope.Action, err)
	}
	return value, nil
}
