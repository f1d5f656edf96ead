// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"encoding/json"
	"fmt"
)

// Command is a client-to-server frame body.
type Command interface {
	Action() string
	command()
}

// CreateTicket asks the server to open a ticket owned by the session.
type CreateTicket struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SendMessage posts a chat line to a ticket.
type SendMessage struct {
	Text     string `json:"text"`
	TicketID int64  `json:"ticket_id"`
}

// CloseTicket marks a ticket solved.
type CloseTicket struct {
	ItemID int64 `json:"item_id"`
}

// ReopenTicket moves a solved ticket back to pending.
type ReopenTicket struct {
	ItemID int64 `json:"item_id"`
}

// AddFileToTicket associates an uploaded blob with a ticket.
type AddFileToTicket struct {
	ItemID   int64  `json:"item_id"`
	FileUUID string `json:"file_uuid"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

func (CreateTicket) Action() string    { return ActionCreateTicket }
func (SendMessage) Action() string     { return ActionSendMessage }
func (CloseTicket) Action() string     { return ActionCloseTicket }
func (ReopenTicket) Action() string    { return ActionReopenTicket }
func (AddFileToTicket) Action() string { return ActionAddFileToTicket }

func (CreateTicket) command()    {}
func (SendMessage) command()     {}
func (CloseTicket) command()     {}
func (ReopenTicket) command()    {}
func (AddFileToTicket) command() {}

// Encode wraps command in an envelope and serializes it.
func Encode(command Command) ([]byte, error) {
	data, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", command.Action(), err)
	}
	frame, err := json.Marshal(Envelope{Action: command.Action(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", command.Action(), err)
	}
	return frame, nil
}
