// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"fmt"
)

// MessageRecord is a message as the servers send it. The four flags
// together with Text and AdminID encode either a chat line or a
// system notice; [ClassifyMessage] turns them into a [MessageKind].
type MessageRecord struct {
	ID                int64        `json:"id"`
	Text              string       `json:"text"`
	UserID            *int64       `json:"user_id"`
	AdminID           *int64       `json:"admin_id"`
	TicketID          int64        `json:"ticket_id"`
	AdminConnected    bool         `json:"admin_connected"`
	AdminDisconnected bool         `json:"admin_disconnected"`
	InProgress        bool         `json:"in_progress"`
	Solved            bool         `json:"solved"`
	Files             []TicketFile `json:"files"`
}

// MessageKind is the closed set of message shapes the client renders.
type MessageKind int

const (
	// MessageChatText is a chat line written by a user or an admin.
	MessageChatText MessageKind = iota + 1
	// MessageMarkedPending records an admin moving the ticket to Pending.
	MessageMarkedPending
	// MessageMarkedInProgress records an admin moving the ticket to In progress.
	MessageMarkedInProgress
	// MessageMarkedSolved records an admin moving the ticket to Solved.
	MessageMarkedSolved
	// MessageAdminConnected records an admin joining the conversation.
	MessageAdminConnected
	// MessageAdminDisconnected records an admin leaving the conversation.
	MessageAdminDisconnected
	// MessageUserMarkedSolved records the ticket owner closing the
	// ticket as solved.
	MessageUserMarkedSolved
)

var messageKindNames = map[MessageKind]string{
	MessageChatText:          "chat_text",
	MessageMarkedPending:     "marked_pending",
	MessageMarkedInProgress:  "marked_in_progress",
	MessageMarkedSolved:      "marked_solved",
	MessageAdminConnected:    "admin_connected",
	MessageAdminDisconnected: "admin_disconnected",
	MessageUserMarkedSolved:  "user_marked_solved",
}

func (k MessageKind) String() string {
	if name, ok := messageKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("MessageKind(%d)", int(k))
}

// IsNotice reports whether the kind is a system notice rather than a
// chat line.
func (k MessageKind) IsNotice() bool {
	return k != MessageChatText
}

// ErrUnknownMessageShape is returned by [ClassifyMessage] for flag
// combinations outside the known set.
var ErrUnknownMessageShape = errors.New("unknown message shape")

// ClassifyMessage maps a record onto its kind.
//
// Non-empty text with no flags is chat. Empty text with exactly zero
// or one flag set and an admin present is a status or presence
// notice. Empty text with only the solved flag and no admin is the
// owner marking the ticket solved. Anything else is rejected.
func ClassifyMessage(record MessageRecord) (MessageKind, error) {
	flags := 0
	for _, set := range []bool{record.AdminConnected, record.AdminDisconnected, record.InProgress, record.Solved} {
		if set {
			flags++
		}
	}
	hasAdmin := record.AdminID != nil

	switch {
	case record.Text != "" && flags == 0:
		return MessageChatText, nil
	case record.Text != "" || flags > 1:
	case !hasAdmin:
		if record.Solved {
			return MessageUserMarkedSolved, nil
		}
	case flags == 0:
		return MessageMarkedPending, nil
	case record.InProgress:
		return MessageMarkedInProgress, nil
	case record.Solved:
		return MessageMarkedSolved, nil
	case record.AdminConnected:
		return MessageAdminConnected, nil
	case record.AdminDisconnected:
		return MessageAdminDisconnected, nil
	}
	return 0, fmt.Errorf("message %d: %w (text=%t admin=%t connected=%t disconnected=%t in_progress=%t solved=%t)",
		record.ID, ErrUnknownMessageShape, record.Text != "", hasAdmin,
		record.AdminConnected, record.AdminDisconnected, record.InProgress, record.Solved)
}

// Message is a classified message with author names resolved. Once
// appended to a conversation it is never rewritten.
type Message struct {
	ID       int64
	TicketID int64
	Kind     MessageKind
	Text     string
	UserID   *int64
	AdminID  *int64
	Files    []TicketFile

	UserName  string
	AdminName string
}

// ByAdmin reports whether an admin authored the message.
func (m Message) ByAdmin() bool { return m.AdminID != nil }
