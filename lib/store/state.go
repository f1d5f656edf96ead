// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package store holds the client's synchronized entities in a single
// reducer-shaped container.
//
// [Reduce] is the only mutation surface: a pure function from a state
// and a typed action to the next state. [Store] serializes calls to it
// for the goroutines that feed it (the socket reader, REST loaders,
// upload chains, and the UI) and fans changes out to subscribers.
//
// States are values. Reduce never modifies the slices of the state it
// is given, so a snapshot returned by [Store.State] stays valid after
// later dispatches. Callers must treat snapshot slices as read-only.
package store

import (
	"github.com/google/uuid"

	"github.com/scire-project/scire/lib/directory"
	"github.com/scire-project/scire/lib/schema"
)

// State is everything the client keeps about the session.
type State struct {
	// Tickets is the ticket list, newest first.
	Tickets []schema.Ticket

	// ActiveTicket is the ticket whose conversation is open, or nil.
	ActiveTicket *schema.Ticket

	// ActiveFiles are the files attached to the active ticket.
	ActiveFiles []schema.TicketFile

	// Messages is the active ticket's conversation in receipt order.
	Messages []schema.Message

	// Draft holds the new-ticket form.
	Draft TicketDraft

	// PendingFiles are files chosen for a ticket that does not exist
	// yet, or whose attachment has not been acknowledged.
	PendingFiles []PendingFile

	// DraftMessage is the unsent chat input.
	DraftMessage string

	Admins    []schema.Admin
	Users     []schema.User
	Directory directory.Directory

	// Profile is the signed-in user, once fetched.
	Profile *schema.Profile

	// CreationsInFlight counts create_ticket commands this session
	// sent whose broadcast has not arrived yet.
	CreationsInFlight int
}

// TicketDraft is the editable new-ticket form.
type TicketDraft struct {
	Title       string
	Description string
}

// ActiveTicketID returns the open ticket's id and whether one is open.
func (s State) ActiveTicketID() (int64, bool) {
	if s.ActiveTicket == nil {
		return 0, false
	}
	return s.ActiveTicket.ID, true
}

// Ticket finds a ticket in the list by id.
func (s State) Ticket(id int64) (schema.Ticket, bool) {
	for _, ticket := range s.Tickets {
		if ticket.ID == id {
			return ticket, true
		}
	}
	return schema.Ticket{}, false
}

// PendingFileState tracks a pending file through the attach chain.
type PendingFileState int

const (
	// PendingQueued files wait for their ticket to be created.
	PendingQueued PendingFileState = iota
	// PendingUploading files are being sent to storage.
	PendingUploading
	// PendingUploaded files are stored and wait for the server to
	// acknowledge the attachment.
	PendingUploaded
	// PendingFailed files hit an error and stay until the user removes
	// them.
	PendingFailed
)

func (s PendingFileState) String() string {
	switch s {
	case PendingQueued:
		return "queued"
	case PendingUploading:
		return "uploading"
	case PendingUploaded:
		return "uploaded"
	case PendingFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PendingFile is a local file waiting to be attached.
type PendingFile struct {
	// ID identifies the entry locally. The storage uuid is not known
	// until upload completes.
	ID      string
	Name    string
	Size    int64
	Content []byte

	State PendingFileState

	// TicketID is the ticket the file was claimed for; zero while
	// queued for the next creation.
	TicketID int64

	// UploadUUID is the storage id once uploaded.
	UploadUUID string

	// Err describes the failure for PendingFailed entries.
	Err string
}

// NewPendingFile creates a queued entry with a fresh local id.
func NewPendingFile(name string, content []byte) PendingFile {
	return PendingFile{
		ID:      uuid.NewString(),
		Name:    name,
		Size:    int64(len(content)),
		Content: content,
		State:   PendingQueued,
	}
}
