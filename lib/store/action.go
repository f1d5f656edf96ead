// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package store

import "github.com/scire-project/scire/lib/schema"

// Action is a typed state transition. The set is closed to this
// package.
type Action interface {
	action()
}

// SetTickets replaces the ticket list.
type SetTickets struct{ Tickets []schema.Ticket }

// AddTicket prepends a ticket.
type AddTicket struct{ Ticket schema.Ticket }

// UpdateTicket replaces the ticket with the same id. No-op if absent.
type UpdateTicket struct{ Ticket schema.Ticket }

// DeleteTicket removes a ticket by id. No-op if absent.
type DeleteTicket struct{ ID int64 }

// SetActiveTicket opens a ticket; nil clears the slot.
type SetActiveTicket struct{ Ticket *schema.Ticket }

// SetActiveTicketFiles replaces the active ticket's file list.
type SetActiveTicketFiles struct{ Files []schema.TicketFile }

// AppendActiveTicketFile adds one file to the active ticket's list
// when it belongs to the active ticket.
type AppendActiveTicketFile struct{ File schema.TicketFile }

// SetMessages replaces the active conversation.
type SetMessages struct{ Messages []schema.Message }

// AppendMessage adds one message at the end of the conversation.
type AppendMessage struct{ Message schema.Message }

// SetDraftTicketFields merges non-nil fields into the draft.
type SetDraftTicketFields struct {
	Title       *string
	Description *string
}

// AddPendingFile queues a file.
type AddPendingFile struct{ File PendingFile }

// RemovePendingFileByIndex drops the entry at Index. Out-of-range is a
// no-op.
type RemovePendingFileByIndex struct{ Index int }

// SetDraftMessageText replaces the chat input.
type SetDraftMessageText struct{ Text string }

// SetDirectory replaces the admin and user lists and rebuilds the
// lookup directory.
type SetDirectory struct {
	Admins []schema.Admin
	Users  []schema.User
}

// SetProfile records the signed-in user.
type SetProfile struct{ Profile *schema.Profile }

// BeginTicketCreation records a create_ticket command in flight.
type BeginTicketCreation struct{}

// FinishTicketCreation records the broadcast for an in-flight creation
// and clears the draft title and description.
type FinishTicketCreation struct{}

// CancelTicketCreation withdraws a BeginTicketCreation whose command
// was never sent. The draft is kept.
type CancelTicketCreation struct{}

// ClaimPendingFiles assigns every queued, unclaimed file to TicketID.
type ClaimPendingFiles struct{ TicketID int64 }

// MarkPendingFileUploading moves an entry to PendingUploading.
type MarkPendingFileUploading struct{ ID string }

// MarkPendingFileUploaded moves an entry to PendingUploaded and
// records its storage uuid.
type MarkPendingFileUploaded struct {
	ID   string
	UUID string
}

// MarkPendingFileFailed moves an entry to PendingFailed.
type MarkPendingFileFailed struct {
	ID  string
	Err string
}

// RemovePendingFileByUpload drops the entry whose attachment the
// server acknowledged.
type RemovePendingFileByUpload struct{ UUID string }

func (SetTickets) action()                {}
func (AddTicket) action()                 {}
func (UpdateTicket) action()              {}
func (DeleteTicket) action()              {}
func (SetActiveTicket) action()           {}
func (SetActiveTicketFiles) action()      {}
func (AppendActiveTicketFile) action()    {}
func (SetMessages) action()               {}
func (AppendMessage) action()             {}
func (SetDraftTicketFields) action()      {}
func (AddPendingFile) action()            {}
func (RemovePendingFileByIndex) action()  {}
func (SetDraftMessageText) action()       {}
func (SetDirectory) action()              {}
func (SetProfile) action()                {}
func (BeginTicketCreation) action()       {}
func (FinishTicketCreation) action()      {}
func (CancelTicketCreation) action()      {}
func (ClaimPendingFiles) action()         {}
func (MarkPendingFileUploading) action()  {}
func (MarkPendingFileUploaded) action()   {}
func (MarkPendingFileFailed) action()     {}
func (RemovePendingFileByUpload) action() {}
