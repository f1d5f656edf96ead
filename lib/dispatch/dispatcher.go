// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package dispatch applies inbound socket frames to the store.
//
// Each frame is decoded into a protocol event, enriched against the
// directory in the current store snapshot, and reduced. A frame that
// cannot be decoded, or whose action is unknown, is reported through
// the notifier and otherwise ignored; it never reaches the store and
// never closes the connection.
package dispatch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/scire-project/scire/lib/metrics"
	"github.com/scire-project/scire/lib/notice"
	"github.com/scire-project/scire/lib/protocol"
	"github.com/scire-project/scire/lib/schema"
	"github.com/scire-project/scire/lib/store"
)

// Attacher runs the upload-and-attach chain for files claimed by a
// newly created ticket. It must not block the caller.
type Attacher interface {
	AttachPending(ctx context.Context, ticketID int64, files []store.PendingFile)
}

// Config holds the Dispatcher's collaborators.
type Config struct {
	Store    *store.Store
	Attacher Attacher
	Notifier notice.Notifier

	// Navigate, if set, is called after this session's own ticket
	// creation is confirmed, with the new ticket's id.
	Navigate func(ticketID int64)

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Dispatcher handles frames from one connection. HandleFrame is called
// from the connection's reader goroutine, one frame at a time.
type Dispatcher struct {
	ctx    context.Context
	config Config
}

// New creates a Dispatcher. ctx bounds the attach chains it starts.
func New(ctx context.Context, config Config) *Dispatcher {
	if config.Notifier == nil {
		config.Notifier = notice.Discard
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{ctx: ctx, config: config}
}

// HandleFrame decodes and applies one inbound frame.
func (d *Dispatcher) HandleFrame(frame []byte) {
	event, err := protocol.Decode(frame)
	if err != nil {
		d.protocolError(notice.Protocol("malformed frame: %w", err))
		return
	}
	d.Apply(event)
}

// Apply routes a decoded event to its handler.
func (d *Dispatcher) Apply(event protocol.Event) {
	switch event := event.(type) {
	case protocol.TicketCreated:
		d.ticketCreated(event.Ticket)
	case protocol.FileAttached:
		d.fileAttached(event.File)
	case protocol.MessageSent:
		d.messageSent(event.Message)
	case protocol.TicketClosed:
		d.ticketChanged(event.Ticket)
	case protocol.TicketReopened:
		d.ticketChanged(event.Ticket)
	case protocol.StatusSet:
		d.ticketChanged(event.Ticket)
	case protocol.TicketAssigned:
		d.ticketChanged(event.Ticket)
	case protocol.AdminConnected:
		d.presenceChanged(event.Ticket)
	case protocol.AdminDisconnected:
		d.presenceChanged(event.Ticket)
	case protocol.Unknown:
		d.protocolError(notice.Protocol("unknown message type %q", event.Name))
		return
	default:
		d.protocolError(notice.Protocol("unhandled event %T", event))
		return
	}
	d.config.Metrics.FrameReceived(event.Action())
}

func (d *Dispatcher) ticketCreated(ticket schema.Ticket) {
	state := d.config.Store.State()
	enriched := state.Directory.EnrichTicket(ticket)

	if !d.ownCreation(state, ticket) {
		d.config.Store.Dispatch(store.AddTicket{Ticket: enriched})
		return
	}

	state, applied := d.config.Store.Dispatch(
		store.AddTicket{Ticket: enriched},
		store.FinishTicketCreation{},
		store.ClaimPendingFiles{TicketID: ticket.ID},
	)
	if !applied {
		return
	}

	var claimed []store.PendingFile
	for _, file := range state.PendingFiles {
		if file.TicketID == ticket.ID && file.State == store.PendingQueued {
			claimed = append(claimed, file)
		}
	}
	d.config.Logger.Info("ticket created",
		"ticket_id", ticket.ID,
		"pending_files", len(claimed),
	)
	if len(claimed) > 0 && d.config.Attacher != nil {
		d.config.Attacher.AttachPending(d.ctx, ticket.ID, claimed)
	}
	if d.config.Navigate != nil {
		d.config.Navigate(ticket.ID)
	}
}

// ownCreation reports whether a TicketCreated broadcast answers a
// create_ticket this session sent. Once the profile is known, tickets
// owned by someone else never match.
func (d *Dispatcher) ownCreation(state store.State, ticket schema.Ticket) bool {
	if state.CreationsInFlight == 0 {
		return false
	}
	return state.Profile == nil || state.Profile.ID == ticket.UserID
}

func (d *Dispatcher) fileAttached(file schema.TicketFile) {
	d.config.Store.Dispatch(
		store.RemovePendingFileByUpload{UUID: file.UUID},
		store.AppendActiveTicketFile{File: file},
	)
	d.config.Logger.Debug("file attached", "ticket_id", file.TicketID, "file_uuid", file.UUID)
}

func (d *Dispatcher) messageSent(record schema.MessageRecord) {
	state := d.config.Store.State()
	message, err := state.Directory.EnrichMessage(record)
	if err != nil {
		if errors.Is(err, schema.ErrUnknownMessageShape) {
			d.protocolError(notice.Protocol("%w", err))
			return
		}
		d.protocolError(notice.Protocol("message: %w", err))
		return
	}
	if id, ok := state.ActiveTicketID(); !ok || id != message.TicketID {
		d.config.Logger.Debug("message for inactive ticket", "ticket_id", message.TicketID)
		return
	}
	d.config.Store.Dispatch(store.AppendMessage{Message: message})
}

// ticketChanged replaces the list entry and, when the ticket is open,
// the active slot in the same reduction.
func (d *Dispatcher) ticketChanged(ticket schema.Ticket) {
	state := d.config.Store.State()
	enriched := state.Directory.EnrichTicket(ticket)

	actions := []store.Action{store.UpdateTicket{Ticket: enriched}}
	if id, ok := state.ActiveTicketID(); ok && id == ticket.ID {
		actions = append(actions, store.SetActiveTicket{Ticket: &enriched})
	}
	d.config.Store.Dispatch(actions...)
}

func (d *Dispatcher) presenceChanged(ticket schema.Ticket) {
	state := d.config.Store.State()
	if id, ok := state.ActiveTicketID(); !ok || id != ticket.ID {
		return
	}
	enriched := state.Directory.EnrichTicket(ticket)
	d.config.Store.Dispatch(store.SetActiveTicket{Ticket: &enriched})
}

func (d *Dispatcher) protocolError(err error) {
	d.config.Metrics.ProtocolError()
	d.config.Notifier.Notify(err)
}
