// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package outbound validates user commands and writes them to the
// socket.
//
// Nothing here touches local state: a created ticket or a sent message
// only appears once the server broadcasts it back.
package outbound

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/scire-project/scire/lib/connection"
	"github.com/scire-project/scire/lib/metrics"
	"github.com/scire-project/scire/lib/notice"
	"github.com/scire-project/scire/lib/protocol"
	"github.com/scire-project/scire/lib/schema"
)

// Sender writes one frame to the session's connection.
type Sender interface {
	Send(frame []byte) error
	Ready() bool
}

// Builder turns commands into frames. Safe for concurrent use.
type Builder struct {
	sender   Sender
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates a Builder writing through sender.
func New(sender Sender, logger *slog.Logger, metrics *metrics.Metrics) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		sender:   sender,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		metrics:  metrics,
	}
}

type ticketForm struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

type messageForm struct {
	Text     string `validate:"required"`
	TicketID int64  `validate:"required"`
}

// CreateTicket sends create_ticket with trimmed fields. Both fields
// must be non-blank.
func (b *Builder) CreateTicket(title, description string) error {
	form := ticketForm{Title: strings.TrimSpace(title), Description: strings.TrimSpace(description)}
	if err := b.validate.Struct(form); err != nil {
		return b.invalid(err, "title and description are required")
	}
	return b.send(protocol.CreateTicket{Title: form.Title, Description: form.Description})
}

// SendMessage posts text to ticket. A solved ticket is reopened first,
// so the server receives reopen_ticket and then send_message.
func (b *Builder) SendMessage(ticket *schema.Ticket, text string) error {
	if ticket == nil {
		return notice.Validation("no ticket is open")
	}
	form := messageForm{Text: strings.TrimSpace(text), TicketID: ticket.ID}
	if err := b.validate.Struct(form); err != nil {
		return b.invalid(err, "message text is required")
	}
	// Check before any write so a dead socket never leaves a reopen
	// without its message.
	if !b.sender.Ready() {
		return connection.ErrNotReady
	}
	if ticket.Status == schema.StatusSolved {
		if err := b.send(protocol.ReopenTicket{ItemID: ticket.ID}); err != nil {
			return err
		}
	}
	return b.send(protocol.SendMessage{Text: form.Text, TicketID: ticket.ID})
}

// CloseTicket sends close_ticket.
func (b *Builder) CloseTicket(ticketID int64) error {
	if ticketID == 0 {
		return notice.Validation("no ticket is open")
	}
	return b.send(protocol.CloseTicket{ItemID: ticketID})
}

// ReopenTicket sends reopen_ticket.
func (b *Builder) ReopenTicket(ticketID int64) error {
	if ticketID == 0 {
		return notice.Validation("no ticket is open")
	}
	return b.send(protocol.ReopenTicket{ItemID: ticketID})
}

// AttachFile announces an uploaded file for ticketID.
func (b *Builder) AttachFile(ticketID int64, file schema.StoredFile) error {
	if file.UUID == "" {
		return notice.Validation("stored file has no id")
	}
	return b.send(protocol.AddFileToTicket{
		ItemID:   ticketID,
		FileUUID: file.UUID,
		FileName: file.Name,
		FileSize: file.Size,
	})
}

func (b *Builder) send(command protocol.Command) error {
	frame, err := protocol.Encode(command)
	if err != nil {
		return notice.Validation("%w", err)
	}
	if err := b.sender.Send(frame); err != nil {
		if notice.CategoryOf(err) != notice.CategoryTransport {
			err = notice.Transport("%s: %w", command.Action(), err)
		}
		b.logger.Debug("command dropped", "action", command.Action(), "error", err)
		return err
	}
	b.metrics.FrameSent(command.Action())
	return nil
}

// invalid converts a validator failure into a validation notice
// carrying message. The failing fields are logged.
func (b *Builder) invalid(err error, message string) error {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		names := make([]string, len(fields))
		for i, field := range fields {
			names[i] = strings.ToLower(field.Field())
		}
		b.logger.Debug("command rejected", "fields", names)
	}
	return notice.Validation("%s", message)
}
