// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package messenger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/scire-project/scire/lib/directory"
	"github.com/scire-project/scire/lib/notice"
	"github.com/scire-project/scire/lib/schema"
	"github.com/scire-project/scire/lib/store"
)

// MaxPendingFileSize bounds a file read from disk for attachment.
const MaxPendingFileSize = 64 << 20

// LoadProfile fetches the signed-in user and records it.
func (c *Client) LoadProfile(ctx context.Context) (schema.Profile, error) {
	profile, err := c.api.Profile(ctx)
	if err != nil {
		return schema.Profile{}, c.fail(err)
	}
	c.store.Dispatch(store.SetProfile{Profile: &profile})
	return profile, nil
}

// LoadTickets fetches the admins, then the tickets, and replaces the
// list with the enriched tickets, newest first.
func (c *Client) LoadTickets(ctx context.Context) error {
	admins, err := c.api.Admins(ctx)
	if err != nil {
		return c.fail(err)
	}
	tickets, err := c.api.Tickets(ctx)
	if err != nil {
		return c.fail(err)
	}

	users := c.store.State().Users
	enriched := directory.New(admins, users).EnrichTickets(tickets)
	c.store.Dispatch(
		store.SetDirectory{Admins: admins, Users: users},
		store.SetTickets{Tickets: enriched},
	)
	return nil
}

// OpenTicket loads a ticket with its files and conversation and makes
// it the active ticket. When another OpenTicket or LeaveTicket starts
// before this one finishes, the loaded data is discarded.
func (c *Client) OpenTicket(ctx context.Context, ticketID int64) error {
	generation := c.beginNavigation()

	admins, err := c.api.Admins(ctx)
	if err != nil {
		return c.fail(err)
	}
	users, err := c.api.Users(ctx)
	if err != nil {
		return c.fail(err)
	}
	ticket, err := c.api.Ticket(ctx, ticketID)
	if err != nil {
		return c.fail(err)
	}
	files, err := c.api.TicketFiles(ctx, ticketID)
	if err != nil {
		return c.fail(err)
	}
	records, err := c.api.Messages(ctx, ticketID)
	if err != nil {
		return c.fail(err)
	}

	lookup := directory.New(admins, users)
	enriched := lookup.EnrichTicket(ticket)
	messages, rejected := lookup.EnrichMessages(records)
	for _, reason := range rejected {
		c.notifier.Notify(notice.Protocol("ticket %d: %w", ticketID, reason))
	}

	c.navigationMutex.Lock()
	defer c.navigationMutex.Unlock()
	if c.generation != generation {
		c.logger.Debug("discarding superseded ticket load", "ticket_id", ticketID)
		return nil
	}
	c.store.Dispatch(
		store.SetDirectory{Admins: admins, Users: users},
		store.UpdateTicket{Ticket: enriched},
		store.SetActiveTicket{Ticket: &enriched},
		store.SetActiveTicketFiles{Files: files},
		store.SetMessages{Messages: messages},
	)
	return nil
}

// LeaveTicket clears the active ticket and its conversation.
func (c *Client) LeaveTicket() {
	c.navigationMutex.Lock()
	defer c.navigationMutex.Unlock()
	c.generation++
	c.store.Dispatch(
		store.SetActiveTicket{Ticket: nil},
		store.SetActiveTicketFiles{Files: nil},
		store.SetMessages{Messages: nil},
		store.SetDraftMessageText{Text: ""},
	)
}

func (c *Client) beginNavigation() uint64 {
	c.navigationMutex.Lock()
	defer c.navigationMutex.Unlock()
	c.generation++
	return c.generation
}

// SetDraft updates the new-ticket form. Nil fields are left alone.
func (c *Client) SetDraft(title, description *string) {
	c.store.Dispatch(store.SetDraftTicketFields{Title: title, Description: description})
}

// AddPendingFile queues content for the next created ticket.
func (c *Client) AddPendingFile(name string, content []byte) store.PendingFile {
	file := store.NewPendingFile(name, content)
	c.store.Dispatch(store.AddPendingFile{File: file})
	return file
}

// AddPendingPath reads a file from disk and queues it under its base
// name.
func (c *Client) AddPendingPath(path string) (store.PendingFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return store.PendingFile{}, c.fail(notice.Validation("attaching %s: %w", path, err))
	}
	defer file.Close()

	var buffer bytes.Buffer
	size, err := io.Copy(&buffer, io.LimitReader(file, MaxPendingFileSize+1))
	if err != nil {
		return store.PendingFile{}, c.fail(notice.Validation("reading %s: %w", path, err))
	}
	if size > MaxPendingFileSize {
		return store.PendingFile{}, c.fail(notice.Validation("%s is larger than %d bytes", path, MaxPendingFileSize))
	}
	return c.AddPendingFile(filepath.Base(path), buffer.Bytes()), nil
}

// RemovePendingFile drops the queued file at index.
func (c *Client) RemovePendingFile(index int) {
	c.store.Dispatch(store.RemovePendingFileByIndex{Index: index})
}

// CreateTicket sends the draft as create_ticket. The ticket appears in
// the list when the server broadcasts it; queued files are then
// uploaded and the new ticket is opened.
func (c *Client) CreateTicket() error {
	// The creation is counted before the frame goes out so a fast
	// broadcast is still recognized as this session's own.
	state, _ := c.store.Dispatch(store.BeginTicketCreation{})
	if err := c.builder.CreateTicket(state.Draft.Title, state.Draft.Description); err != nil {
		c.store.Dispatch(store.CancelTicketCreation{})
		return c.fail(err)
	}
	return nil
}

// SetDraftMessage replaces the chat input.
func (c *Client) SetDraftMessage(text string) {
	c.store.Dispatch(store.SetDraftMessageText{Text: text})
}

// SendMessage posts the chat input to the active ticket. The input is
// cleared only once the frame was written.
func (c *Client) SendMessage() error {
	state := c.store.State()
	if err := c.builder.SendMessage(state.ActiveTicket, state.DraftMessage); err != nil {
		return c.fail(err)
	}
	c.store.Dispatch(store.SetDraftMessageText{Text: ""})
	return nil
}

// CloseTicket sends close_ticket for the active ticket.
func (c *Client) CloseTicket() error {
	ticketID, err := c.activeTicketID()
	if err != nil {
		return c.fail(err)
	}
	if err := c.builder.CloseTicket(ticketID); err != nil {
		return c.fail(err)
	}
	return nil
}

// ReopenTicket sends reopen_ticket for the active ticket.
func (c *Client) ReopenTicket() error {
	ticketID, err := c.activeTicketID()
	if err != nil {
		return c.fail(err)
	}
	if err := c.builder.ReopenTicket(ticketID); err != nil {
		return c.fail(err)
	}
	return nil
}

func (c *Client) activeTicketID() (int64, error) {
	ticketID, ok := c.store.State().ActiveTicketID()
	if !ok {
		return 0, notice.Validation("no ticket is open")
	}
	return ticketID, nil
}

// DownloadFile streams a stored file into w and returns its content
// type.
func (c *Client) DownloadFile(ctx context.Context, uuid string, w io.Writer) (string, error) {
	if uuid == "" {
		return "", c.fail(notice.Validation("file uuid is required"))
	}
	contentType, err := c.api.Download(ctx, uuid, w)
	if err != nil {
		return "", c.fail(err)
	}
	return contentType, nil
}

// SaveFile downloads a stored file to path. An empty path saves under
// the file's own name in the working directory.
func (c *Client) SaveFile(ctx context.Context, file schema.TicketFile, path string) (string, error) {
	if path == "" {
		path = filepath.Base(file.Name)
	}
	output, err := os.Create(path)
	if err != nil {
		return "", c.fail(notice.Validation("creating %s: %w", path, err))
	}
	if _, err := c.DownloadFile(ctx, file.UUID, output); err != nil {
		output.Close()
		os.Remove(path)
		return "", err
	}
	if err := output.Close(); err != nil {
		return "", c.fail(fmt.Errorf("closing %s: %w", path, err))
	}
	return path, nil
}
