// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package directory

import (
	"github.com/scire-project/scire/lib/schema"
)

// EnrichTicket returns a copy of ticket with the status label and the
// owner and assignee names filled in. The assignee name is always
// empty for an unassigned ticket, even if the directory somehow holds
// an entry for id zero.
func (d Directory) EnrichTicket(ticket schema.Ticket) schema.Ticket {
	enriched := ticket
	if ticket.AdminID != nil {
		adminID := *ticket.AdminID
		enriched.AdminID = &adminID
	}
	enriched.StatusLabel = ticket.Status.Label()
	enriched.OwnerName = d.UserName(&ticket.UserID)
	enriched.AssigneeName = d.AdminName(ticket.AdminID)
	return enriched
}

// EnrichTickets enriches each ticket into a new slice.
func (d Directory) EnrichTickets(tickets []schema.Ticket) []schema.Ticket {
	enriched := make([]schema.Ticket, len(tickets))
	for i, ticket := range tickets {
		enriched[i] = d.EnrichTicket(ticket)
	}
	return enriched
}

// EnrichMessage classifies record and resolves both author names. The
// error wraps [schema.ErrUnknownMessageShape] for records that match
// no known shape.
func (d Directory) EnrichMessage(record schema.MessageRecord) (schema.Message, error) {
	kind, err := schema.ClassifyMessage(record)
	if err != nil {
		return schema.Message{}, err
	}
	return schema.Message{
		ID:        record.ID,
		TicketID:  record.TicketID,
		Kind:      kind,
		Text:      record.Text,
		UserID:    cloneID(record.UserID),
		AdminID:   cloneID(record.AdminID),
		Files:     append([]schema.TicketFile(nil), record.Files...),
		UserName:  d.UserName(record.UserID),
		AdminName: d.AdminName(record.AdminID),
	}, nil
}

// EnrichMessages enriches a fetched conversation. Records that match
// no known shape are left out and returned as rejected, in order, so
// the caller can report them.
func (d Directory) EnrichMessages(records []schema.MessageRecord) (messages []schema.Message, rejected []error) {
	messages = make([]schema.Message, 0, len(records))
	for _, record := range records {
		message, err := d.EnrichMessage(record)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		messages = append(messages, message)
	}
	return messages, rejected
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	value := *id
	return &value
}
