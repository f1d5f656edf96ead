// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package restapi

import (
	"context"
	"sort"

	"github.com/scire-project/scire/lib/schema"
)

// Tickets lists the tickets visible to the session, newest first.
// Tickets without a creation time sort last in server order.
func (c *Client) Tickets(ctx context.Context) ([]schema.Ticket, error) {
	tickets, err := getJSON[[]schema.Ticket](ctx, c, c.endpoints.API, "/tickets/", "/tickets/")
	if err != nil {
		return nil, err
	}
	SortNewestFirst(tickets)
	return tickets, nil
}

// SortNewestFirst orders tickets by creation time, descending, in
// place.
func SortNewestFirst(tickets []schema.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		left, right := tickets[i].CreatedAt, tickets[j].CreatedAt
		if left.IsZero() || right.IsZero() {
			return !left.IsZero() && right.IsZero()
		}
		return left.After(right.Time)
	})
}

// Ticket fetches one ticket.
func (c *Client) Ticket(ctx context.Context, id int64) (schema.Ticket, error) {
	return getJSON[schema.Ticket](ctx, c, c.endpoints.API, "/tickets/{id}", idPath("/tickets/%d", id))
}

// TicketFiles lists the files attached to a ticket.
func (c *Client) TicketFiles(ctx context.Context, id int64) ([]schema.TicketFile, error) {
	return getJSON[[]schema.TicketFile](ctx, c, c.endpoints.API, "/tickets/{id}/files", idPath("/tickets/%d/files", id))
}

// Messages lists a ticket's conversation in server order.
func (c *Client) Messages(ctx context.Context, ticketID int64) ([]schema.MessageRecord, error) {
	return getJSON[[]schema.MessageRecord](ctx, c, c.endpoints.API, "/messages/{id}", idPath("/messages/%d", ticketID))
}
