// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// Status is the lifecycle position of a ticket, stored on the wire as
// an ordinal.
type Status int

const (
	StatusPending    Status = 0
	StatusInProgress Status = 1
	StatusSolved     Status = 2
)

// Label returns the display label. Ordinals outside the known range
// read as Pending.
func (s Status) Label() string {
	switch s {
	case StatusSolved:
		return "Solved"
	case StatusInProgress:
		return "In progress"
	default:
		return "Pending"
	}
}

func (s Status) String() string { return s.Label() }

// Ticket is a support request. OwnerName, AssigneeName and StatusLabel
// are derived locally. A nil AdminID always yields an empty
// AssigneeName; an id the directory does not know yields empty as well.
type Ticket struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	UserID      int64     `json:"user_id"`
	AdminID     *int64    `json:"admin_id"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`

	StatusLabel  string `json:"-"`
	OwnerName    string `json:"-"`
	AssigneeName string `json:"-"`
}

// Assigned reports whether an admin has taken the ticket.
func (t Ticket) Assigned() bool { return t.AdminID != nil }
