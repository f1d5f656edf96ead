// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// TicketFile associates a stored blob with a ticket. The same shape is
// used for files listed on a message.
type TicketFile struct {
	TicketID int64  `json:"item_id"`
	UUID     string `json:"file_uuid"`
	Name     string `json:"file_name"`
	Size     int64  `json:"file_size"`
}

// StoredFile is the storage service's record of an uploaded blob.
type StoredFile struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UserID    *int64    `json:"user_id,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}
