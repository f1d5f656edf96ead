// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package directory resolves admin and user ids to display names and
// derives the display fields of tickets and messages.
//
// Every function here is pure: it takes values and returns new values,
// never modifying its inputs.
package directory

import (
	"github.com/scire-project/scire/lib/schema"
)

// Directory is a read-only snapshot of the admin and user lists. It is
// rebuilt whenever either list is refetched; it is never updated in
// place.
type Directory struct {
	admins map[int64]schema.Admin
	users  map[int64]schema.User
}

// New indexes admins and users by id. Later duplicates win.
func New(admins []schema.Admin, users []schema.User) Directory {
	directory := Directory{
		admins: make(map[int64]schema.Admin, len(admins)),
		users:  make(map[int64]schema.User, len(users)),
	}
	for _, admin := range admins {
		directory.admins[admin.ID] = admin
	}
	for _, user := range users {
		directory.users[user.ID] = user
	}
	return directory
}

// AdminName returns the admin's display name, or "" when id is nil or
// not in the directory.
func (d Directory) AdminName(id *int64) string {
	if id == nil {
		return ""
	}
	return d.admins[*id].DisplayName()
}

// UserName returns the user's display name, or "" when id is nil or
// not in the directory.
func (d Directory) UserName(id *int64) string {
	if id == nil {
		return ""
	}
	return d.users[*id].DisplayName()
}

// Admin looks up an admin by id.
func (d Directory) Admin(id int64) (schema.Admin, bool) {
	admin, ok := d.admins[id]
	return admin, ok
}

// User looks up a user by id.
func (d Directory) User(id int64) (schema.User, bool) {
	user, ok := d.users[id]
	return user, ok
}
