// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the entities exchanged with the support
// backends: tickets, messages, file attachments, and the admin and
// user directories.
//
// Wire types carry the JSON field names the servers use. Fields the
// client derives locally (status labels, display names, message kind)
// have no JSON tag and are filled by package directory.
package schema
