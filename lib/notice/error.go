// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package notice classifies client failures and delivers them to
// whatever surface the user is looking at. No failure in the sync core
// is fatal: every error ends up as a dismissible [Notice] while the
// connection keeps trying to stay up.
package notice

import (
	"errors"
	"fmt"
)

// Category classifies an error by how the user can recover from it.
type Category string

const (
	// CategoryValidation means local input was rejected before
	// anything was sent. The user fixes the input.
	CategoryValidation Category = "validation"

	// CategoryTransport means the socket was not open. The user
	// retries once the connection is back.
	CategoryTransport Category = "transport"

	// CategoryRequest means a REST call failed. The step that issued
	// it was abandoned.
	CategoryRequest Category = "request"

	// CategoryProtocol means the server sent something the client does
	// not understand. The frame was dropped; the connection stays up.
	CategoryProtocol Category = "protocol"
)

// Error is a categorized error. Construct it with the category
// constructors rather than directly.
type Error struct {
	Category Category
	Err      error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Validation creates a validation error.
func Validation(format string, args ...any) *Error {
	return &Error{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Transport creates a transport error.
func Transport(format string, args ...any) *Error {
	return &Error{Category: CategoryTransport, Err: fmt.Errorf(format, args...)}
}

// Request creates a request error.
func Request(format string, args ...any) *Error {
	return &Error{Category: CategoryRequest, Err: fmt.Errorf(format, args...)}
}

// Protocol creates a protocol error.
func Protocol(format string, args ...any) *Error {
	return &Error{Category: CategoryProtocol, Err: fmt.Errorf(format, args...)}
}

// CategoryOf returns the category of the first *Error in err's chain.
// Uncategorized errors come from I/O around REST calls and count as
// request errors.
func CategoryOf(err error) Category {
	var categorized *Error
	if errors.As(err, &categorized) {
		return categorized.Category
	}
	return CategoryRequest
}
