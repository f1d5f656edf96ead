// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds the session bearer token while the CLI handles
// it.
//
// [Buffer] keeps the bytes in an anonymous mapping outside the Go
// heap, excluded from core dumps and locked against swap where the
// memlock limit allows, and zeroes them on Close. [ReadFromPath] and
// [ReadTerminal] are the ways a token enters the process: a file,
// standard input, or an echo-free prompt. The token is copied to a
// heap string only at the boundary where the session file and the
// HTTP client need it.
package secret
