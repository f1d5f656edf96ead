// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the time source used by timers in the sync
// core so reconnect scheduling can be driven deterministically in
// tests.
//
// Production code takes a [Clock] and receives [Real] from its
// constructor's caller. Tests pass [Fake] and move time with
// [FakeClock.Advance].
package clock

import "time"

// Clock is the subset of the time package the client depends on.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the time once d has
	// elapsed.
	After(d time.Duration) <-chan time.Time

	// AfterFunc calls f in its own goroutine (real clock) or in the
	// advancing goroutine (fake clock) once d has elapsed.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a handle to a scheduled AfterFunc callback.
type Timer struct {
	stop func() bool
}

// Stop prevents the callback from running. Returns true if the call
// stopped a pending timer, false if it had already fired or been
// stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.stop == nil {
		return false
	}
	return t.stop()
}

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	timer := time.AfterFunc(d, f)
	return &Timer{stop: timer.Stop}
}
