// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"fmt"
	"time"
)

// T is the subset of testing.TB the helpers need.
type T interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive reads one value from ch within timeout, or fails the
// test.
//
//	frame := testutil.RequireReceive(t, sent, time.Second, "waiting for send")
func RequireReceive[V any](t T, ch <-chan V, timeout time.Duration, msgAndArgs ...any) V {
	t.Helper()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed without a value: %s", describe(msgAndArgs))
		}
		return value
	case <-time.After(timeout): //nolint:realclock test hang prevention
		t.Fatalf("timed out after %v: %s", timeout, describe(msgAndArgs))
	}
	panic("unreachable")
}

// RequireNoReceive fails the test if ch yields a value within window.
// Only use it to assert that something did not happen; the window is
// real time.
func RequireNoReceive[V any](t T, ch <-chan V, window time.Duration, msgAndArgs ...any) {
	t.Helper()
	select {
	case value, ok := <-ch:
		if ok {
			t.Fatalf("unexpected value %v: %s", value, describe(msgAndArgs))
		}
	case <-time.After(window): //nolint:realclock bounded negative check
	}
}

// RequireClosed waits for ch to close (or deliver) within timeout.
func RequireClosed[V any](t T, ch <-chan V, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout): //nolint:realclock test hang prevention
		t.Fatalf("timed out after %v waiting for close: %s", timeout, describe(msgAndArgs))
	}
}

func describe(msgAndArgs []any) string {
	switch {
	case len(msgAndArgs) == 0:
		return "(no message)"
	case len(msgAndArgs) == 1:
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}
