// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock. Time only moves when the test
// calls Advance. Safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	changed *sync.Cond
	now     time.Time
	pending []*fakeTimer
}

type fakeTimer struct {
	deadline time.Time
	callback func()
	channel  chan time.Time
	done     bool
}

// Fake returns a FakeClock whose current time is start.
func Fake(start time.Time) *FakeClock {
	c := &FakeClock{now: start}
	c.changed = sync.NewCond(&c.mu)
	return c
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After returns a channel that receives once the clock has been
// advanced by at least d. Non-positive durations fire immediately.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	channel := make(chan time.Time, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if d <= 0 {
		channel <- c.now
		return channel
	}
	c.addLocked(&fakeTimer{deadline: c.now.Add(d), channel: channel})
	return channel
}

// AfterFunc schedules f to run synchronously inside the Advance call
// that crosses the deadline. A non-positive d runs f on the next
// Advance, including Advance(0).
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{deadline: c.now.Add(d), callback: f}
	c.addLocked(timer)
	return &Timer{stop: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if timer.done {
			return false
		}
		timer.done = true
		c.removeLocked(timer)
		return true
	}}
}

// Advance moves the clock forward by d, firing every timer whose
// deadline is reached in deadline order. The clock reads each timer's
// deadline while its callback runs, so a callback that re-arms itself
// fires again if the new deadline is still within the target.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		timer := c.takeNext(target)
		if timer == nil {
			break
		}
		if timer.callback != nil {
			timer.callback()
			continue
		}
		select {
		case timer.channel <- timer.deadline:
		default:
		}
	}

	c.mu.Lock()
	if c.now.Before(target) {
		c.now = target
	}
	c.mu.Unlock()
}

// WaitForTimers blocks until at least n timers are pending. Use it
// before Advance when the timer is registered by another goroutine.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.pending) < n {
		c.changed.Wait()
	}
}

// PendingCount returns the number of timers that have not fired or
// been stopped.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// takeNext removes the earliest timer due by target and moves the
// clock to its deadline. It returns nil when none is due.
func (c *FakeClock) takeNext(target time.Time) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := -1
	for index, timer := range c.pending {
		if timer.deadline.After(target) {
			continue
		}
		if next < 0 || timer.deadline.Before(c.pending[next].deadline) {
			next = index
		}
	}
	if next < 0 {
		return nil
	}
	timer := c.pending[next]
	c.pending = append(c.pending[:next], c.pending[next+1:]...)
	timer.done = true
	if timer.deadline.After(c.now) {
		c.now = timer.deadline
	}
	return timer
}

func (c *FakeClock) addLocked(timer *fakeTimer) {
	c.pending = append(c.pending, timer)
	c.changed.Broadcast()
}

func (c *FakeClock) removeLocked(timer *fakeTimer) {
	for i, candidate := range c.pending {
		if candidate == timer {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			break
		}
	}
	c.changed.Broadcast()
}
