// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package notice

import (
	"log/slog"
	"sync"
	"time"

	"github.com/scire-project/scire/lib/clock"
)

// Notice is a user-visible report of a failure.
type Notice struct {
	Category Category
	Message  string
	Time     time.Time
}

// Notifier receives every failure the sync core surfaces.
type Notifier interface {
	Notify(err error)
}

// LogNotifier writes notices to a logger at Warn with the category as
// an attribute. The terminal UI's log handler turns those records
// into status-bar messages.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(err error) {
	if err == nil {
		return
	}
	n.Logger.Warn(err.Error(), "category", string(CategoryOf(err)))
}

// ChannelNotifier buffers notices for a consumer that polls them. When
// the buffer is full new notices are dropped and counted.
type ChannelNotifier struct {
	clock   clock.Clock
	notices chan Notice

	mu      sync.Mutex
	dropped int
}

// NewChannelNotifier creates a ChannelNotifier with room for size
// undelivered notices.
func NewChannelNotifier(clk clock.Clock, size int) *ChannelNotifier {
	return &ChannelNotifier{clock: clk, notices: make(chan Notice, size)}
}

func (n *ChannelNotifier) Notify(err error) {
	if err == nil {
		return
	}
	notice := Notice{Category: CategoryOf(err), Message: err.Error(), Time: n.clock.Now()}
	select {
	case n.notices <- notice:
	default:
		n.mu.Lock()
		n.dropped++
		n.mu.Unlock()
	}
}

// Notices returns the delivery channel.
func (n *ChannelNotifier) Notices() <-chan Notice { return n.notices }

// Dropped returns how many notices were discarded because the buffer
// was full.
func (n *ChannelNotifier) Dropped() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}

// Multi fans a notice out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(err error) {
	for _, notifier := range m {
		notifier.Notify(err)
	}
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(error) {}
