// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package store

import "sync"

// Change is delivered to subscribers after each successful Dispatch.
type Change struct {
	State   State
	Actions []Action
}

// Store serializes reductions and publishes the results. Safe for
// concurrent use.
type Store struct {
	mutex       sync.RWMutex
	state       State
	closed      bool
	subscribers []chan Change
}

// New creates a store holding initial.
func New(initial State) *Store {
	return &Store{state: initial}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.state
}

// Dispatch reduces every action in order under one lock and publishes
// a single Change, so observers never see a state between them. After
// Close it does nothing and returns false with the final state.
func (s *Store) Dispatch(actions ...Action) (State, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return s.state, false
	}
	for _, action := range actions {
		s.state = Reduce(s.state, action)
	}

	change := Change{State: s.state, Actions: actions}
	for _, subscriber := range s.subscribers {
		select {
		case subscriber <- change:
		default:
			// Slow subscriber; the next change carries the full state.
		}
	}
	return s.state, true
}

// Subscribe returns a channel of changes. The channel closes when the
// store does.
func (s *Store) Subscribe() <-chan Change {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	channel := make(chan Change, 64)
	if s.closed {
		close(channel)
		return channel
	}
	s.subscribers = append(s.subscribers, channel)
	return channel
}

// Close tears the store down. Later dispatches, such as REST results
// landing after the view that requested them is gone, are discarded.
func (s *Store) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, subscriber := range s.subscribers {
		close(subscriber)
	}
	s.subscribers = nil
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.closed
}
