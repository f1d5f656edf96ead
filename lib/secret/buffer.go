// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer holds a token outside the Go heap in an anonymous mapping
// that is excluded from core dumps and zeroed on Close. Do not copy a
// Buffer; reading after Close panics.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	locked bool
	closed bool
}

// New maps size zero bytes. The pages are locked into RAM when
// RLIMIT_MEMLOCK allows; [Buffer.Locked] reports whether they were.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mapping %d bytes: %w", size, err)
	}
	if err := unix.Madvise(data, unix.MADV_DONTDUMP); err != nil {
		unix.Munmap(data)
		return nil, fmt.Errorf("secret: excluding from core dumps: %w", err)
	}
	return &Buffer{data: data, locked: unix.Mlock(data) == nil}, nil
}

// NewFromBytes moves source into a new Buffer. source is zeroed
// whether or not the move succeeds.
func NewFromBytes(source []byte) (*Buffer, error) {
	defer Zero(source)
	if len(source) == 0 {
		return nil, errors.New("secret: empty source")
	}
	buffer, err := New(len(source))
	if err != nil {
		return nil, err
	}
	copy(buffer.data, source)
	return buffer, nil
}

// open returns the live mapping with the lock held.
func (b *Buffer) open() []byte {
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return b.data
}

// Bytes is a view into the mapping, invalid after Close.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open()
}

// String copies the secret onto the heap, where callers such as the
// REST client and the session codec need it.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.open())
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Locked reports whether the pages are locked into RAM.
func (b *Buffer) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Close zeroes and unmaps the buffer. Closing twice is fine.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	Zero(b.data)

	var errs []error
	if b.locked {
		errs = append(errs, unix.Munlock(b.data))
	}
	errs = append(errs, unix.Munmap(b.data))
	b.data = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("secret: releasing buffer: %w", err)
	}
	return nil
}

// Zero overwrites data in place.
func Zero(data []byte) {
	clear(data)
}
