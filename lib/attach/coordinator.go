// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package attach uploads the files queued for a new ticket and
// announces each one to the server.
//
// Each file runs its own chain: upload to storage, then send
// add_file_to_ticket. Chains for different files run concurrently and
// finish in any order. The queue entry is not removed here; it stays
// in the Uploaded state until the server's acknowledgement reaches the
// dispatcher.
package attach

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/scire-project/scire/lib/metrics"
	"github.com/scire-project/scire/lib/notice"
	"github.com/scire-project/scire/lib/schema"
	"github.com/scire-project/scire/lib/store"
)

// Uploader stores a blob and returns the storage record.
type Uploader interface {
	Upload(ctx context.Context, name string, content io.Reader) (schema.StoredFile, error)
}

// FileAttacher announces a stored file for a ticket over the socket.
type FileAttacher interface {
	AttachFile(ticketID int64, file schema.StoredFile) error
}

// Config holds the Coordinator's collaborators.
type Config struct {
	Store    *store.Store
	Uploader Uploader
	Attacher FileAttacher
	Notifier notice.Notifier
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// Coordinator runs attach chains. Safe for concurrent use.
type Coordinator struct {
	config Config
	group  sync.WaitGroup

	// mutex orders group.Add against Close so no chain starts once
	// Close has begun waiting.
	mutex  sync.Mutex
	closed bool
}

// New creates a Coordinator.
func New(config Config) *Coordinator {
	if config.Notifier == nil {
		config.Notifier = notice.Discard
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{config: config}
}

// AttachPending starts one chain per file and returns immediately.
// After Close it starts nothing and the files stay queued.
func (c *Coordinator) AttachPending(ctx context.Context, ticketID int64, files []store.PendingFile) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		c.config.Logger.Debug("coordinator closed, not attaching", "ticket_id", ticketID, "files", len(files))
		return
	}
	for _, file := range files {
		c.group.Add(1)
		go func() {
			defer c.group.Done()
			c.attach(ctx, ticketID, file)
		}()
	}
}

// Wait blocks until every started chain has finished.
func (c *Coordinator) Wait() {
	c.group.Wait()
}

// Close refuses further AttachPending calls and waits for the chains
// already running.
func (c *Coordinator) Close() {
	c.mutex.Lock()
	c.closed = true
	c.mutex.Unlock()
	c.group.Wait()
}

func (c *Coordinator) attach(ctx context.Context, ticketID int64, file store.PendingFile) {
	logger := c.config.Logger.With("ticket_id", ticketID, "file", file.Name, "pending_id", file.ID)
	c.config.Store.Dispatch(store.MarkPendingFileUploading{ID: file.ID})

	stored, err := c.config.Uploader.Upload(ctx, file.Name, bytes.NewReader(file.Content))
	if err != nil {
		c.fail(logger, file, notice.Request("uploading %s: %w", file.Name, unwrapRequest(err)))
		return
	}
	if _, applied := c.config.Store.Dispatch(store.MarkPendingFileUploaded{ID: file.ID, UUID: stored.UUID}); !applied {
		logger.Debug("store closed during upload")
		return
	}

	if err := c.config.Attacher.AttachFile(ticketID, stored); err != nil {
		c.fail(logger, file, err)
		return
	}
	logger.Info("file uploaded", "file_uuid", stored.UUID, "size", stored.Size)
	c.config.Metrics.Upload("attached")
}

func (c *Coordinator) fail(logger *slog.Logger, file store.PendingFile, err error) {
	logger.Warn("file attach failed", "error", err)
	c.config.Store.Dispatch(store.MarkPendingFileFailed{ID: file.ID, Err: err.Error()})
	c.config.Notifier.Notify(err)
	c.config.Metrics.Upload("failed")
}

// unwrapRequest strips an outer request category so re-wrapping does
// not nest two categorized errors.
func unwrapRequest(err error) error {
	if categorized, ok := err.(*notice.Error); ok && categorized.Category == notice.CategoryRequest {
		return categorized.Err
	}
	return err
}
