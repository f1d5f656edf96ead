// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package session persists the bearer credential between runs. The
// credential is the only client state kept on disk: tickets, messages
// and drafts live in memory for one run.
//
// The file is CBOR, written atomically (temporary file, fsync, rename)
// with mode 0600.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scire-project/scire/lib/codec"
)

// ErrNoSession is returned by Load when no session file exists.
var ErrNoSession = errors.New("not signed in; run \"scire login\" first")

// Session is the stored credential.
type Session struct {
	Token   string    `cbor:"token"`
	SavedAt time.Time `cbor:"saved_at"`
}

// DefaultPath is the session file under the user config directory.
func DefaultPath() string {
	directory, err := os.UserConfigDir()
	if err != nil {
		directory = os.TempDir()
	}
	return filepath.Join(directory, "scire", "session.cbor")
}

// Save writes the session to path, creating the parent directory with
// mode 0700 when needed. Readers never see a partial write.
func Save(path string, session Session) error {
	session.Token = strings.TrimSpace(session.Token)
	if session.Token == "" {
		return errors.New("session token is empty")
	}
	data, err := codec.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	temporaryPath := path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating temporary session file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary session file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary session file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary session file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming session file into place: %w", err)
	}
	return nil
}

// Load reads the session at path. A missing file yields ErrNoSession.
func Load(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("reading session: %w", err)
	}
	var session Session
	if err := codec.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	if session.Token == "" {
		return Session{}, ErrNoSession
	}
	return session, nil
}

// Remove deletes the session file. Removing a missing session is not
// an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
