// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.cbor")
	saved := Session{Token: " secret-token\n", SavedAt: time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)}

	if err := Save(path, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Token != "secret-token" {
		t.Errorf("Token = %q, want trimmed token", got.Token)
	}
	if !got.SavedAt.Equal(saved.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", got.SavedAt, saved.SavedAt)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Errorf("mode = %o, want 600", mode)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temporary file left behind: %v", err)
	}
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cbor")
	if err := Save(path, Session{Token: "   "}); err == nil {
		t.Fatal("Save accepted a blank token")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file written for a blank token: %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.cbor"))
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("Load = %v, want ErrNoSession", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cbor")
	if err := os.WriteFile(path, []byte{0xff, 0x00, 0x13}, 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || errors.Is(err, ErrNoSession) {
		t.Fatalf("Load = %v, want a parse error", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cbor")
	if err := Save(path, Session{Token: "t"}); err != nil {
		t.Fatal(err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Load after Remove = %v", err)
	}
}
