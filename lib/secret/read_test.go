// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFromPathTrimsFileContent(t *testing.T) {
	directory := t.TempDir()
	for _, content := range []string{"tok-123", "tok-123\n", "  tok-123 \r\n"} {
		path := filepath.Join(directory, "token")
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		buffer, err := ReadFromPath(path, nil)
		if err != nil {
			t.Fatalf("ReadFromPath(%q): %v", content, err)
		}
		if got := buffer.String(); got != "tok-123" {
			t.Errorf("ReadFromPath(%q) = %q, want tok-123", content, got)
		}
		buffer.Close()
	}
}

func TestReadFromPathStdinFirstLine(t *testing.T) {
	buffer, err := ReadFromPath("-", strings.NewReader("tok-456\nignored\n"))
	if err != nil {
		t.Fatalf("ReadFromPath(-): %v", err)
	}
	defer buffer.Close()
	if got := buffer.String(); got != "tok-456" {
		t.Fatalf("stdin token = %q, want tok-456", got)
	}
}

func TestReadFromPathRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank")
	if err := os.WriteFile(path, []byte(" \n\t\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFromPath(path, nil); err == nil {
		t.Error("whitespace-only file accepted")
	}
	if _, err := ReadFromPath("-", strings.NewReader("")); err == nil {
		t.Error("empty stdin accepted")
	}
	if _, err := ReadFromPath(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("missing file accepted")
	}
}

func TestReadTerminalRequiresTerminal(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "not-a-tty")
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	var prompt strings.Builder
	if _, err := ReadTerminal(int(file.Fd()), &prompt, "Token"); !errors.Is(err, ErrNoTerminal) {
		t.Fatalf("ReadTerminal on a file = %v, want ErrNoTerminal", err)
	}
	if prompt.Len() != 0 {
		t.Fatalf("prompt written without a terminal: %q", prompt.String())
	}
}
