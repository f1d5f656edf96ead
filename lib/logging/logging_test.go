// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, test := range tests {
		got, err := ParseLevel(test.name)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", test.name, got, test.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel accepted an unknown level")
	}
}

func TestLevelFilters(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := New(Options{Level: "warn", Stderr: &buffer})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	if strings.Contains(buffer.String(), "quiet") {
		t.Errorf("info record written at warn level: %s", buffer.String())
	}
	if !strings.Contains(buffer.String(), "loud") {
		t.Errorf("warn record missing: %s", buffer.String())
	}
}

func TestSecretsAreMasked(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := New(Options{Level: "debug", Stderr: &buffer, Secrets: []string{"tok-123", ""}})
	if err != nil {
		t.Fatal(err)
	}

	logger.With("header", "Bearer tok-123").Info("dialing with tok-123",
		"url", "wss://example.test",
		"error", errors.New("handshake rejected tok-123"),
		slog.Group("request", slog.String("auth", "tok-123")),
	)

	output := buffer.String()
	if strings.Contains(output, "tok-123") {
		t.Fatalf("secret leaked: %s", output)
	}
	if count := strings.Count(output, Redacted); count != 4 {
		t.Errorf("found %d redactions, want 4: %s", count, output)
	}
	if !strings.Contains(output, "wss://example.test") {
		t.Errorf("unrelated attribute altered: %s", output)
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scire.log")
	logger, err := New(Options{File: path, MaxSizeMB: 1, MaxBackups: 1})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("written to file", "ticket", 4)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"written to file"`) || !strings.Contains(string(data), `"ticket":4`) {
		t.Errorf("unexpected file contents: %s", data)
	}
}

func TestAlsoHandlersReceiveMaskedRecords(t *testing.T) {
	var main, status bytes.Buffer
	logger, err := New(Options{
		Level:   "debug",
		Stderr:  &main,
		Secrets: []string{"tok-secret"},
		Also:    []slog.Handler{slog.NewTextHandler(&status, &slog.HandlerOptions{Level: slog.LevelWarn})},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("dialing", "url", "wss://host/?token=tok-secret")
	logger.With("ticket_id", 4).Warn("upload failed with tok-secret")

	if strings.Contains(main.String()+status.String(), "tok-secret") {
		t.Fatalf("secret leaked:\nmain: %s\nstatus: %s", main.String(), status.String())
	}
	if !strings.Contains(main.String(), "dialing") {
		t.Errorf("main sink missing debug record: %s", main.String())
	}
	if strings.Contains(status.String(), "dialing") {
		t.Errorf("status sink received a record below its level: %s", status.String())
	}
	if !strings.Contains(status.String(), "ticket_id=4") || !strings.Contains(status.String(), Redacted) {
		t.Errorf("status sink = %q, want the masked warning with its attrs", status.String())
	}
}
