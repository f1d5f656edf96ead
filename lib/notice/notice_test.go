// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package notice

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/scire-project/scire/lib/clock"
	"github.com/scire-project/scire/lib/testutil"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"validation", Validation("title is required"), CategoryValidation},
		{"transport", Transport("connection not ready"), CategoryTransport},
		{"protocol wrapped", fmt.Errorf("frame: %w", Protocol("unknown action %q", "x")), CategoryProtocol},
		{"plain", errors.New("dial tcp: refused"), CategoryRequest},
	}
	for _, test := range tests {
		if got := CategoryOf(test.err); got != test.want {
			t.Errorf("%s: CategoryOf = %q, want %q", test.name, got, test.want)
		}
	}
}

func TestErrorUnwraps(t *testing.T) {
	sentinel := errors.New("boom")
	err := Request("upload: %w", sentinel)
	if !errors.Is(err, sentinel) {
		t.Fatal("errors.Is did not reach wrapped sentinel")
	}
	if err.Error() != "upload: boom" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestChannelNotifierDropsWhenFull(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	notifier := NewChannelNotifier(fake, 1)
	notifier.Notify(Validation("first"))
	notifier.Notify(Validation("second"))
	notifier.Notify(nil)

	got := testutil.RequireReceive(t, notifier.Notices(), time.Second, "first notice")
	if got.Message != "first" || got.Category != CategoryValidation {
		t.Fatalf("notice = %+v", got)
	}
	if !got.Time.Equal(fake.Now()) {
		t.Fatalf("Time = %v, want %v", got.Time, fake.Now())
	}
	if notifier.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", notifier.Dropped())
	}
}

func TestLogNotifierCarriesCategory(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, nil))
	Multi{LogNotifier{Logger: logger}, Discard}.Notify(Protocol("unknown action %q", "unknown_x"))

	output := buffer.String()
	if !strings.Contains(output, "category=protocol") {
		t.Fatalf("log output missing category: %s", output)
	}
	if !strings.Contains(output, "level=WARN") {
		t.Fatalf("log output not at warn: %s", output)
	}
}
