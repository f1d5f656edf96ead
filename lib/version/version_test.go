// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	savedCommit, savedDirty, savedTime, savedVersion := GitCommit, GitDirty, BuildTime, Version
	t.Cleanup(func() {
		GitCommit, GitDirty, BuildTime, Version = savedCommit, savedDirty, savedTime, savedVersion
	})

	GitCommit, GitDirty, BuildTime, Version = "abc1234", "false", "2026-03-01T08:30:00Z", "1.2.0"
	if got, want := Info(), "1.2.0 (abc1234, 2026-03-01T08:30:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want a dirty marker", got)
	}
	if got := UserAgent(); got != "scire/1.2.0" {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Info()) {
		t.Errorf("Full() = %q, want it to start with Info()", full)
	}
	if !strings.Contains(full, runtime.Version()) || !strings.Contains(full, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Full() = %q, missing toolchain or platform", full)
	}
}
