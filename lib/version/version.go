// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports which scire build is running. The release
// scripts stamp the variables below through the linker:
//
//	go build -ldflags "-X github.com/scire-project/scire/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/scire
//
// Unstamped builds, such as go run or go test, keep the placeholders.
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitCommit names the revision scire was built from.
	GitCommit = "unknown"

	// GitDirty is "true" for builds from a modified checkout. Any other
	// value counts as clean.
	GitDirty = "false"

	// BuildTime is when the binary was stamped, in UTC.
	BuildTime = "unknown"

	// Version is the scire release, also sent to the ticket server in
	// the User-Agent header.
	Version = "0.1.0-dev"
)

// Info is the one-line build description printed by scire version,
// e.g. "1.2.0 (abc1234-dirty, 2026-03-01T08:30:00Z)".
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full is Info followed by the Go release and target platform, for bug
// reports.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent identifies scire to the REST API.
func UserAgent() string {
	return "scire/" + Version
}
