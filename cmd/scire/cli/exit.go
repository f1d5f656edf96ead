// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError ends the process with Code without printing an error line;
// the command has already written its own output.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit code %d", e.Code) }

// ExitCode is checked by main to tell a handled exit from a failure.
func (e *ExitError) ExitCode() int { return e.Code }
