// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNoTerminal is returned by ReadTerminal when fd is not a terminal.
var ErrNoTerminal = errors.New("no terminal available for an interactive prompt")

// ReadFromPath reads a secret from a file, or the first line of stdin
// when path is "-". Surrounding whitespace is trimmed; an empty result
// is an error.
func ReadFromPath(path string, stdin io.Reader) (*Buffer, error) {
	var data []byte
	if path == "-" {
		scanner := bufio.NewScanner(stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			return nil, errors.New("stdin is empty")
		}
		data = scanner.Bytes()
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	return fromUntrimmed(data)
}

// ReadTerminal prompts on w and reads a secret from the terminal fd
// with echo disabled.
func ReadTerminal(fd int, w io.Writer, label string) (*Buffer, error) {
	if !term.IsTerminal(fd) {
		return nil, ErrNoTerminal
	}
	fmt.Fprintf(w, "%s: ", label)
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", label, err)
	}
	return fromUntrimmed(data)
}

func fromUntrimmed(data []byte) (*Buffer, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, errors.New("secret is empty")
	}
	buffer, err := NewFromBytes(trimmed)
	Zero(data)
	return buffer, err
}
