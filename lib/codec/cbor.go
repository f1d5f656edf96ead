// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration for state the client
// writes to disk. Wire traffic with the servers is JSON and does not
// go through this package.
package codec

import (
	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	options := cbor.CoreDetEncOptions()
	// Timestamps keep their zone offset so a session written in one
	// zone reads back identically in another.
	options.Time = cbor.TimeRFC3339Nano
	options.TimeTag = cbor.EncTagRequired

	var err error
	encMode, err = options.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Files from a newer client may carry fields this one does not
		// know; they are ignored.
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v with Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Duplicate map keys are rejected.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
