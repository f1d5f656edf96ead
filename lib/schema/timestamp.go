// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a server time that may be null on the wire. The zero
// value means the server sent null or omitted the field.
type Timestamp struct {
	time.Time
}

// Layouts accepted on decode. The backends emit ISO 8601 with and
// without a zone; zone-less values are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses text in any accepted layout.
func ParseTimestamp(text string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, text)
		if err == nil {
			return Timestamp{parsed}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", text)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if text == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(text)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
