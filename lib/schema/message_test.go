// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

func id(value int64) *int64 { return &value }

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		name   string
		record MessageRecord
		want   MessageKind
	}{
		{"user chat", MessageRecord{Text: "hello", UserID: id(3)}, MessageChatText},
		{"admin chat", MessageRecord{Text: "hi", AdminID: id(7)}, MessageChatText},
		{"pending notice", MessageRecord{AdminID: id(7)}, MessageMarkedPending},
		{"in progress notice", MessageRecord{AdminID: id(7), InProgress: true}, MessageMarkedInProgress},
		{"solved notice", MessageRecord{AdminID: id(7), Solved: true}, MessageMarkedSolved},
		{"admin connected", MessageRecord{AdminID: id(7), AdminConnected: true}, MessageAdminConnected},
		{"admin disconnected", MessageRecord{AdminID: id(7), AdminDisconnected: true}, MessageAdminDisconnected},
		{"owner solved", MessageRecord{UserID: id(3), Solved: true}, MessageUserMarkedSolved},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ClassifyMessage(test.record)
			if err != nil {
				t.Fatalf("ClassifyMessage: %v", err)
			}
			if got != test.want {
				t.Fatalf("kind = %v, want %v", got, test.want)
			}
		})
	}
}

func TestClassifyMessageRejectsUnknownShapes(t *testing.T) {
	tests := []struct {
		name   string
		record MessageRecord
	}{
		{"empty user line", MessageRecord{UserID: id(3)}},
		{"text with flag", MessageRecord{Text: "x", AdminID: id(7), Solved: true}},
		{"two flags", MessageRecord{AdminID: id(7), Solved: true, InProgress: true}},
		{"connected without admin", MessageRecord{AdminConnected: true}},
		{"in progress without admin", MessageRecord{InProgress: true}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ClassifyMessage(test.record)
			if !errors.Is(err, ErrUnknownMessageShape) {
				t.Fatalf("err = %v, want ErrUnknownMessageShape", err)
			}
		})
	}
}

func TestMessageRecordDecodesNullIDs(t *testing.T) {
	var record MessageRecord
	data := `{"id":5,"text":"","user_id":null,"admin_id":7,"ticket_id":2,
		"admin_connected":false,"admin_disconnected":false,"in_progress":false,"solved":false,"files":[]}`
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if record.UserID != nil {
		t.Fatalf("UserID = %v, want nil", *record.UserID)
	}
	if record.AdminID == nil || *record.AdminID != 7 {
		t.Fatalf("AdminID = %v, want 7", record.AdminID)
	}
}
