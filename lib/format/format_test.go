// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"testing"
	"time"

	"github.com/scire-project/scire/lib/schema"
)

func TestTimeDefaultZone(t *testing.T) {
	server := time.Date(2026, 3, 9, 21, 5, 0, 0, time.UTC)
	if got, want := Time(server, nil), "01:05 - 10.03.2026"; got != want {
		t.Errorf("Time = %q, want %q", got, want)
	}
	if got, want := Time(server, Zone(0)), "21:05 - 09.03.2026"; got != want {
		t.Errorf("Time(UTC) = %q, want %q", got, want)
	}
	if got := Time(time.Time{}, nil); got != "" {
		t.Errorf("Time(zero) = %q, want empty", got)
	}
}

func TestZoneName(t *testing.T) {
	name, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, Zone(-3)).Zone()
	if name != "UTC-3" || offset != -3*3600 {
		t.Errorf("Zone(-3) = %s %d", name, offset)
	}
}

func TestFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1500, "1.5 kB"},
		{2_500_000, "2.5 MB"},
		{-1, "0 B"},
	}
	for _, test := range tests {
		if got := FileSize(test.size); got != test.want {
			t.Errorf("FileSize(%d) = %q, want %q", test.size, got, test.want)
		}
	}
	if got := File("report.pdf", 512); got != "report.pdf - 512 B" {
		t.Errorf("File = %q", got)
	}
}

func TestMessage(t *testing.T) {
	admin := int64(7)
	user := int64(3)
	base := schema.Message{UserName: "Ivanov Pavel", AdminName: "Smirnova Anna", UserID: &user}

	tests := []struct {
		name    string
		kind    schema.MessageKind
		adminID *int64
		text    string
		want    string
	}{
		{"pending", schema.MessageMarkedPending, &admin, "", "[Admin] Smirnova Anna marked ticket as Pending"},
		{"in progress", schema.MessageMarkedInProgress, &admin, "", "[Admin] Smirnova Anna marked ticket as In progress"},
		{"solved", schema.MessageMarkedSolved, &admin, "", "[Admin] Smirnova Anna marked ticket as Solved"},
		{"connected", schema.MessageAdminConnected, &admin, "", "[Admin] Smirnova Anna connected"},
		{"disconnected", schema.MessageAdminDisconnected, &admin, "", "[Admin] Smirnova Anna disconnected"},
		{"user solved", schema.MessageUserMarkedSolved, nil, "", "Ivanov Pavel marked ticket as Solved"},
		{"admin chat", schema.MessageChatText, &admin, "On it", "[Admin] Smirnova Anna: On it"},
		{"user chat", schema.MessageChatText, nil, "Printer is on fire", "Ivanov Pavel: Printer is on fire"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			message := base
			message.Kind = test.kind
			message.AdminID = test.adminID
			message.Text = test.text
			if got := Message(message); got != test.want {
				t.Errorf("Message = %q, want %q", got, test.want)
			}
		})
	}
}

func TestMessageBlockListsFiles(t *testing.T) {
	message := schema.Message{
		Kind:     schema.MessageChatText,
		Text:     "logs attached",
		UserName: "Ivanov Pavel",
		Files: []schema.TicketFile{
			{Name: "a.log", Size: 120},
			{Name: "b.log", Size: 3000},
		},
	}
	want := "Ivanov Pavel: logs attached\n    a.log - 120 B\n    b.log - 3.0 kB"
	if got := MessageBlock(message); got != want {
		t.Errorf("MessageBlock =\n%s\nwant\n%s", got, want)
	}
}

func TestAssignee(t *testing.T) {
	if got := Assignee(schema.Ticket{}); got != "None" {
		t.Errorf("Assignee(unassigned) = %q", got)
	}
	if got := Assignee(schema.Ticket{AssigneeName: "Smirnova Anna"}); got != "Smirnova Anna" {
		t.Errorf("Assignee = %q", got)
	}
}
