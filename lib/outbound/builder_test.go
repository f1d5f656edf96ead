// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package outbound

import (
	"errors"
	"testing"

	"github.com/scire-project/scire/lib/connection"
	"github.com/scire-project/scire/lib/notice"
	"github.com/scire-project/scire/lib/protocol"
	"github.com/scire-project/scire/lib/schema"
)

// fakeSender records frames and mimics the manager's readiness gate.
type fakeSender struct {
	ready  bool
	frames []protocol.Envelope
	fail   error
}

func (s *fakeSender) Ready() bool { return s.ready }

func (s *fakeSender) Send(frame []byte) error {
	if !s.ready {
		return connection.ErrNotReady
	}
	if s.fail != nil {
		return s.fail
	}
	envelope, err := protocol.ParseEnvelope(frame)
	if err != nil {
		return err
	}
	s.frames = append(s.frames, envelope)
	return nil
}

func (s *fakeSender) actions() []string {
	actions := make([]string, len(s.frames))
	for i, frame := range s.frames {
		actions[i] = frame.Action
	}
	return actions
}

func TestCreateTicketRequiresTitleAndDescription(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
	}{
		{"empty title", "", "Jammed"},
		{"blank title", "   ", "Jammed"},
		{"empty description", "Printer", ""},
		{"both blank", " ", "\t"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sender := &fakeSender{ready: true}
			err := New(sender, nil, nil).CreateTicket(test.title, test.description)
			if notice.CategoryOf(err) != notice.CategoryValidation {
				t.Fatalf("err = %v, want validation", err)
			}
			if err.Error() != "title and description are required" {
				t.Fatalf("message = %q", err.Error())
			}
			if len(sender.frames) != 0 {
				t.Fatalf("sent %v", sender.actions())
			}
		})
	}
}

func TestCreateTicketSendsTrimmedFields(t *testing.T) {
	sender := &fakeSender{ready: true}
	if err := New(sender, nil, nil).CreateTicket("  Printer ", "Jammed\n"); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if len(sender.frames) != 1 || sender.frames[0].Action != "create_ticket" {
		t.Fatalf("frames = %v", sender.actions())
	}
	if got := string(sender.frames[0].Data); got != `{"title":"Printer","description":"Jammed"}` {
		t.Fatalf("data = %s", got)
	}
}

func TestSendMessageToSolvedTicketReopensFirst(t *testing.T) {
	sender := &fakeSender{ready: true}
	ticket := &schema.Ticket{ID: 4, Status: schema.StatusSolved}
	if err := New(sender, nil, nil).SendMessage(ticket, "still broken"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got := sender.actions(); len(got) != 2 || got[0] != "reopen_ticket" || got[1] != "send_message" {
		t.Fatalf("actions = %v, want [reopen_ticket send_message]", got)
	}
	if got := string(sender.frames[0].Data); got != `{"item_id":4}` {
		t.Fatalf("reopen data = %s", got)
	}
	if got := string(sender.frames[1].Data); got != `{"text":"still broken","ticket_id":4}` {
		t.Fatalf("message data = %s", got)
	}
}

func TestSendMessageToOpenTicketSendsOnce(t *testing.T) {
	for _, status := range []schema.Status{schema.StatusPending, schema.StatusInProgress} {
		sender := &fakeSender{ready: true}
		if err := New(sender, nil, nil).SendMessage(&schema.Ticket{ID: 4, Status: status}, "hi"); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
		if got := sender.actions(); len(got) != 1 || got[0] != "send_message" {
			t.Fatalf("status %v: actions = %v", status, got)
		}
	}
}

func TestSendMessageValidation(t *testing.T) {
	sender := &fakeSender{ready: true}
	builder := New(sender, nil, nil)
	if err := builder.SendMessage(nil, "hi"); notice.CategoryOf(err) != notice.CategoryValidation {
		t.Fatalf("nil ticket: err = %v", err)
	}
	if err := builder.SendMessage(&schema.Ticket{ID: 4}, "  "); notice.CategoryOf(err) != notice.CategoryValidation {
		t.Fatalf("blank text: err = %v", err)
	}
	if len(sender.frames) != 0 {
		t.Fatalf("sent %v", sender.actions())
	}
}

func TestSendWhileNotReadyDropsCommand(t *testing.T) {
	sender := &fakeSender{ready: false}
	builder := New(sender, nil, nil)

	err := builder.SendMessage(&schema.Ticket{ID: 4, Status: schema.StatusSolved}, "hi")
	if !errors.Is(err, connection.ErrNotReady) {
		t.Fatalf("SendMessage err = %v, want ErrNotReady", err)
	}
	if err := builder.CreateTicket("t", "d"); notice.CategoryOf(err) != notice.CategoryTransport {
		t.Fatalf("CreateTicket err = %v, want transport", err)
	}
	if err := builder.CloseTicket(4); !errors.Is(err, connection.ErrNotReady) {
		t.Fatalf("CloseTicket err = %v", err)
	}
	if len(sender.frames) != 0 {
		t.Fatalf("sent %v while not ready", sender.actions())
	}
}

func TestWriteFailureIsTransport(t *testing.T) {
	sender := &fakeSender{ready: true, fail: errors.New("broken pipe")}
	err := New(sender, nil, nil).ReopenTicket(4)
	if notice.CategoryOf(err) != notice.CategoryTransport {
		t.Fatalf("err = %v, want transport", err)
	}
}

func TestCloseReopenAttach(t *testing.T) {
	sender := &fakeSender{ready: true}
	builder := New(sender, nil, nil)
	if err := builder.CloseTicket(4); err != nil {
		t.Fatalf("CloseTicket: %v", err)
	}
	if err := builder.ReopenTicket(4); err != nil {
		t.Fatalf("ReopenTicket: %v", err)
	}
	if err := builder.AttachFile(4, schema.StoredFile{UUID: "u", Name: "a.txt", Size: 3}); err != nil {
		t.Fatalf("AttachFile: %v", err)
	}
	if err := builder.AttachFile(4, schema.StoredFile{}); notice.CategoryOf(err) != notice.CategoryValidation {
		t.Fatalf("AttachFile without uuid: err = %v", err)
	}
	if err := builder.CloseTicket(0); notice.CategoryOf(err) != notice.CategoryValidation {
		t.Fatalf("CloseTicket(0): err = %v", err)
	}
	want := []string{"close_ticket", "reopen_ticket", "add_file_to_ticket"}
	got := sender.actions()
	if len(got) != len(want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("actions = %v, want %v", got, want)
		}
	}
	if data := string(sender.frames[2].Data); data != `{"item_id":4,"file_uuid":"u","file_name":"a.txt","file_size":3}` {
		t.Fatalf("attach data = %s", data)
	}
}
