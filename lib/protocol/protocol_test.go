// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDecodeKnownActions(t *testing.T) {
	ticket := `{"id":4,"title":"t","description":"d","status":2,"user_id":3,"admin_id":7,"created_at":null,"updated_at":null}`
	tests := []struct {
		frame string
		want  string
	}{
		{`{"action":"create_ticket","data":` + ticket + `}`, "protocol.TicketCreated"},
		{`{"action":"close_ticket","data":` + ticket + `}`, "protocol.TicketClosed"},
		{`{"action":"reopen_ticket","data":` + ticket + `}`, "protocol.TicketReopened"},
		{`{"action":"set_ticket_status","data":` + ticket + `}`, "protocol.StatusSet"},
		{`{"action":"assign_ticket","data":` + ticket + `}`, "protocol.TicketAssigned"},
		{`{"action":"connect_ticket","data":` + ticket + `}`, "protocol.AdminConnected"},
		{`{"action":"disconnect_ticket","data":` + ticket + `}`, "protocol.AdminDisconnected"},
		{`{"action":"add_file_to_ticket","data":{"item_id":4,"file_uuid":"u","file_name":"a.txt","file_size":10}}`, "protocol.FileAttached"},
		{`{"action":"send_message","data":{"id":1,"text":"hi","user_id":3,"admin_id":null,"ticket_id":4}}`, "protocol.MessageSent"},
	}
	for _, test := range tests {
		event, err := Decode([]byte(test.frame))
		if err != nil {
			t.Errorf("Decode(%s): %v", test.frame, err)
			continue
		}
		if got := reflect.TypeOf(event).String(); got != test.want {
			t.Errorf("Decode(%s) = %s, want %s", test.frame, got, test.want)
		}
	}
}

func TestDecodeTicketPayload(t *testing.T) {
	event, err := Decode([]byte(`{"action":"assign_ticket","data":{"id":4,"title":"Printer","status":1,"user_id":3,"admin_id":7}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assigned, ok := event.(TicketAssigned)
	if !ok {
		t.Fatalf("event = %T", event)
	}
	if assigned.Ticket.ID != 4 || assigned.Ticket.AdminID == nil || *assigned.Ticket.AdminID != 7 {
		t.Fatalf("ticket = %+v", assigned.Ticket)
	}
}

func TestDecodeUnknownActionIsNotAnError(t *testing.T) {
	event, err := Decode([]byte(`{"action":"unknown_x","data":{"a":1}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	unknown, ok := event.(Unknown)
	if !ok {
		t.Fatalf("event = %T, want Unknown", event)
	}
	if unknown.Action() != "unknown_x" {
		t.Fatalf("Action() = %q", unknown.Action())
	}
}

func TestDecodeRejectsMalformedFrames(t *testing.T) {
	for _, frame := range []string{
		`not json`,
		`{"data":{}}`,
		`{"action":"create_ticket"}`,
		`{"action":"create_ticket","data":null}`,
		`{"action":"send_message","data":{"id":"one"}}`,
	} {
		if _, err := Decode([]byte(frame)); err == nil {
			t.Errorf("Decode(%s) succeeded", frame)
		}
	}
}

func TestEncodeCommands(t *testing.T) {
	tests := []struct {
		command Command
		want    string
	}{
		{CreateTicket{Title: "Printer", Description: "Jammed"}, `{"action":"create_ticket","data":{"title":"Printer","description":"Jammed"}}`},
		{SendMessage{Text: "hi", TicketID: 4}, `{"action":"send_message","data":{"text":"hi","ticket_id":4}}`},
		{CloseTicket{ItemID: 4}, `{"action":"close_ticket","data":{"item_id":4}}`},
		{ReopenTicket{ItemID: 4}, `{"action":"reopen_ticket","data":{"item_id":4}}`},
		{AddFileToTicket{ItemID: 4, FileUUID: "u", FileName: "a.txt", FileSize: 10},
			`{"action":"add_file_to_ticket","data":{"item_id":4,"file_uuid":"u","file_name":"a.txt","file_size":10}}`},
	}
	for _, test := range tests {
		frame, err := Encode(test.command)
		if err != nil {
			t.Fatalf("Encode(%T): %v", test.command, err)
		}
		var got, want any
		if err := json.Unmarshal(frame, &got); err != nil {
			t.Fatalf("Encode(%T) produced invalid JSON: %v", test.command, err)
		}
		if err := json.Unmarshal([]byte(test.want), &want); err != nil {
			t.Fatalf("bad fixture: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Encode(%T) = %s, want %s", test.command, frame, test.want)
		}
	}
}
