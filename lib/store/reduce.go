// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"github.com/scire-project/scire/lib/directory"
	"github.com/scire-project/scire/lib/schema"
)

// Reduce returns the state after applying action. It never modifies
// state's slices. An action it does not handle, including nil,
// returns state unchanged.
func Reduce(state State, action Action) State {
	switch action := action.(type) {
	case SetTickets:
		state.Tickets = clone(action.Tickets)

	case AddTicket:
		tickets := make([]schema.Ticket, 0, len(state.Tickets)+1)
		tickets = append(tickets, action.Ticket)
		state.Tickets = append(tickets, state.Tickets...)

	case UpdateTicket:
		index := ticketIndex(state.Tickets, action.Ticket.ID)
		if index < 0 {
			return state
		}
		tickets := clone(state.Tickets)
		tickets[index] = action.Ticket
		state.Tickets = tickets

	case DeleteTicket:
		index := ticketIndex(state.Tickets, action.ID)
		if index < 0 {
			return state
		}
		state.Tickets = without(state.Tickets, index)

	case SetActiveTicket:
		if action.Ticket == nil {
			state.ActiveTicket = nil
			return state
		}
		ticket := *action.Ticket
		state.ActiveTicket = &ticket

	case SetActiveTicketFiles:
		state.ActiveFiles = clone(action.Files)

	case AppendActiveTicketFile:
		if id, ok := state.ActiveTicketID(); !ok || id != action.File.TicketID {
			return state
		}
		state.ActiveFiles = appended(state.ActiveFiles, action.File)

	case SetMessages:
		state.Messages = clone(action.Messages)

	case AppendMessage:
		state.Messages = appended(state.Messages, action.Message)

	case SetDraftTicketFields:
		if action.Title != nil {
			state.Draft.Title = *action.Title
		}
		if action.Description != nil {
			state.Draft.Description = *action.Description
		}

	case AddPendingFile:
		state.PendingFiles = appended(state.PendingFiles, action.File)

	case RemovePendingFileByIndex:
		if action.Index < 0 || action.Index >= len(state.PendingFiles) {
			return state
		}
		state.PendingFiles = without(state.PendingFiles, action.Index)

	case SetDraftMessageText:
		state.DraftMessage = action.Text

	case SetDirectory:
		state.Admins = clone(action.Admins)
		state.Users = clone(action.Users)
		state.Directory = directory.New(state.Admins, state.Users)

	case SetProfile:
		if action.Profile == nil {
			state.Profile = nil
			return state
		}
		profile := *action.Profile
		state.Profile = &profile

	case BeginTicketCreation:
		state.CreationsInFlight++

	case FinishTicketCreation:
		if state.CreationsInFlight > 0 {
			state.CreationsInFlight--
		}
		state.Draft = TicketDraft{}

	case CancelTicketCreation:
		if state.CreationsInFlight > 0 {
			state.CreationsInFlight--
		}

	case ClaimPendingFiles:
		state.PendingFiles = updatePending(state.PendingFiles,
			func(file PendingFile) bool { return file.State == PendingQueued && file.TicketID == 0 },
			func(file *PendingFile) { file.TicketID = action.TicketID })

	case MarkPendingFileUploading:
		state.PendingFiles = updatePending(state.PendingFiles, byID(action.ID),
			func(file *PendingFile) { file.State = PendingUploading; file.Err = "" })

	case MarkPendingFileUploaded:
		state.PendingFiles = updatePending(state.PendingFiles, byID(action.ID),
			func(file *PendingFile) { file.State = PendingUploaded; file.UploadUUID = action.UUID })

	case MarkPendingFileFailed:
		state.PendingFiles = updatePending(state.PendingFiles, byID(action.ID),
			func(file *PendingFile) { file.State = PendingFailed; file.Err = action.Err })

	case RemovePendingFileByUpload:
		for index, file := range state.PendingFiles {
			if action.UUID != "" && file.UploadUUID == action.UUID {
				state.PendingFiles = without(state.PendingFiles, index)
				break
			}
		}
	}
	return state
}

func ticketIndex(tickets []schema.Ticket, id int64) int {
	for index, ticket := range tickets {
		if ticket.ID == id {
			return index
		}
	}
	return -1
}

func byID(id string) func(PendingFile) bool {
	return func(file PendingFile) bool { return file.ID == id }
}

// updatePending returns a copy of files with change applied to every
// entry matching match. When nothing matches the input is returned.
func updatePending(files []PendingFile, match func(PendingFile) bool, change func(*PendingFile)) []PendingFile {
	var updated []PendingFile
	for index, file := range files {
		if !match(file) {
			continue
		}
		if updated == nil {
			updated = clone(files)
		}
		change(&updated[index])
	}
	if updated == nil {
		return files
	}
	return updated
}

func clone[T any](values []T) []T {
	if values == nil {
		return nil
	}
	return append(make([]T, 0, len(values)), values...)
}

// appended returns a new slice; appending in place could write into
// capacity shared with an earlier snapshot.
func appended[T any](values []T, value T) []T {
	result := make([]T, 0, len(values)+1)
	result = append(result, values...)
	return append(result, value)
}

func without[T any](values []T, index int) []T {
	result := make([]T, 0, len(values)-1)
	result = append(result, values[:index]...)
	return append(result, values[index+1:]...)
}
