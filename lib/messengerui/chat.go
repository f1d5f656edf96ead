// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package messengerui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scire-project/scire/lib/format"
	"github.com/scire-project/scire/lib/schema"
)

// enterChat switches to the conversation for ticketID. The ticket
// itself arrives through the store once the open completes.
func (model *Model) enterChat(ticketID int64) {
	model.view = viewChat
	model.openingID = ticketID
	model.fileCursor = 0
	model.messageCount = -1
	model.title.Blur()
	model.description.Blur()
	model.attach.Blur()
	model.input.Focus()
	model.input.SetValue(model.state.DraftMessage)
	model.layout()
	model.refreshChat()
}

func (model Model) updateChat(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Back):
		model.session.LeaveTicket()
		model.view = viewList
		model.openingID = 0
		model.input.Blur()
		model.input.SetValue("")
		return model, nil
	case key.Matches(message, model.keys.Send):
		return model, model.run("send", func() (string, error) {
			return "", model.session.SendMessage()
		})
	case key.Matches(message, model.keys.CloseTicket):
		return model, model.run("close ticket", func() (string, error) {
			return "", model.session.CloseTicket()
		})
	case key.Matches(message, model.keys.ReopenTicket):
		return model, model.run("reopen ticket", func() (string, error) {
			return "", model.session.ReopenTicket()
		})
	case key.Matches(message, model.keys.NextFile):
		if count := len(model.state.ActiveFiles); count > 0 {
			model.fileCursor = (model.fileCursor + 1) % count
		}
		return model, nil
	case key.Matches(message, model.keys.Download):
		return model, model.download()
	case key.Matches(message, model.keys.ScrollUp):
		model.chat.HalfViewUp()
		return model, nil
	case key.Matches(message, model.keys.ScrollDown):
		model.chat.HalfViewDown()
		return model, nil
	}

	var command tea.Cmd
	model.input, command = model.input.Update(message)
	model.session.SetDraftMessage(model.input.Value())
	return model, command
}

// download saves the selected ticket file into the download directory.
func (model Model) download() tea.Cmd {
	files := model.state.ActiveFiles
	if len(files) == 0 || model.fileCursor >= len(files) {
		return nil
	}
	file := files[model.fileCursor]
	path := filepath.Join(model.downloadDir, filepath.Base(file.Name))
	return model.run("download", func() (string, error) {
		saved, err := model.session.SaveFile(model.ctx, file, path)
		if err != nil {
			return "", err
		}
		return "saved " + saved, nil
	})
}

// refreshChat re-renders the conversation and follows the newest
// message when one arrives.
func (model *Model) refreshChat() {
	width := max(1, model.chat.Width)
	blocks := make([]string, 0, len(model.state.Messages))
	for _, message := range model.state.Messages {
		blocks = append(blocks, model.messageStyle(message).Width(width).Render(format.MessageBlock(message)))
	}
	model.chat.SetContent(strings.Join(blocks, "\n"))
	if len(model.state.Messages) != model.messageCount {
		model.messageCount = len(model.state.Messages)
		model.chat.GotoBottom()
	}
}

func (model Model) messageStyle(message schema.Message) lipgloss.Style {
	switch {
	case message.Kind.IsNotice():
		return lipgloss.NewStyle().Foreground(model.theme.NoticeText).Italic(true)
	case message.ByAdmin():
		return lipgloss.NewStyle().Foreground(model.theme.AdminText)
	default:
		return lipgloss.NewStyle().Foreground(model.theme.NormalText)
	}
}

// activeTicket is the ticket the chat view shows, once it has loaded.
func (model Model) activeTicket() (schema.Ticket, bool) {
	active := model.state.ActiveTicket
	if active == nil || active.ID != model.openingID {
		return schema.Ticket{}, false
	}
	return *active, true
}

func (model Model) renderTicketHeader() string {
	ticket, ok := model.activeTicket()
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	if !ok {
		return faint.Render(fmt.Sprintf("Loading ticket #%d...", model.openingID))
	}

	heading := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground).
		Render(fmt.Sprintf("#%d %s", ticket.ID, ticket.Title))
	status := lipgloss.NewStyle().Foreground(model.theme.StatusColor(ticket.Status)).Render(ticket.Status.Label())
	details := faint.Render(fmt.Sprintf("From %s  Assigned %s  ", ticket.OwnerName, format.Assignee(ticket))) + status
	if created := format.Time(ticket.CreatedAt.Time, model.zone); created != "" {
		details += faint.Render("  " + created)
	}

	lines := []string{heading, details}
	if ticket.Description != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.NormalText).
			Width(max(1, model.width)).Render(ticket.Description))
	}
	for index, file := range model.state.ActiveFiles {
		marker := "  "
		style := faint
		if index == model.fileCursor {
			marker = "> "
			style = lipgloss.NewStyle().Foreground(model.theme.SelectedForeground)
		}
		lines = append(lines, style.Render(marker+format.File(file.Name, file.Size)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (model Model) viewChat() string {
	separator := lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(strings.Repeat("─", max(0, model.width)))
	return lipgloss.JoinVertical(lipgloss.Left,
		model.renderTicketHeader(),
		separator,
		lipgloss.NewStyle().Height(model.chat.Height).Render(model.chat.View()),
		model.input.View(),
	)
}
