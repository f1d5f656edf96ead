// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package messengerui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/scire-project/scire/lib/format"
	"github.com/scire-project/scire/lib/schema"
)

func (model Model) updateList(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.state.Tickets)-1 {
			model.cursor++
		}
	case key.Matches(message, model.keys.Refresh):
		return model, model.run("load tickets", func() (string, error) {
			return "", model.session.LoadTickets(model.ctx)
		})
	case key.Matches(message, model.keys.New):
		model.view = viewCreate
		model.syncDraftInputs()
		command := model.focusField(fieldTitle)
		return model, command
	case key.Matches(message, model.keys.Open):
		if len(model.state.Tickets) == 0 {
			return model, nil
		}
		ticketID := model.state.Tickets[model.cursor].ID
		model.enterChat(ticketID)
		return model, model.run("open ticket", func() (string, error) {
			return "", model.session.OpenTicket(model.ctx, ticketID)
		})
	}
	return model, nil
}

func (model *Model) clampCursor() {
	if model.cursor >= len(model.state.Tickets) {
		model.cursor = len(model.state.Tickets) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

// listRows is how many ticket rows fit between the title and status
// bars.
func (model Model) listRows() int {
	return max(1, model.height-2)
}

func (model Model) viewList() string {
	rows := model.listRows()
	if len(model.state.Tickets) == 0 {
		empty := lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("No tickets yet. Press n to create one.")
		return lipgloss.NewStyle().Height(rows).Render(empty)
	}

	start := 0
	if model.cursor >= rows {
		start = model.cursor - rows + 1
	}
	end := min(len(model.state.Tickets), start+rows)

	lines := make([]string, 0, rows)
	for index := start; index < end; index++ {
		lines = append(lines, model.renderTicketRow(model.state.Tickets[index], index == model.cursor))
	}
	return lipgloss.NewStyle().Height(rows).Render(strings.Join(lines, "\n"))
}

// renderTicketRow lays out "#id status title ... assignee date".
func (model Model) renderTicketRow(ticket schema.Ticket, selected bool) string {
	id := fmt.Sprintf("#%-5d", ticket.ID)
	status := lipgloss.NewStyle().Foreground(model.theme.StatusColor(ticket.Status)).
		Render(fmt.Sprintf("%-11s", ticket.Status.Label()))
	trailer := format.Assignee(ticket)
	if created := format.Time(ticket.CreatedAt.Time, model.zone); created != "" {
		trailer += "  " + created
	}

	available := model.width - lipgloss.Width(id) - lipgloss.Width(status) - lipgloss.Width(trailer) - 4
	title := ansi.Truncate(ticket.Title, max(0, available), "…")
	gap := max(1, available-lipgloss.Width(title)+1)

	row := id + " " + status + " " + title + strings.Repeat(" ", gap) +
		lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(trailer)

	style := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	if selected {
		style = style.Background(model.theme.SelectedBackground).Foreground(model.theme.SelectedForeground)
	}
	return style.Width(model.width).Render(ansi.Truncate(row, model.width, ""))
}
