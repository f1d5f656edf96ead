// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package messengerui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scire-project/scire/lib/format"
	"github.com/scire-project/scire/lib/store"
)

// createField is the focused input of the new-ticket form.
type createField int

const (
	fieldTitle createField = iota
	fieldDescription
	fieldAttach
)

// syncDraftInputs copies the store's draft into the form inputs.
func (model *Model) syncDraftInputs() {
	model.title.SetValue(model.state.Draft.Title)
	model.description.SetValue(model.state.Draft.Description)
}

func (model *Model) focusField(field createField) tea.Cmd {
	model.field = field
	model.title.Blur()
	model.description.Blur()
	model.attach.Blur()
	switch field {
	case fieldDescription:
		return model.description.Focus()
	case fieldAttach:
		return model.attach.Focus()
	default:
		return model.title.Focus()
	}
}

func (model Model) updateCreate(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Back):
		model.view = viewList
		model.title.Blur()
		model.description.Blur()
		model.attach.Blur()
		return model, nil
	case key.Matches(message, model.keys.NextField):
		command := model.focusField((model.field + 1) % 3)
		return model, command
	case key.Matches(message, model.keys.Submit):
		return model, model.run("create ticket", func() (string, error) {
			return "", model.session.CreateTicket()
		})
	case key.Matches(message, model.keys.RemoveFile):
		if count := len(model.state.PendingFiles); count > 0 {
			model.session.RemovePendingFile(count - 1)
		}
		return model, nil
	}

	var command tea.Cmd
	switch model.field {
	case fieldTitle:
		if message.Type == tea.KeyEnter {
			command = model.focusField(fieldDescription)
			return model, command
		}
		model.title, command = model.title.Update(message)
		title := model.title.Value()
		model.session.SetDraft(&title, nil)
	case fieldDescription:
		model.description, command = model.description.Update(message)
		description := model.description.Value()
		model.session.SetDraft(nil, &description)
	case fieldAttach:
		if message.Type == tea.KeyEnter {
			path := strings.TrimSpace(model.attach.Value())
			if path == "" {
				return model, nil
			}
			return model, model.run("attach", func() (string, error) {
				file, err := model.session.AddPendingPath(path)
				if err != nil {
					return "", err
				}
				return "attached " + format.File(file.Name, file.Size), nil
			})
		}
		model.attach, command = model.attach.Update(message)
	}
	return model, command
}

func (model Model) viewCreate() string {
	label := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	heading := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)

	sections := []string{
		heading.Render("New ticket"),
		label.Render("Title"),
		model.title.View(),
		label.Render("Description"),
		model.description.View(),
		label.Render("Attach"),
		model.attach.View(),
	}
	for _, file := range model.state.PendingFiles {
		sections = append(sections, model.renderPendingFile(file))
	}
	if model.state.CreationsInFlight > 0 {
		sections = append(sections, label.Render("Creating..."))
	}
	return lipgloss.NewStyle().Height(max(1, model.height-2)).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (model Model) renderPendingFile(file store.PendingFile) string {
	line := "  " + format.File(file.Name, file.Size) + "  [" + file.State.String() + "]"
	color := model.theme.NormalText
	if file.State == store.PendingFailed {
		color = model.theme.ErrorText
		if file.Err != "" {
			line += " " + file.Err
		}
	}
	return lipgloss.NewStyle().Foreground(color).Render(line)
}
