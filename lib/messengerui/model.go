// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package messengerui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/scire-project/scire/lib/connection"
	"github.com/scire-project/scire/lib/format"
	"github.com/scire-project/scire/lib/schema"
	"github.com/scire-project/scire/lib/store"
)

// Session is the part of messenger.Client the views drive.
type Session interface {
	State() store.State
	Subscribe() <-chan store.Change
	ConnectionState() connection.State

	LoadProfile(ctx context.Context) (schema.Profile, error)
	LoadTickets(ctx context.Context) error
	OpenTicket(ctx context.Context, ticketID int64) error
	LeaveTicket()

	SetDraft(title, description *string)
	AddPendingPath(path string) (store.PendingFile, error)
	RemovePendingFile(index int)
	CreateTicket() error

	SetDraftMessage(text string)
	SendMessage() error
	CloseTicket() error
	ReopenTicket() error
	SaveFile(ctx context.Context, file schema.TicketFile, path string) (string, error)
}

// Options tune a Model. Zero values select the defaults.
type Options struct {
	Theme *Theme
	Keys  *KeyMap

	// Zone is where timestamps are displayed. Nil means UTC+4.
	Zone *time.Location

	// DownloadDir receives saved attachments. Empty means the working
	// directory.
	DownloadDir string
}

type view int

const (
	viewList view = iota
	viewCreate
	viewChat
)

type (
	// changeMsg reports that the store changed. The model reads the
	// latest snapshot from the session rather than the queued one.
	changeMsg struct{}

	// changesClosedMsg reports that the session was torn down.
	changesClosedMsg struct{}

	connectionMsg struct {
		State connection.State
	}

	// navigateMsg reports that this session's own ticket was created.
	navigateMsg struct {
		TicketID int64
	}

	// resultMsg completes an operation run off the update loop.
	// Failures have already been reported through the session's
	// notifier, which reaches the status bar as a log record.
	resultMsg struct {
		Operation string
		Detail    string
		Err       error
	}
)

// Model is the terminal front end over one session.
type Model struct {
	ctx     context.Context
	session Session
	changes <-chan store.Change

	keys        KeyMap
	theme       Theme
	zone        *time.Location
	downloadDir string

	state      store.State
	connection connection.State

	view          view
	width, height int

	// List view.
	cursor int

	// Create view.
	field       createField
	title       textinput.Model
	description textarea.Model
	attach      textinput.Model

	// Chat view.
	openingID    int64
	chat         viewport.Model
	input        textinput.Model
	fileCursor   int
	messageCount int

	status         string
	statusLevel    slog.Level
	statusSequence int
}

// NewModel creates a model over session. The subscription is taken
// here so no change between construction and Init is missed.
func NewModel(ctx context.Context, session Session, options Options) Model {
	theme := DefaultTheme
	if options.Theme != nil {
		theme = *options.Theme
	}
	keys := DefaultKeyMap
	if options.Keys != nil {
		keys = *options.Keys
	}
	zone := options.Zone
	if zone == nil {
		zone = format.Zone(format.DefaultUTCOffset)
	}

	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = ""
	description := textarea.New()
	description.Placeholder = "Describe the problem"
	description.ShowLineNumbers = false
	attach := textinput.New()
	attach.Placeholder = "Path to a file, then enter"
	attach.Prompt = ""
	input := textinput.New()
	input.Placeholder = "Message"
	input.Prompt = "> "

	model := Model{
		ctx:         ctx,
		session:     session,
		changes:     session.Subscribe(),
		keys:        keys,
		theme:       theme,
		zone:        zone,
		downloadDir: options.DownloadDir,
		state:       session.State(),
		connection:  session.ConnectionState(),
		title:       title,
		description: description,
		attach:      attach,
		chat:        viewport.New(0, 0),
		input:       input,
	}
	model.syncDraftInputs()
	return model
}

func (model Model) Init() tea.Cmd {
	return tea.Batch(
		listen(model.changes),
		model.run("load profile", func() (string, error) {
			_, err := model.session.LoadProfile(model.ctx)
			return "", err
		}),
		model.run("load tickets", func() (string, error) {
			return "", model.session.LoadTickets(model.ctx)
		}),
	)
}

// listen waits for the next change and coalesces any already queued
// behind it.
func listen(changes <-chan store.Change) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return changesClosedMsg{}
		}
		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return changesClosedMsg{}
				}
			default:
				return changeMsg{}
			}
		}
	}
}

// run executes call off the update loop and reports its result.
func (model Model) run(operation string, call func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		detail, err := call()
		return resultMsg{Operation: operation, Detail: detail, Err: err}
	}
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.layout()
		return model, nil

	case changeMsg:
		model.state = model.session.State()
		model.clampCursor()
		if model.view == viewChat {
			model.layout()
			model.refreshChat()
		}
		return model, listen(model.changes)

	case changesClosedMsg:
		return model, tea.Quit

	case connectionMsg:
		model.connection = message.State
		return model, nil

	case navigateMsg:
		model.enterChat(message.TicketID)
		model.state = model.session.State()
		model.syncDraftInputs()
		return model, nil

	case resultMsg:
		return model.handleResult(message)

	case statusMsg:
		model.status = message.Text
		model.statusLevel = message.Level
		model.statusSequence++
		sequence := model.statusSequence
		return model, tea.Tick(statusFadeDelay, func(time.Time) tea.Msg {
			return statusFadeMsg{Sequence: sequence}
		})

	case statusFadeMsg:
		if message.Sequence == model.statusSequence {
			model.status = ""
		}
		return model, nil

	case tea.KeyMsg:
		if message.String() == "ctrl+c" {
			return model, tea.Quit
		}
		switch model.view {
		case viewCreate:
			return model.updateCreate(message)
		case viewChat:
			return model.updateChat(message)
		default:
			return model.updateList(message)
		}
	}
	return model, nil
}

func (model Model) handleResult(message resultMsg) (tea.Model, tea.Cmd) {
	if message.Err != nil {
		return model, nil
	}
	switch message.Operation {
	case "send":
		// The store cleared the draft; keep anything typed since.
		model.input.SetValue(model.session.State().DraftMessage)
	case "attach":
		model.attach.SetValue("")
	}
	if message.Detail != "" {
		return model, func() tea.Msg {
			return statusMsg{Text: message.Detail, Level: slog.LevelInfo}
		}
	}
	return model, nil
}

// layout sizes the inputs and the conversation viewport for the
// current window.
func (model *Model) layout() {
	if model.width <= 0 || model.height <= 0 {
		return
	}
	model.title.Width = model.width - 2
	model.attach.Width = model.width - 2
	model.input.Width = model.width - 4
	model.description.SetWidth(model.width)
	model.description.SetHeight(max(3, model.height-12))

	header := lipgloss.Height(model.renderTicketHeader())
	// Title bar, input line, status line, and the separator.
	model.chat.Width = model.width
	model.chat.Height = max(1, model.height-header-4)
}

func (model Model) View() string {
	if model.width == 0 {
		return "Loading..."
	}
	var body string
	switch model.view {
	case viewCreate:
		body = model.viewCreate()
	case viewChat:
		body = model.viewChat()
	default:
		body = model.viewList()
	}
	return lipgloss.JoinVertical(lipgloss.Left, model.renderTitleBar(), body, model.renderStatusBar())
}

// renderTitleBar shows the product name, the signed-in user, and the
// socket state.
func (model Model) renderTitleBar() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	left := titleStyle.Render("Scire")
	if model.state.Profile != nil {
		left += faint.Render("  " + model.state.Profile.DisplayName())
		if company := model.state.Profile.CompanyName(); company != "" {
			left += faint.Render(" / " + company)
		}
	}

	connectionColor := model.theme.DisconnectedText
	if model.connection == connection.StateOpen {
		connectionColor = model.theme.ConnectedText
	}
	right := lipgloss.NewStyle().Foreground(connectionColor).Render("● " + model.connection.String())

	gap := model.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left, model.width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderStatusBar shows the latest status message, or the key help for
// the current view once it fades.
func (model Model) renderStatusBar() string {
	if model.status != "" {
		color := model.theme.NormalText
		switch {
		case model.statusLevel >= slog.LevelError:
			color = model.theme.ErrorText
		case model.statusLevel >= slog.LevelWarn:
			color = model.theme.WarningText
		}
		return lipgloss.NewStyle().Foreground(color).Render(ansi.Truncate(model.status, model.width, "…"))
	}

	var bindings []key.Binding
	switch model.view {
	case viewCreate:
		bindings = []key.Binding{model.keys.NextField, model.keys.Submit, model.keys.RemoveFile, model.keys.Back}
	case viewChat:
		bindings = []key.Binding{model.keys.Send, model.keys.CloseTicket, model.keys.ReopenTicket,
			model.keys.NextFile, model.keys.Download, model.keys.Back}
	default:
		bindings = []key.Binding{model.keys.Up, model.keys.Down, model.keys.Open,
			model.keys.New, model.keys.Refresh, model.keys.Quit}
	}
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(ansi.Truncate(helpLine(bindings), model.width, "…"))
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}
