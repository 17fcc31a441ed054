package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func NewApp(mode string) *Model {
	api := NewAPIClient()

	return &Model{
		state:   StateWelcome,
		mode:    mode,
		welcome: NewWelcome(mode, api.token != ""),
		chat:    NewChat(api, NewFeedClient()),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() != "ctrl+c" {
			break
		}

		switch {
		case m.err != nil:
			m.err = nil
			return m, nil
		case m.state == StateChat:
			// in chat, ctrl+c goes back to welcome
			m.state = StateWelcome
			return m, nil
		default:
			m.chat.feed.Close()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// the chat view sizes itself even before it is shown
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case ErrorMsg:
		m.err = msg.err
		return m, nil

	case EnterChatMsg:
		m.state = StateChat
		return m, m.chat.Init()

	// async results keep flowing to the chat even from the welcome screen
	case ChatResponseMsg, ChatErrorMsg, HistoryMsg, FeedEventMsg, FeedClosedMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	switch m.state {
	case StateWelcome:
		return m.updateWelcome(msg)

	case StateChat:
		return m.updateChat(msg)

	default:
		return m, nil
	}
}

func (m *Model) View() string {
	if m.err != nil {
		return errorView(m.err)
	}

	switch m.state {
	case StateWelcome:
		return m.welcome.View()

	case StateChat:
		return m.chat.View()

	default:
		return "Unknown state"
	}
}

func (m *Model) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.welcome, cmd = m.welcome.Update(msg)

	return m, cmd
}

func (m *Model) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)

	return m, cmd
}

func errorView(err error) string {
	return fmt.Sprintf("\n  Error: %v\n\n  Press Ctrl+C to dismiss\n", err)
}
