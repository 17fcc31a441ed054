package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"codeberg.org/gemiwell/server/internal/feed"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"
	roleRefusal   = "refusal"
)

// returns a new chat view
func NewChat(api *APIClient, feedClient *FeedClient) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "ask about your health, diet or your latest report..."
	ti.Focus()
	ti.CharLimit = 4000
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = infoStyle

	return &ChatModel{
		input:   ti,
		spinner: sp,
		api:     api,
		feed:    feedClient,
	}
}

// loads history and opens the feed the first time the view is shown
func (m *ChatModel) Init() tea.Cmd {
	if m.started {
		return textinput.Blink
	}

	m.started = true
	return tea.Batch(textinput.Blink, m.api.HistoryCmd(), m.feed.ConnectCmd())
}

func (m *ChatModel) Update(msg tea.Msg) (*ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			query := strings.TrimSpace(m.input.Value())
			if query == "" || m.isFetching {
				return m, nil
			}

			m.isFetching = true
			m.notice = ""
			m.input.SetValue("")
			m.history = append(m.history, ChatMessage{Role: roleUser, Content: query})
			m.refresh()

			return m, tea.Batch(m.api.AskCmd(query), m.spinner.Tick)

		case "ctrl+l":
			m.history = nil
			m.notice = ""
			m.refresh()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case ChatResponseMsg:
		m.isFetching = false

		role := roleAssistant
		if msg.refused {
			role = roleRefusal
		}

		m.history = append(m.history, ChatMessage{Role: role, Content: msg.answer})
		m.refresh()
		return m, nil

	case ChatErrorMsg:
		m.isFetching = false
		m.notice = fmt.Sprintf("error: %v", msg.err)
		return m, nil

	case HistoryMsg:
		// keep anything typed while history was loading
		m.history = append(msg.messages, m.history...)
		m.refresh()
		return m, nil

	case FeedEventMsg:
		m.applyEvent(msg.event)
		return m, m.feed.ListenCmd()

	case FeedClosedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("live updates unavailable: %v", msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.isFetching {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// merges a pushed message into history; our own exchange arrives here too
func (m *ChatModel) applyEvent(ev feed.Event) {
	if ev.Type != feed.TypeMessageCreated {
		if notice := describeEvent(ev.Type); notice != "" {
			m.notice = notice
		}
		return
	}

	var msg ChatMessage
	if err := json.Unmarshal(ev.Data, &msg); err != nil {
		return
	}

	for i := range m.history {
		h := &m.history[i]

		if h.ID == msg.ID {
			return
		}

		if h.ID == "" && h.Role == msg.Role && h.Content == msg.Content {
			h.ID = msg.ID
			return
		}
	}

	m.history = append(m.history, msg)
	m.refresh()
}

func (m *ChatModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 10

	// header, input box and status line
	vpHeight := max(height-8, 3)

	if !m.ready {
		m.viewport = viewport.New(width-4, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width - 4
		m.viewport.Height = vpHeight
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-8, 20)),
	)
	if err == nil {
		m.glamourRenderer = renderer
	}

	m.refresh()
}

// re-renders the conversation and keeps the viewport pinned to the bottom
func (m *ChatModel) refresh() {
	if !m.ready {
		return
	}

	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

func (m *ChatModel) renderConversation() string {
	if len(m.history) == 0 {
		return infoStyle.Render("ready! ask GemiCare anything about your health.")
	}

	var b strings.Builder

	for _, msg := range m.history {
		switch msg.Role {
		case roleUser:
			b.WriteString(userStyle.Render("you"))
			b.WriteString("\n")
			b.WriteString(msg.Content)
			b.WriteString("\n\n")

		case roleRefusal:
			b.WriteString(refusalStyle.Render("⚠ " + msg.Content))
			b.WriteString("\n\n")

		default:
			b.WriteString(assistantStyle.Render("gemicare"))
			b.WriteString("\n")
			b.WriteString(m.markdown(msg.Content))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m *ChatModel) markdown(content string) string {
	if m.glamourRenderer == nil {
		return content + "\n"
	}

	rendered, err := m.glamourRenderer.Render(content)
	if err != nil {
		return content + "\n"
	}

	return rendered
}

func (m *ChatModel) View() string {
	if !m.ready {
		return "\n  loading..."
	}

	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render("GEMICARE CHAT")
	help := helpStyle.UnsetMarginTop().Render("[Enter: Send] [Ctrl+L: Clear] [Ctrl+C: Back]")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(0, m.width-lipgloss.Width(header)-lipgloss.Width(help)-2)),
		help,
	))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	b.WriteString(borderStyle.Width(m.width - 4).Padding(0, 1).Render(m.input.View()))
	b.WriteString("\n")

	switch {
	case m.isFetching:
		b.WriteString(infoStyle.Render(m.spinner.View() + " thinking..."))
	case m.notice != "":
		b.WriteString(infoStyle.Render(m.notice))
	}

	return b.String()
}
