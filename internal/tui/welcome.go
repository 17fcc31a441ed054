package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// returns a new welcome screen
func NewWelcome(mode string, signedIn bool) *Welcome {
	commands := []Command{
		{Name: "chat", Description: "talk to the GemiCare health coach", Available: signedIn},
		{Name: "quit", Description: "exit gemiwell", Available: true},
	}

	return &Welcome{
		mode:     mode,
		commands: commands,
	}
}

func (m *Welcome) Update(msg tea.Msg) (*Welcome, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			cmd := m.executeCommand()
			m.input = ""
			return m, cmd
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		default:
			if len(msg.String()) == 1 {
				m.input += msg.String()
			}
		}
	}

	return m, nil
}

func (m *Welcome) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("your AI health companion"))
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("mode: %s", strings.ToUpper(m.mode))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render("commands:"))
	b.WriteString("\n\n")

	for _, cmd := range m.commands {
		if !cmd.Available {
			continue
		}
		line := fmt.Sprintf("  %s %s",
			commandStyle.Render(cmd.Name),
			commandDescStyle.Render("- "+cmd.Description),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	if !m.available("chat") {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  set GEMIWELL_TOKEN to a signed-in user's JWT (go run ./cmd/token <user-id>) to chat"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(promptStyle.Render("> ") + inputStyle.Render(m.input+"_"))
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("type a command and press enter. press ctrl+c to quit."))

	return b.String()
}

func (m *Welcome) available(name string) bool {
	for _, cmd := range m.commands {
		if cmd.Name == name {
			return cmd.Available
		}
	}
	return false
}

func (m *Welcome) executeCommand() tea.Cmd {
	cmd := strings.TrimSpace(m.input)

	switch {
	case cmd == "":
		return nil

	case cmd == "quit":
		return tea.Quit

	case cmd == "chat" && m.available("chat"):
		return func() tea.Msg {
			return EnterChatMsg{}
		}

	case cmd == "chat":
		return func() tea.Msg {
			return ErrorMsg{err: fmt.Errorf("chat needs GEMIWELL_TOKEN")}
		}

	default:
		return func() tea.Msg {
			return ErrorMsg{err: fmt.Errorf("unknown command: %s", cmd)}
		}
	}
}
