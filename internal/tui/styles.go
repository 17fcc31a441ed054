package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorTeal      = lipgloss.Color("#2BB5A0")
	colorAmber     = lipgloss.Color("#E0A526")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Align(lipgloss.Center).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			Align(lipgloss.Center).
			MarginBottom(2)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	commandDescStyle = lipgloss.NewStyle().
				Foreground(colorGray).
				PaddingLeft(1)

	inputStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorLightGray)

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorGray).
			Padding(0)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	userStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(colorTeal).
			Bold(true)

	refusalStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)
)

const logo = `
   ██████╗ ███████╗███╗   ███╗██╗██╗    ██╗███████╗██╗     ██╗
  ██╔════╝ ██╔════╝████╗ ████║██║██║    ██║██╔════╝██║     ██║
  ██║  ███╗█████╗  ██╔████╔██║██║██║ █╗ ██║█████╗  ██║     ██║
  ██║   ██║██╔══╝  ██║╚██╔╝██║██║██║███╗██║██╔══╝  ██║     ██║
  ╚██████╔╝███████╗██║ ╚═╝ ██║██║╚███╔███╔╝███████╗███████╗███████╗
   ╚═════╝ ╚══════╝╚═╝     ╚═╝╚═╝ ╚══╝╚══╝ ╚══════╝╚══════╝╚══════╝
`
