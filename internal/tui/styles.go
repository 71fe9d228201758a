package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ColeHockerApps/pulsetimer/internal/phasetimer"
)

var (
	colorPrimary   = lipgloss.Color("#FF7A45") // ember
	colorSecondary = lipgloss.Color("#36CFC9") // breath teal
	colorAccent    = lipgloss.Color("#F5222D")
	colorMuted     = lipgloss.Color("#6B6F76")
	colorSuccess   = lipgloss.Color("#52C41A")
	colorWarning   = lipgloss.Color("#FAAD14")
	colorError     = lipgloss.Color("#FF4D4F")
	colorFg        = lipgloss.Color("#E6E6E6")
	colorSubtle    = lipgloss.Color("#3A3F4B")
	colorHighlight = lipgloss.Color("#69B1FF")
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = panelStyle.
				BorderForeground(colorPrimary)

	// Countdown clock
	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg).
			Align(lipgloss.Center)

	timerPausedStyle = timerStyle.
				Foreground(colorWarning)

	timerDoneStyle = timerStyle.
			Foreground(colorSuccess)

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	accentStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	successStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorFg)
)

// phaseColors tint the countdown and the phase progress bar.
var phaseColors = map[phasetimer.Phase]lipgloss.Color{
	phasetimer.PhaseWork:   colorAccent,
	phasetimer.PhaseRest:   colorSuccess,
	phasetimer.PhaseInhale: colorSecondary,
	phasetimer.PhaseHold1:  colorHighlight,
	phasetimer.PhaseExhale: colorPrimary,
	phasetimer.PhaseHold2:  colorHighlight,
}

func phaseColor(p phasetimer.Phase) lipgloss.Color {
	if c, ok := phaseColors[p]; ok {
		return c
	}
	return colorPrimary
}
