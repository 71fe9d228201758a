package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ColeHockerApps/pulsetimer/internal/config"
	"github.com/ColeHockerApps/pulsetimer/internal/export"
	"github.com/ColeHockerApps/pulsetimer/internal/phasetimer"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
	"github.com/ColeHockerApps/pulsetimer/internal/tracker"
)

// App is the root Bubble Tea model.
type App struct {
	tracker *tracker.Tracker
	cfg     config.Config
	cfgPath string
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	interval  timerModel
	breath    timerModel
	cardio    cardioModel
	reports   reportsModel
	settings  settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(tr *tracker.Tracker, cfg config.Config, cfgPath string) App {
	h := help.New()
	h.ShowAll = false

	s := tr.Store()
	a := App{
		tracker:    tr,
		cfg:        cfg,
		cfgPath:    cfgPath,
		activeView: viewGoals,
		dashboard:  newDashboardModel(tr, cfg.Units),
		interval:   newTimerModel(tr, phasetimer.KindWorkRest),
		breath:     newTimerModel(tr, phasetimer.KindBreath),
		cardio:     newCardioModel(s, cfg.Units),
		reports:    newReportsModel(s, cfg.Units),
		settings:   newSettingsModel(s, cfg),
		help:       h,
	}
	a.interval.bell = cfg.Bell
	a.breath.bell = cfg.Bell
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		a.tickCmd(),
	)
}

func (a App) tickCmd() tea.Cmd {
	return tea.Tick(a.cfg.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.interval.setSize(a.width, contentHeight)
		a.breath.setSize(a.width, contentHeight)
		a.cardio.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, a.quit()
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewGoals)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewInterval)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewBreath)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewCardio)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewReports)
		case key.Matches(msg, keys.Tab6):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewCount)
		}

	case tickMsg:
		cmds = append(cmds, a.tickCmd())
		// Both timers keep running whichever view is shown
		var cmd tea.Cmd
		a.interval, cmd = a.interval.update(msg)
		cmds = append(cmds, cmd)
		a.breath, cmd = a.breath.update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case sessionRecordedMsg:
		return a, tea.Batch(a.dashboard.loadData(), a.reports.refresh())

	case cardioChangedMsg:
		return a, tea.Batch(a.cardio.refresh(), a.dashboard.loadData(), a.reports.refresh())

	case goalsChangedMsg:
		return a, a.dashboard.loadData()

	case settingsChangedMsg:
		a.interval.loadConfig()
		a.breath.loadConfig()
		return a, nil

	case configChangedMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("Config error: %v", msg.err)
			a.statusError = true
			return a, nil
		}
		a.applyConfig(msg.cfg)
		a.status = "Config reloaded"
		a.statusError = false
		return a, a.refreshCurrentView()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

// quit closes any running timer session as cancelled before exiting.
func (a App) quit() tea.Cmd {
	var cmds []tea.Cmd
	for _, t := range []*timerModel{&a.interval, &a.breath} {
		if !t.running() {
			continue
		}
		st := t.timer.Snapshot()
		t.timer.Reset()
		if id := t.sessionID; id != 0 {
			tr := t.tracker
			cmds = append(cmds, func() tea.Msg {
				_ = tr.RecordSession(id, st)
				return nil
			})
		}
	}
	return tea.Sequence(tea.Batch(cmds...), tea.Quit)
}

func (a *App) applyConfig(cfg config.Config) {
	a.cfg = cfg
	a.dashboard.units = cfg.Units
	a.cardio.units = cfg.Units
	a.reports.units = cfg.Units
	a.reports.buildChart()
	a.settings.cfg = cfg
	a.interval.bell = cfg.Bell
	a.breath.bell = cfg.Bell
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewGoals:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewInterval:
		a.interval, cmd = a.interval.update(msg)
	case viewBreath:
		a.breath, cmd = a.breath.update(msg)
	case viewCardio:
		a.cardio, cmd = a.cardio.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewGoals:
		return a.dashboard.formActive
	case viewCardio:
		return a.cardio.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewGoals:
		return a.dashboard.loadData()
	case viewCardio:
		return a.cardio.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewGoals:
		content = a.dashboard.view()
	case viewInterval:
		content = a.interval.view()
	case viewBreath:
		content = a.breath.view()
	case viewCardio:
		content = a.cardio.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("pulsetimer")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	right := a.timerIndicator() + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

// timerIndicator shows the phase and countdown of whichever timer is
// running, so it stays visible from the other views.
func (a App) timerIndicator() string {
	for _, t := range []timerModel{a.interval, a.breath} {
		if !t.running() {
			continue
		}
		text := phaseLabels[t.state.Phase] + " " + formatClock(t.state.Remaining)
		if t.paused() {
			return warningStyle.Render(" ⏸ " + text)
		}
		return successStyle.Render(" ● " + text)
	}
	return ""
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Cardio Logs")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	s := a.tracker.Store()
	units := a.cfg.Units
	return func() tea.Msg {
		logs, err := s.ListCardioLogs(store.CardioFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("pulsetimer-export-%s.csv", dateStr))
			if err := export.ToCSV(logs, units, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("pulsetimer-export-%s.json", dateStr))
			if err := export.ToJSON(logs, units, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
