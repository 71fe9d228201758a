package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ColeHockerApps/pulsetimer/internal/phasetimer"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
	"github.com/ColeHockerApps/pulsetimer/internal/tracker"
)

var phaseLabels = map[phasetimer.Phase]string{
	phasetimer.PhaseNone:   "READY",
	phasetimer.PhaseWork:   "WORK",
	phasetimer.PhaseRest:   "REST",
	phasetimer.PhaseInhale: "INHALE",
	phasetimer.PhaseHold1:  "HOLD",
	phasetimer.PhaseExhale: "EXHALE",
	phasetimer.PhaseHold2:  "HOLD",
}

// timerModel is the view shared by the interval and breathing timers. The
// phase timer's ticks come from the app's tickMsg through a ManualDriver.
type timerModel struct {
	tracker *tracker.Tracker
	kind    phasetimer.Kind
	timer   *phasetimer.Timer
	driver  *phasetimer.ManualDriver
	width   int
	height  int

	cfg     phasetimer.Config
	presets []store.Preset
	preset  int // index into presets, -1 for the saved defaults

	sessionID int64
	state     phasetimer.State
	bell      bool

	phaseBar progress.Model
	totalBar progress.Model
}

func newTimerModel(tr *tracker.Tracker, kind phasetimer.Kind, opts ...phasetimer.Option) timerModel {
	d := phasetimer.NewManualDriver()
	opts = append([]phasetimer.Option{phasetimer.WithDriver(d)}, opts...)

	m := timerModel{
		tracker:  tr,
		kind:     kind,
		timer:    phasetimer.New(opts...),
		driver:   d,
		preset:   -1,
		bell:     true,
		phaseBar: progress.New(progress.WithSolidFill(string(colorPrimary)), progress.WithoutPercentage()),
		totalBar: progress.New(progress.WithDefaultGradient()),
	}
	m.state = m.timer.Snapshot()
	m.loadConfig()
	return m
}

// loadConfig reloads presets and the selected config. The running timer
// keeps its own copy of the config it was started with.
func (m *timerModel) loadConfig() {
	m.presets, _ = m.tracker.Store().ListPresets(string(m.kind))
	if m.preset >= len(m.presets) {
		m.preset = -1
	}
	switch {
	case m.preset >= 0:
		m.cfg = tracker.PresetConfig(m.presets[m.preset])
	case m.kind == phasetimer.KindBreath:
		m.cfg = m.tracker.BreathConfig()
	default:
		m.cfg = m.tracker.IntervalConfig()
	}
}

func (m *timerModel) setSize(w, h int) {
	m.width = w
	m.height = h
	barWidth := w - 12
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}
	m.phaseBar.Width = barWidth
	m.totalBar.Width = barWidth
}

func (m timerModel) running() bool {
	return m.state.Status == phasetimer.StatusRunning || m.state.Status == phasetimer.StatusPaused
}

func (m timerModel) paused() bool { return m.state.Status == phasetimer.StatusPaused }

func (m timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.driver.Armed() {
			m.driver.Fire()
		}
		return m.observe()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			return m.start()
		case key.Matches(msg, keys.Stop):
			return m.stop()
		case key.Matches(msg, keys.Pause):
			m.timer.Toggle()
			return m.observe()
		case key.Matches(msg, keys.Preset):
			if m.running() {
				return m, nil
			}
			m.preset++
			if m.preset >= len(m.presets) {
				m.preset = -1
			}
			m.loadConfig()
			return m, nil
		}
	}
	return m, nil
}

func (m timerModel) start() (timerModel, tea.Cmd) {
	var cmds []tea.Cmd
	if m.running() {
		var cmd tea.Cmd
		m, cmd = m.stop()
		cmds = append(cmds, cmd)
	}

	m.loadConfig()
	id, err := m.tracker.BeginSession(m.cfg)
	if err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	m.sessionID = id
	m.timer.Start(m.cfg)

	var cmd tea.Cmd
	m, cmd = m.observe()
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m timerModel) stop() (timerModel, tea.Cmd) {
	if !m.running() {
		return m, nil
	}
	st := m.timer.Snapshot()
	m.timer.Reset()
	m.state = m.timer.Snapshot()
	cmd := m.record(st)
	return m, tea.Batch(cmd, func() tea.Msg { return statusMsg{text: "Timer stopped"} })
}

// observe takes a fresh snapshot and reports phase changes and completion.
func (m timerModel) observe() (timerModel, tea.Cmd) {
	prev := m.state
	m.state = m.timer.Snapshot()
	st := m.state
	if st.Seq == prev.Seq {
		return m, nil
	}

	switch {
	case st.Status == phasetimer.StatusFinished && prev.Status != phasetimer.StatusFinished:
		text := fmt.Sprintf("%s complete: %d cycles", m.title(), st.Cycles)
		cmd := tea.Batch(m.record(st), m.announce(text))
		return m, cmd
	case st.Status == phasetimer.StatusRunning && (st.Phase != prev.Phase || st.Cycle != prev.Cycle):
		return m, m.announce(fmt.Sprintf("%s  %d/%d", phaseLabels[st.Phase], st.Cycle, st.Cycles))
	}
	return m, nil
}

func (m timerModel) announce(text string) tea.Cmd {
	if m.bell {
		text += " \a"
	}
	return func() tea.Msg { return statusMsg{text: text} }
}

// record clears sessionID and returns a command that closes the session.
func (m *timerModel) record(st phasetimer.State) tea.Cmd {
	id := m.sessionID
	m.sessionID = 0
	if id == 0 {
		return nil
	}
	tr := m.tracker
	return func() tea.Msg {
		if err := tr.RecordSession(id, st); err != nil {
			return statusMsg{text: fmt.Sprintf("Error saving session: %v", err), isError: true}
		}
		return sessionRecordedMsg{kind: string(st.Kind), cycles: tracker.CompletedCycles(st)}
	}
}

func (m timerModel) title() string {
	if m.kind == phasetimer.KindBreath {
		return "Breathing"
	}
	return "Interval"
}

func (m timerModel) view() string {
	w := m.width - 4
	st := m.state

	title := titleStyle.Render(m.title() + " Timer")
	subtitle := mutedStyle.Render(m.describe())

	var clock, label, indicator string
	switch st.Status {
	case phasetimer.StatusIdle:
		clock = timerStyle.Width(w - 6).Render(formatClock(m.cfg.TotalPlanned()))
		label = mutedStyle.Render("Ready to start")
		indicator = mutedStyle.Render("Press s to begin")
	case phasetimer.StatusFinished:
		clock = timerDoneStyle.Width(w - 6).Render("Done!")
		label = successStyle.Bold(true).Render("SESSION COMPLETE")
		indicator = m.renderCycles()
	default:
		color := phaseColor(st.Phase)
		style := lipgloss.NewStyle().Bold(true).Foreground(color)
		if st.Status == phasetimer.StatusPaused {
			style = timerPausedStyle
		}
		clock = style.Width(w - 6).Align(lipgloss.Center).Render(formatClock(st.Remaining))
		label = style.Render(phaseLabels[st.Phase])
		if st.Status == phasetimer.StatusPaused {
			label = timerPausedStyle.Render(phaseLabels[st.Phase] + " (paused)")
		}
		bar := m.phaseBar
		bar.FullColor = string(color)
		indicator = lipgloss.JoinVertical(lipgloss.Center,
			bar.ViewAs(st.PhaseProgress),
			"",
			m.totalBar.ViewAs(st.TotalProgress),
			mutedStyle.Render(fmt.Sprintf("%s / %s", formatDuration(st.Elapsed), formatDuration(st.TotalPlanned))),
			"",
			m.renderCycles(),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		subtitle,
		"",
		clock,
		label,
		"",
		indicator,
	)

	var controls string
	switch st.Status {
	case phasetimer.StatusIdle, phasetimer.StatusFinished:
		controls = mutedStyle.Render("s: start  p: next preset")
	default:
		controls = mutedStyle.Render("space: pause/resume  s: restart  x: stop")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

// describe summarises the selected config, e.g. "Defaults: work 30s, rest 15s x8 (5m45s)".
func (m timerModel) describe() string {
	name := "Defaults"
	if m.preset >= 0 && m.preset < len(m.presets) {
		name = m.presets[m.preset].Name
	}
	var parts []string
	for _, p := range m.cfg.Phases {
		if p.Optional && p.Duration == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", strings.ToLower(phaseLabels[p.Name]), p.Duration))
	}
	return fmt.Sprintf("%s: %s x%d (%s)", name, strings.Join(parts, ", "), m.cfg.Cycles, m.cfg.TotalPlanned())
}

func (m timerModel) renderCycles() string {
	st := m.state
	done := tracker.CompletedCycles(st)
	var parts []string
	for i := 0; i < st.Cycles; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && st.Status != phasetimer.StatusFinished:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", done, st.Cycles))
	if st.Cycles > 20 {
		return counter
	}
	return strings.Join(parts, " ") + counter
}

func (m timerModel) elapsed() time.Duration { return m.state.Elapsed }
