package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ColeHockerApps/pulsetimer/internal/config"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
)

// settingKeys are the stored settings the view shows and edits, in order.
var settingKeys = []string{
	"interval_work",
	"interval_rest",
	"interval_cycles",
	"breath_pattern",
	"daily_distance_goal",
	"daily_interval_goal",
}

type settingsModel struct {
	store  *store.Store
	cfg    config.Config
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	intervalWork   *string
	intervalRest   *string
	intervalCycles *string
	breathPattern  *string
	distanceGoal   *string
	intervalGoal   *string
}

func newSettingsModel(s *store.Store, cfg config.Config) settingsModel {
	iw, ir, ic, bp, dg, ig := "", "", "", "", "", ""
	return settingsModel{
		store:          s,
		cfg:            cfg,
		intervalWork:   &iw,
		intervalRest:   &ir,
		intervalCycles: &ic,
		breathPattern:  &bp,
		distanceGoal:   &dg,
		intervalGoal:   &ig,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	st := s.store
	return func() tea.Msg {
		settings, _ := st.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.intervalWork = s.getVal("interval_work", "30")
	*s.intervalRest = s.getVal("interval_rest", "15")
	*s.intervalCycles = s.getVal("interval_cycles", "8")
	*s.breathPattern = s.getVal("breath_pattern", "box")
	*s.distanceGoal = s.getVal("daily_distance_goal", "5")
	*s.intervalGoal = s.getVal("daily_interval_goal", "8")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work (sec)").Value(s.intervalWork).Validate(wholeNumber(1)),
			huh.NewInput().Title("Rest (sec, 0 for none)").Value(s.intervalRest).Validate(wholeNumber(0)),
			huh.NewInput().Title("Cycles").Value(s.intervalCycles).Validate(wholeNumber(1)),
		).Title("Interval"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Breathing pattern").
				Options(
					huh.NewOption("Box 4-4-4-4", "box"),
					huh.NewOption("Relax 4-7-8", "478"),
				).Value(s.breathPattern),
		).Title("Breath"),
		huh.NewGroup(
			huh.NewInput().Title("Daily distance goal (km, 0 for none)").Value(s.distanceGoal).Validate(nonNegativeNumber),
			huh.NewInput().Title("Daily interval goal (0 for none)").Value(s.intervalGoal).Validate(wholeNumber(0)),
		).Title("Goals"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
		}
		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return settingsChangedMsg{} },
			func() tea.Msg { return statusMsg{text: "Settings saved"} },
		)
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := []*string{s.intervalWork, s.intervalRest, s.intervalCycles, s.breathPattern, s.distanceGoal, s.intervalGoal}
	for i, k := range settingKeys {
		if err := s.store.SetSetting(k, strings.TrimSpace(*values[i])); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title, "")

	values := make(map[string]string, len(s.settings))
	for _, setting := range s.settings {
		values[setting.Key] = setting.Value
	}
	for _, k := range settingKeys {
		v, ok := values[k]
		if !ok {
			continue
		}
		label := lipgloss.NewStyle().Width(24).Render(k)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(formatSettingValue(k, v))))
	}

	rows = append(rows, "", titleStyle.Render("Config file"), "")
	for _, kv := range [][2]string{
		{"units", string(s.cfg.Units)},
		{"tick_interval", s.cfg.TickInterval.String()},
		{"bell", strconv.FormatBool(s.cfg.Bell)},
		{"log_level", s.cfg.LogLevel},
		{"db_path", s.cfg.DBPath},
	} {
		label := lipgloss.NewStyle().Width(24).Render(kv[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, mutedStyle.Render(kv[1])))
	}

	rows = append(rows, "", hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "interval_work", "interval_rest":
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d sec", secs)
		}
	case "daily_distance_goal":
		return v + " km"
	case "breath_pattern":
		switch v {
		case "box":
			return "box (4-4-4-4)"
		case "478", "4-7-8":
			return "4-7-8"
		}
	}
	return v
}

func wholeNumber(minimum int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < minimum {
			return fmt.Errorf("enter a whole number of at least %d", minimum)
		}
		return nil
	}
}
