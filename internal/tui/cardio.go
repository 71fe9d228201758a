package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ColeHockerApps/pulsetimer/internal/pace"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
)

var cardioKinds = []string{"run", "walk", "ride", "row", "swim", "other"}

const cardioListLimit = 50

type cardioModel struct {
	store  *store.Store
	units  pace.Unit
	width  int
	height int

	logs   []store.CardioLog
	cursor int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formKind     *string
	formDistance *string
	formDuration *string
	formNotes    *string
}

func newCardioModel(s *store.Store, units pace.Unit) cardioModel {
	kind, dist, dur, notes := cardioKinds[0], "", "", ""
	return cardioModel{
		store:        s,
		units:        units,
		formKind:     &kind,
		formDistance: &dist,
		formDuration: &dur,
		formNotes:    &notes,
	}
}

func (c *cardioModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type cardioDataMsg struct {
	logs []store.CardioLog
}

func (c cardioModel) refresh() tea.Cmd {
	s := c.store
	return func() tea.Msg {
		logs, _ := s.ListCardioLogs(store.CardioFilter{Limit: cardioListLimit})
		return cardioDataMsg{logs: logs}
	}
}

func (c cardioModel) update(msg tea.Msg) (cardioModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case cardioDataMsg:
		c.logs = msg.logs
		if c.cursor >= len(c.logs) {
			c.cursor = max(0, len(c.logs)-1)
		}
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.logs)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.New):
			return c.showForm()
		case key.Matches(msg, keys.Delete):
			if len(c.logs) > 0 {
				id := c.logs[c.cursor].ID
				s := c.store
				return c, func() tea.Msg {
					if err := s.DeleteCardioLog(id); err != nil {
						return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
					}
					return cardioChangedMsg{}
				}
			}
		}
	}
	return c, nil
}

func (c cardioModel) showForm() (cardioModel, tea.Cmd) {
	*c.formKind = cardioKinds[0]
	*c.formDistance = ""
	*c.formDuration = ""
	*c.formNotes = ""

	kindOptions := make([]huh.Option[string], len(cardioKinds))
	for i, k := range cardioKinds {
		kindOptions[i] = huh.NewOption(k, k)
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Activity").Options(kindOptions...).Value(c.formKind),
			huh.NewInput().Title(fmt.Sprintf("Distance (%s)", c.units)).Value(c.formDistance).Validate(nonNegativeNumber),
			huh.NewInput().Title("Duration (MM:SS, H:MM:SS or 25m)").Value(c.formDuration).Validate(validClock),
			huh.NewInput().Title("Notes").Value(c.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c cardioModel) updateForm(msg tea.Msg) (cardioModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		return c, c.saveLog()
	}
	return c, cmd
}

func (c cardioModel) saveLog() tea.Cmd {
	l, err := c.formLog()
	s := c.store
	return func() tea.Msg {
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		if _, err := s.AddCardioLog(l); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return cardioChangedMsg{}
	}
}

// formLog converts the form fields into a log, distance in km.
func (c cardioModel) formLog() (store.CardioLog, error) {
	dist := 0.0
	if s := strings.TrimSpace(*c.formDistance); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return store.CardioLog{}, fmt.Errorf("invalid distance %q", s)
		}
		dist = v
	}
	if c.units == pace.Miles {
		dist = pace.MilesToKm(dist)
	}

	var dur time.Duration
	if s := strings.TrimSpace(*c.formDuration); s != "" {
		d, err := parseClock(s)
		if err != nil {
			return store.CardioLog{}, err
		}
		dur = d
	}
	if dist == 0 && dur == 0 {
		return store.CardioLog{}, fmt.Errorf("enter a distance or a duration")
	}

	return store.CardioLog{
		Kind:        *c.formKind,
		StartedAt:   time.Now().Add(-dur),
		DistanceKm:  dist,
		DurationSec: dur.Seconds(),
		Notes:       strings.TrimSpace(*c.formNotes),
	}, nil
}

func nonNegativeNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a number")
	}
	return nil
}

func validClock(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := parseClock(s)
	return err
}

func (c cardioModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Cardio Log")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View()),
		)
	}

	title := titleStyle.Render("Cardio")
	hint := mutedStyle.Render("  n: new log  d: delete  ↑/↓: select")

	if len(c.logs) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("  No cardio logs yet. Press n to add one."), "", hint,
		))
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-16s %-6s %10s %9s %11s %10s", "Date", "Kind", "Distance", "Time", "Pace", "Speed")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 68))))

	visible := c.height - 10
	if visible < 3 {
		visible = 3
	}
	start := 0
	if c.cursor >= visible {
		start = c.cursor - visible + 1
	}

	for i := start; i < len(c.logs) && i < start+visible; i++ {
		l := c.logs[i]
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := fmt.Sprintf("%-16s %-6s %10s %9s %11s %10s",
			l.StartedAt.Local().Format("2006-01-02 15:04"),
			l.Kind,
			pace.FormatDistance(l.DistanceKm, c.units),
			formatSeconds(l.DurationSec),
			pace.FormatPaceUnit(pace.SecondsPerKm(l.DistanceKm, l.DurationSec), c.units),
			pace.FormatSpeedUnit(pace.KmPerHour(l.DistanceKm, l.DurationSec), c.units),
		)
		rows = append(rows, cursor+style.Render(row))
	}

	if sel := c.logs[c.cursor]; sel.Notes != "" {
		rows = append(rows, "", mutedStyle.Render("  "+sel.Notes))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, append(rows, "", hint)...)...,
	))
}
