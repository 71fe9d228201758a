package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ColeHockerApps/pulsetimer/internal/goal"
	"github.com/ColeHockerApps/pulsetimer/internal/pace"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
	"github.com/ColeHockerApps/pulsetimer/internal/tracker"
)

// dashboardModel is the Today view: the day's goals and counters.
type dashboardModel struct {
	tracker *tracker.Tracker
	units   pace.Unit
	width   int
	height  int

	goals    []tracker.GoalProgress
	counters store.Counters
	today    store.DailyDistance
	cursor   int

	formActive bool
	form       *huh.Form
	formType   string // "goal", "calories"

	// Form field pointers (survive value copies)
	formGoalType *string
	formTarget   *string
	formCalories *string

	bar progress.Model
}

func newDashboardModel(tr *tracker.Tracker, units pace.Unit) dashboardModel {
	gt, target, kcal := string(goal.TypeDistance), "", ""
	return dashboardModel{
		tracker:      tr,
		units:        units,
		formGoalType: &gt,
		formTarget:   &target,
		formCalories: &kcal,
		bar:          progress.New(progress.WithDefaultGradient()),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.bar.Width = min(max(w-50, 10), 40)
}

type dashboardDataMsg struct {
	goals    []tracker.GoalProgress
	counters store.Counters
	today    store.DailyDistance
	err      error
}

func (d dashboardModel) loadData() tea.Cmd {
	tr := d.tracker
	return func() tea.Msg {
		now := time.Now()
		if err := tr.EnsureDailyGoals(now); err != nil {
			return dashboardDataMsg{err: err}
		}
		goals, err := tr.RefreshGoals(now)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		counters, _ := tr.Store().GetCounters(now)

		dayStart := goal.StartOfDay(now)
		msg := dashboardDataMsg{goals: goals, counters: counters, today: store.DailyDistance{Day: dayStart}}
		days, _ := tr.Store().GetDailyDistance(dayStart, dayStart.AddDate(0, 0, 1))
		if len(days) > 0 {
			msg.today = days[0]
		}
		return msg
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		if msg.err != nil {
			return d, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Error: %v", msg.err), isError: true}
			}
		}
		d.goals = msg.goals
		d.counters = msg.counters
		d.today = msg.today
		if d.cursor >= len(d.goals) {
			d.cursor = max(0, len(d.goals)-1)
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.goals)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.New):
			return d.showGoalForm()
		case key.Matches(msg, keys.Calories):
			return d.showCaloriesForm()
		case key.Matches(msg, keys.Exercise):
			tr := d.tracker
			return d, func() tea.Msg {
				if err := tr.CompleteExercise(time.Now()); err != nil {
					return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
				}
				return goalsChangedMsg{}
			}
		case key.Matches(msg, keys.Delete):
			if len(d.goals) > 0 {
				id := d.goals[d.cursor].Goal.ID
				tr := d.tracker
				return d, func() tea.Msg {
					if err := tr.Store().DeleteGoal(id); err != nil {
						return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
					}
					return goalsChangedMsg{}
				}
			}
		}
	}
	return d, nil
}

func (d dashboardModel) showGoalForm() (dashboardModel, tea.Cmd) {
	*d.formGoalType = string(goal.TypeDistance)
	*d.formTarget = ""
	d.formType = "goal"

	typeOptions := make([]huh.Option[string], len(goal.Types))
	for i, t := range goal.Types {
		label := string(t)
		u := t.Unit()
		if t == goal.TypeDistance {
			u = string(d.units)
		}
		if u != "" {
			label += " (" + u + ")"
		}
		typeOptions[i] = huh.NewOption(label, string(t))
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Goal type").Options(typeOptions...).Value(d.formGoalType),
			huh.NewInput().Title("Target").Value(d.formTarget).Validate(positiveNumber),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showCaloriesForm() (dashboardModel, tea.Cmd) {
	*d.formCalories = ""
	d.formType = "calories"

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Calories burned (kcal)").Value(d.formCalories).Validate(positiveNumber),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		return d, d.submitForm()
	}
	return d, cmd
}

func (d dashboardModel) submitForm() tea.Cmd {
	tr := d.tracker
	switch d.formType {
	case "goal":
		typ, err := goal.ParseType(*d.formGoalType)
		target, perr := strconv.ParseFloat(strings.TrimSpace(*d.formTarget), 64)
		if typ == goal.TypeDistance && d.units == pace.Miles {
			target = pace.MilesToKm(target)
		}
		return func() tea.Msg {
			if err != nil {
				return statusMsg{text: err.Error(), isError: true}
			}
			if perr != nil {
				return statusMsg{text: "Invalid target", isError: true}
			}
			if _, err := tr.SetGoal(typ, target, time.Now()); err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
			return goalsChangedMsg{}
		}
	case "calories":
		kcal, perr := strconv.ParseFloat(strings.TrimSpace(*d.formCalories), 64)
		return func() tea.Msg {
			if perr != nil {
				return statusMsg{text: "Invalid calories", isError: true}
			}
			if err := tr.AddCalories(time.Now(), kcal); err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
			return goalsChangedMsg{}
		}
	}
	return nil
}

func positiveNumber(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func (d dashboardModel) view() string {
	w := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Today")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
		)
	}

	title := titleStyle.Render("Today") + "  " + mutedStyle.Render(time.Now().Format("Monday, Jan 02"))

	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderStat("Distance", pace.FormatDistance(d.today.DistanceKm, d.units)),
		d.renderStat("Cardio time", formatSeconds(d.today.DurationSec)),
		d.renderStat("Intervals", strconv.Itoa(d.counters.Intervals)),
		d.renderStat("Exercises", strconv.Itoa(d.counters.Exercises)),
		d.renderStat("Calories", strconv.FormatFloat(d.counters.Calories, 'f', 0, 64)+" kcal"),
	)

	hint := mutedStyle.Render("  n: new goal  d: delete  c: add calories  +: exercise done")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "", summary, "", titleStyle.Render("Goals"), d.renderGoals(), "", hint,
		),
	)
}

func (d dashboardModel) renderStat(label, value string) string {
	return lipgloss.NewStyle().Width(16).Render(
		lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render(label), highlightStyle.Render(value)),
	)
}

func (d dashboardModel) renderGoals() string {
	if len(d.goals) == 0 {
		return mutedStyle.Render("  No goals for today. Press n to add one.")
	}

	var rows []string
	for i, g := range d.goals {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		typ := goal.Type(g.Goal.Type)
		label := style.Render(fmt.Sprintf("%-10s", typ))
		amount := fmt.Sprintf("%s / %s", d.formatAmount(typ, g.Goal.Progress), d.formatAmount(typ, g.Goal.Target))
		mark := ""
		if g.Met {
			mark = successStyle.Render(" ✓")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s  %s%s", cursor, label, d.bar.ViewAs(g.Percent), mutedStyle.Render(amount), mark))
	}
	return strings.Join(rows, "\n")
}

func (d dashboardModel) formatAmount(t goal.Type, v float64) string {
	switch t {
	case goal.TypeDistance:
		return pace.FormatDistance(v, d.units)
	case goal.TypeDuration:
		return formatSeconds(v)
	case goal.TypeCalories:
		return strconv.FormatFloat(v, 'f', 0, 64) + " kcal"
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}
