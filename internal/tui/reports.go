package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ColeHockerApps/pulsetimer/internal/goal"
	"github.com/ColeHockerApps/pulsetimer/internal/pace"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

const reportWeeks = 8

type reportsModel struct {
	store  *store.Store
	units  pace.Unit
	width  int
	height int

	mode     reportMode
	days     []store.DailyDistance
	sessions int
	timerSec int64
	offset   int // 7-day blocks or 8-week blocks back from today (0 = current)

	chart barchart.Model
}

func newReportsModel(s *store.Store, units pace.Unit) reportsModel {
	return reportsModel{
		store: s,
		units: units,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	days     []store.DailyDistance
	sessions int
	timerSec int64
}

func (r reportsModel) refresh() tea.Cmd {
	s := r.store
	from, to := r.dateRange()
	return func() tea.Msg {
		days, _ := s.GetDailyDistance(from, to)
		n, secs, _ := s.GetSessionStats(from, to)
		return reportsDataMsg{days: days, sessions: n, timerSec: secs}
	}
}

func (r reportsModel) dateRange() (time.Time, time.Time) {
	today := goal.StartOfDay(time.Now())

	switch r.mode {
	case reportWeekly:
		weekday := today.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		end := today.AddDate(0, 0, 8-int(weekday)-7*reportWeeks*r.offset)
		return end.AddDate(0, 0, -7*reportWeeks), end
	default:
		end := today.AddDate(0, 0, 1-7*r.offset)
		return end.AddDate(0, 0, -7), end
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.days = msg.days
		r.sessions = msg.sessions
		r.timerSec = msg.timerSec
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Mode):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

// buckets groups the loaded days into chart bars: one per day, or one per
// Monday-based week in weekly mode.
func (r reportsModel) buckets() []store.DailyDistance {
	from, to := r.dateRange()
	step := 1
	if r.mode == reportWeekly {
		step = 7
	}

	var out []store.DailyDistance
	for d := from; d.Before(to); d = d.AddDate(0, 0, step) {
		b := store.DailyDistance{Day: d}
		end := d.AddDate(0, 0, step)
		for _, day := range r.days {
			if !day.Day.Before(d) && day.Day.Before(end) {
				b.DistanceKm += day.DistanceKm
				b.DurationSec += day.DurationSec
				b.Count += day.Count
			}
		}
		out = append(out, b)
	}
	return out
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	style := lipgloss.NewStyle().Foreground(colorSecondary)
	var bars []barchart.BarData
	for _, b := range r.buckets() {
		label := b.Day.Format("Mon 02")
		if r.mode == reportWeekly {
			label = b.Day.Format("Jan 02")
		}
		value := b.DistanceKm
		if r.units == pace.Miles {
			value = pace.KmToMiles(value)
		}
		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: string(r.units), Value: value, Style: style}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	unitLabel := mutedStyle.Render(fmt.Sprintf("  Distance per %s (%s)", map[reportMode]string{reportDaily: "day", reportWeekly: "week"}[r.mode], r.units))

	nav := mutedStyle.Render("  ←/→: navigate  m: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", unitLabel, r.chart.View(), "", r.renderTotals(), "", r.renderTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderTotals() string {
	var km, secs float64
	var count int
	for _, d := range r.days {
		km += d.DistanceKm
		secs += d.DurationSec
		count += d.Count
	}
	return fmt.Sprintf("  %s  %s  %s  %s",
		highlightStyle.Render(pace.FormatDistance(km, r.units)),
		mutedStyle.Render(fmt.Sprintf("%d logs, %s", count, formatSeconds(secs))),
		highlightStyle.Render("avg "+pace.FormatPaceUnit(pace.SecondsPerKm(km, secs), r.units)),
		mutedStyle.Render(fmt.Sprintf("%d timer sessions, %s", r.sessions, formatSeconds(float64(r.timerSec)))),
	)
}

func (r reportsModel) renderTable(w int) string {
	if len(r.days) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s %11s %6s", "Date", "Distance", "Time", "Pace", "Logs")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))
	for _, d := range r.days {
		rows = append(rows, fmt.Sprintf("  %-12s %10s %10s %11s %6d",
			d.Day.Format("2006-01-02"),
			pace.FormatDistance(d.DistanceKm, r.units),
			formatSeconds(d.DurationSec),
			pace.FormatPaceUnit(pace.SecondsPerKm(d.DistanceKm, d.DurationSec), r.units),
			d.Count,
		))
	}
	return strings.Join(rows, "\n")
}
