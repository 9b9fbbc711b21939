package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/locktime/internal/cli"
	"github.com/xolan/locktime/internal/service"
	"github.com/xolan/locktime/internal/timeutil"
	"github.com/xolan/locktime/internal/tui/ui"
)

// maxReasons caps the unlock reason list.
const maxReasons = 8

// StatsModel is the model for the stats view
type StatsModel struct {
	env    Env
	styles ui.Styles
	keys   ui.KeyMap

	width    int
	height   int
	lastDays int // 0 covers everything
	result   *service.StatsResult
	err      error
}

// NewStatsModel creates a new stats view model
func NewStatsModel(env Env, styles ui.Styles, keys ui.KeyMap) StatsModel {
	return StatsModel{
		env:      env,
		styles:   styles,
		keys:     keys,
		lastDays: 7,
	}
}

type statsLoadedMsg struct {
	result *service.StatsResult
	err    error
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return m.loadStats()
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (StatsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.LastWeek):
			m.lastDays = 7
			return m, m.loadStats()
		case key.Matches(msg, m.keys.Month):
			m.lastDays = 30
			return m, m.loadStats()
		case key.Matches(msg, m.keys.All):
			m.lastDays = 0
			return m, m.loadStats()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadStats()
		}

	case statsLoadedMsg:
		m.err = msg.err
		m.result = msg.result

	case ui.StateChangedMsg:
		return m, m.loadStats()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	return m, nil
}

// View implements tea.Model
func (m StatsModel) View() string {
	var b strings.Builder

	title := "All sessions"
	if m.lastDays > 0 {
		title = fmt.Sprintf("Last %d days", m.lastDays)
	}
	b.WriteString(m.styles.ViewTitle.Render("Statistics · " + title))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		return b.String()
	}
	if m.result == nil {
		b.WriteString("Loading...")
		return b.String()
	}

	st := m.result.Statistics
	if st.Sessions == 0 {
		b.WriteString(m.styles.StatLabel.Render("No events found"))
		return b.String()
	}

	b.WriteString(renderLine(m.styles, "Sessions", fmt.Sprint(st.Sessions)))
	b.WriteString(renderLine(m.styles, "Total locked", cli.FormatDuration(st.TotalMinutes)))
	b.WriteString(renderLine(m.styles, "Longest", cli.FormatDuration(st.LongestMinutes)))
	b.WriteString(renderLine(m.styles, "Average", cli.FormatDuration(int(st.AverageMinutes))))
	b.WriteString(renderLine(m.styles, "Days", fmt.Sprint(st.DaysCovered)))
	b.WriteString(renderLine(m.styles, "Unlocks", fmt.Sprint(st.Unlocks)))
	b.WriteString(renderLine(m.styles, "Logbook entries", fmt.Sprint(st.LogbookEntries)))

	if len(m.result.Reasons) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.ViewTitle.Render("Unlock reasons"))
		b.WriteString("\n")
		for i, r := range m.result.Reasons {
			if i == maxReasons {
				b.WriteString(m.styles.StatLabel.Render(fmt.Sprintf("  … %d more", len(m.result.Reasons)-maxReasons)))
				b.WriteString("\n")
				break
			}
			b.WriteString(fmt.Sprintf("  %-30s %s\n", r.Reason, m.styles.StatValue.Render(fmt.Sprint(r.Count))))
		}
	}

	return b.String()
}

// SetSize sets the view dimensions
func (m *StatsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m StatsModel) loadStats() tea.Cmd {
	env, days := m.env, m.lastDays
	return func() tea.Msg {
		var start, end time.Time
		if days > 0 {
			var err error
			start, end, err = timeutil.ParseDateRangeFlags("", "", days, env.now(), env.Location)
			if err != nil {
				return statsLoadedMsg{err: err}
			}
		}
		res, err := env.Services.Tracker.Stats(env.ctx(), env.User, start, end, env.Location)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		return statsLoadedMsg{result: &res}
	}
}
