// Package tui provides the Terminal User Interface for locktime.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/locktime/internal/service"
	"github.com/xolan/locktime/internal/tui/ui"
	"github.com/xolan/locktime/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabTimer Tab = iota
	TabEvents
	TabStats
	TabConfig
)

var tabNames = []string{"Timer", "Events", "Stats", "Config"}

// Model is the root TUI model
type Model struct {
	services *service.Services

	activeTab Tab
	width     int
	height    int
	showHelp  bool
	err       error

	timerView  views.TimerModel
	eventsView views.EventsModel
	statsView  views.StatsModel
	configView views.ConfigModel

	themes *ui.Themes
	styles ui.Styles
	keys   ui.KeyMap
}

// New creates the root model for user.
func New(ctx context.Context, services *service.Services, user string) Model {
	themes := ui.LoadThemes(services.Config.Get().Theme)
	styles := themes.Styles()
	keys := ui.DefaultKeyMap()

	cfg := services.Config.Get()
	loc, err := cfg.Location()
	if err != nil {
		loc = time.Local
	}
	env := views.Env{Ctx: ctx, Services: services, User: user, Location: loc}

	return Model{
		services:   services,
		activeTab:  TabTimer,
		themes:     themes,
		styles:     styles,
		keys:       keys,
		timerView:  views.NewTimerModel(env, styles, keys),
		eventsView: views.NewEventsModel(env, styles, keys),
		statsView:  views.NewStatsModel(env, styles, keys),
		configView: views.NewConfigModel(env, themes, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.eventsView.Init(),
	)
}

type themeSavedMsg struct {
	err error
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// A text prompt owns every key.
		modal := m.isModalInputMode()
		if !modal {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.showHelp = !m.showHelp
				return m, nil
			case key.Matches(msg, m.keys.NextTab):
				return m.switchTab(Tab((int(m.activeTab) + 1) % len(tabNames)))
			case key.Matches(msg, m.keys.PrevTab):
				return m.switchTab(Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames)))
			case key.Matches(msg, m.keys.Tab1):
				return m.switchTab(TabTimer)
			case key.Matches(msg, m.keys.Tab2):
				return m.switchTab(TabEvents)
			case key.Matches(msg, m.keys.Tab3):
				return m.switchTab(TabStats)
			case key.Matches(msg, m.keys.Tab4):
				return m.switchTab(TabConfig)
			}
		}
		return m.updateActive(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := m.height - 4 // tabs and status bar
		m.timerView.SetSize(m.width, contentHeight)
		m.eventsView.SetSize(m.width, contentHeight)
		m.statsView.SetSize(m.width, contentHeight)
		m.configView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.ThemeChangeRequestMsg:
		m.themes.Use(msg.ThemeName)
		name := m.themes.ID()
		m.styles = m.themes.Styles()

		themeMsg := ui.ThemeChangedMsg{ThemeName: name, Styles: m.styles}
		m.timerView, _ = m.timerView.Update(themeMsg)
		m.eventsView, _ = m.eventsView.Update(themeMsg)
		m.statsView, _ = m.statsView.Update(themeMsg)
		m.configView, _ = m.configView.Update(themeMsg)
		return m, m.saveThemeConfig(name)

	case themeSavedMsg:
		m.err = msg.err
		return m, nil
	}

	// Command replies are typed per view, so every view sees them and
	// ignores the ones it does not own.
	return m.broadcast(msg)
}

func (m Model) broadcast(msg tea.Msg) (Model, tea.Cmd) {
	var cmds [4]tea.Cmd
	m.timerView, cmds[0] = m.timerView.Update(msg)
	m.eventsView, cmds[1] = m.eventsView.Update(msg)
	m.statsView, cmds[2] = m.statsView.Update(msg)
	m.configView, cmds[3] = m.configView.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

func (m Model) updateActive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabTimer:
		m.timerView, cmd = m.timerView.Update(msg)
	case TabEvents:
		m.eventsView, cmd = m.eventsView.Update(msg)
	case TabStats:
		m.statsView, cmd = m.statsView.Update(msg)
	case TabConfig:
		m.configView, cmd = m.configView.Update(msg)
	}
	return m, cmd
}

func (m Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	m.activeTab = tab
	return m, m.initCurrentView()
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabTimer:
		b.WriteString(m.timerView.View())
	case TabEvents:
		b.WriteString(m.eventsView.View())
	case TabStats:
		b.WriteString(m.statsView.View())
	case TabConfig:
		b.WriteString(m.configView.View())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Failed to save theme: %v", m.err)))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.styles.App.Render(b.String())
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Tab(i) == m.activeTab {
			tabs[i] = m.styles.TabActive.Render(label)
		} else {
			tabs[i] = m.styles.TabInactive.Render(label)
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.isModalInputMode() {
		parts = append(parts,
			m.renderKeyHelp("Enter", "save"),
			m.renderKeyHelp("Esc", "cancel"))
		if m.activeTab == TabEvents {
			parts = append(parts, m.renderKeyHelp("Tab", "switch field"))
		}
	} else {
		switch m.activeTab {
		case TabTimer:
			parts = append(parts,
				m.renderKeyHelp("s", "start"),
				m.renderKeyHelp("p", "unlock/lock"),
				m.renderKeyHelp("x", "stop"))
		case TabEvents:
			parts = append(parts,
				m.renderKeyHelp("enter", "logbook"),
				m.renderKeyHelp("n", "note"),
				m.renderKeyHelp("d", "delete"),
				m.renderKeyHelp("t/w/m/a", "range"))
		case TabStats:
			parts = append(parts, m.renderKeyHelp("w/m/a", "range"))
		case TabConfig:
			parts = append(parts, m.renderKeyHelp("t", "themes"))
		}
		parts = append(parts,
			m.renderKeyHelp("1-4", "views"),
			m.renderKeyHelp("?", "help"),
			m.renderKeyHelp("q", "quit"))
	}

	content := strings.Join(parts, "  ")
	if padding := m.width - lipgloss.Width(content); padding > 0 {
		content += strings.Repeat(" ", padding)
	}
	return m.styles.StatusBar.Render(content)
}

func (m Model) renderKeyHelp(key, desc string) string {
	return fmt.Sprintf("%s %s", m.styles.StatusKey.Render(key), m.styles.StatusHelp.Render(desc))
}

// isModalInputMode reports whether a text prompt owns the keyboard.
func (m Model) isModalInputMode() bool {
	switch m.activeTab {
	case TabTimer:
		return m.timerView.IsInputMode()
	case TabEvents:
		return m.eventsView.IsInputMode()
	}
	return false
}

// initCurrentView reloads the view being switched to. The timer only
// reloads since its tick loop is already running.
func (m Model) initCurrentView() tea.Cmd {
	switch m.activeTab {
	case TabTimer:
		return m.timerView.Reload()
	case TabEvents:
		return m.eventsView.Init()
	case TabStats:
		return m.statsView.Init()
	case TabConfig:
		return m.configView.Init()
	}
	return nil
}

func (m Model) saveThemeConfig(themeName string) tea.Cmd {
	cfgSvc := m.services.Config
	return func() tea.Msg {
		cfg := cfgSvc.Get()
		cfg.Theme = themeName
		return themeSavedMsg{err: cfgSvc.Update(cfg)}
	}
}

func (m Model) renderHelpOverlay() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")

	help.WriteString(m.styles.StatLabel.Render("Global:"))
	help.WriteString("\n")
	help.WriteString("  Tab/1-4    Switch views\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Quit\n\n")

	switch m.activeTab {
	case TabTimer:
		help.WriteString(m.styles.StatLabel.Render("Timer:"))
		help.WriteString("\n")
		help.WriteString("  s          Start a session\n")
		help.WriteString("  p          Unlock with a reason, or lock again\n")
		help.WriteString("  x          Stop the session\n")
		help.WriteString("  r          Refresh\n")
	case TabEvents:
		help.WriteString(m.styles.StatLabel.Render("Events:"))
		help.WriteString("\n")
		help.WriteString("  j/k        Navigate up/down\n")
		help.WriteString("  Enter      Open logbook\n")
		help.WriteString("  n          New logbook entry\n")
		help.WriteString("  d          Delete logbook entry\n")
		help.WriteString("  Esc        Back to the list\n")
		help.WriteString("  t/w/m/a    Today, 7 days, 30 days, all\n")
	case TabStats:
		help.WriteString(m.styles.StatLabel.Render("Stats:"))
		help.WriteString("\n")
		help.WriteString("  w          Last 7 days\n")
		help.WriteString("  m          Last 30 days\n")
		help.WriteString("  a          All sessions\n")
	case TabConfig:
		help.WriteString(m.styles.StatLabel.Render("Config:"))
		help.WriteString("\n")
		help.WriteString("  t/Enter    Open theme selector\n")
		help.WriteString("  j/k        Navigate themes\n")
		help.WriteString("  Esc        Cancel\n")
	}

	help.WriteString("\n")
	help.WriteString(m.styles.StatLabel.Render("Press ? to close"))
	return m.styles.App.Render(m.styles.Dialog.Render(help.String()))
}

// Run starts the TUI for user and blocks until it exits.
func Run(ctx context.Context, services *service.Services, user string) error {
	p := tea.NewProgram(New(ctx, services, user), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
