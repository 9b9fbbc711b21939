package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/locktime/internal/account"
	"github.com/xolan/locktime/internal/config"
	"github.com/xolan/locktime/internal/tui/ui"
)

// maxVisibleThemes is the maximum number of themes to show at once
const maxVisibleThemes = 10

// ConfigModel shows the configuration and account, and switches themes.
type ConfigModel struct {
	env    Env
	tints  *ui.Themes
	styles ui.Styles
	keys   ui.KeyMap

	width     int
	height    int
	config    config.Config
	path      string
	dataDir   string
	exists    bool
	profile   account.Profile
	err       error
	themeName string

	// Theme selector
	selectingTheme bool
	themes         []string
	themeCursor    int
	themeOffset    int
}

// NewConfigModel creates a new config view model
func NewConfigModel(env Env, tints *ui.Themes, styles ui.Styles, keys ui.KeyMap) ConfigModel {
	m := ConfigModel{
		env:       env,
		tints:     tints,
		styles:    styles,
		keys:      keys,
		themes:    tints.IDs(),
		themeName: tints.ID(),
	}
	m.resetCursor()
	return m
}

type configLoadedMsg struct {
	config  config.Config
	path    string
	dataDir string
	exists  bool
	profile account.Profile
	err     error
}

// Init implements tea.Model
func (m ConfigModel) Init() tea.Cmd {
	return m.loadConfig()
}

// Update implements tea.Model
func (m ConfigModel) Update(msg tea.Msg) (ConfigModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.selectingTheme {
			return m.handleThemeSelection(msg)
		}
		if key.Matches(msg, m.keys.Select) || msg.String() == "t" {
			m.selectingTheme = true
			m.updateThemeOffset()
		}
		return m, nil

	case configLoadedMsg:
		m.config = msg.config
		m.path = msg.path
		m.dataDir = msg.dataDir
		m.exists = msg.exists
		m.profile = msg.profile
		m.err = msg.err

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		m.themeName = msg.ThemeName
		m.config.Theme = msg.ThemeName
		m.resetCursor()
		return m, nil
	}

	return m, nil
}

func (m ConfigModel) handleThemeSelection(msg tea.KeyMsg) (ConfigModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.themeCursor > 0 {
			m.themeCursor--
			m.updateThemeOffset()
		}
	case key.Matches(msg, m.keys.Down):
		if m.themeCursor < len(m.themes)-1 {
			m.themeCursor++
			m.updateThemeOffset()
		}
	case key.Matches(msg, m.keys.Select):
		m.selectingTheme = false
		if len(m.themes) == 0 {
			return m, nil
		}
		name := m.themes[m.themeCursor]
		return m, func() tea.Msg {
			return ui.ThemeChangeRequestMsg{ThemeName: name}
		}
	case key.Matches(msg, m.keys.Back):
		m.selectingTheme = false
		m.resetCursor()
	}
	return m, nil
}

func (m *ConfigModel) resetCursor() {
	m.themeCursor = m.tints.Index()
	m.updateThemeOffset()
}

// updateThemeOffset adjusts scroll offset to keep cursor visible
func (m *ConfigModel) updateThemeOffset() {
	m.themeOffset = scrollOffset(m.themeCursor, m.themeOffset, maxVisibleThemes)
}

// View implements tea.Model
func (m ConfigModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Configuration"))
	b.WriteString("\n\n")

	b.WriteString(renderLine(m.styles, "Config file", m.path))
	b.WriteString(m.styles.StatLabel.Render("Status:"))
	b.WriteString(" ")
	if m.exists {
		b.WriteString(m.styles.Success.Render("File exists"))
	} else {
		b.WriteString(m.styles.Warning.Render("Using defaults (no config file)"))
	}
	b.WriteString("\n\n")

	b.WriteString(strings.Repeat("─", min(50, max(m.width, 1))))
	b.WriteString("\n\n")

	b.WriteString(renderLine(m.styles, "backend", m.config.Backend))
	b.WriteString(renderLine(m.styles, "data_dir", m.dataDir))
	b.WriteString(renderLine(m.styles, "timezone", m.config.Timezone))
	b.WriteString(renderLine(m.styles, "log_level", m.config.LogLevel))

	if m.selectingTheme {
		b.WriteString(m.renderThemeSelector())
	} else {
		b.WriteString(renderLine(m.styles, "theme", m.tints.Label()))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.ViewTitle.Render("Account"))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(renderLine(m.styles, "User", m.env.User))
		b.WriteString(renderLine(m.styles, "Name", m.profile.Name(m.env.User)))
		b.WriteString(renderLine(m.styles, "Keyholder", m.profile.KeyholderLabel()))
		b.WriteString(renderLine(m.styles, "Device", m.profile.DeviceLabel()))
	}

	if !m.selectingTheme {
		b.WriteString("\n")
		b.WriteString(m.styles.StatLabel.Render("Press Enter or 't' to change theme"))
	}
	return b.String()
}

func (m ConfigModel) renderThemeSelector() string {
	var b strings.Builder

	b.WriteString(renderLine(m.styles, "theme", "Select a theme"))
	b.WriteString("\n")

	endIdx := min(m.themeOffset+maxVisibleThemes, len(m.themes))
	if m.themeOffset > 0 {
		b.WriteString(m.styles.StatLabel.Render("  ↑ more themes above"))
		b.WriteString("\n")
	}
	for i := m.themeOffset; i < endIdx; i++ {
		theme := m.themes[i]
		current := ""
		if theme == m.themeName {
			current = m.styles.Success.Render(" (current)")
		}
		if i == m.themeCursor {
			b.WriteString(m.styles.RowSelected.Render("▸ " + theme))
		} else {
			b.WriteString("  " + m.styles.StatValue.Render(theme))
		}
		b.WriteString(current)
		b.WriteString("\n")
	}
	if endIdx < len(m.themes) {
		b.WriteString(m.styles.StatLabel.Render("  ↓ more themes below"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.StatLabel.Render("↑/↓ navigate  Enter select  Esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// SetSize sets the view dimensions
func (m *ConfigModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsSelectingTheme reports whether the theme list is open.
func (m ConfigModel) IsSelectingTheme() bool {
	return m.selectingTheme
}

func (m ConfigModel) loadConfig() tea.Cmd {
	env := m.env
	return func() tea.Msg {
		cfg := env.Services.Config
		msg := configLoadedMsg{
			config:  cfg.Get(),
			path:    cfg.GetPath(),
			dataDir: cfg.DataDir(),
			exists:  cfg.Exists(),
		}
		msg.profile, msg.err = env.Services.Account.Profile(env.ctx(), env.User)
		return msg
	}
}
