package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/locktime/internal/cli"
	"github.com/xolan/locktime/internal/tracker"
	"github.com/xolan/locktime/internal/tui/ui"
)

// IdleTitle is the window title while no session runs.
const IdleTitle = "locktime"

// TimerModel shows the running session and drives start, stop, pause and
// resume.
type TimerModel struct {
	env    Env
	styles ui.Styles
	keys   ui.KeyMap

	width  int
	height int
	state  *tracker.State
	status tracker.Status
	err    error
	notice string

	// Unlock reason prompt
	inputMode bool
	input     textinput.Model
}

// NewTimerModel creates the timer view.
func NewTimerModel(env Env, styles ui.Styles, keys ui.KeyMap) TimerModel {
	ti := textinput.New()
	ti.Placeholder = "Why are you unlocking?"
	ti.CharLimit = 200
	ti.Width = 50

	return TimerModel{
		env:    env,
		styles: styles,
		keys:   keys,
		input:  ti,
	}
}

type timerStateMsg struct {
	state   *tracker.State
	err     error
	notice  string
	changed bool
}

// TimerTickMsg is sent every second while the TUI runs.
type TimerTickMsg time.Time

// Init implements tea.Model
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.tick())
}

// Reload reads the state again without starting another tick loop.
func (m TimerModel) Reload() tea.Cmd {
	return m.apply("", func() error { return nil })
}

// Update implements tea.Model
func (m TimerModel) Update(msg tea.Msg) (TimerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputMode(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Start):
			if !m.status.Active {
				return m, m.start()
			}
		case key.Matches(msg, m.keys.Stop):
			if m.status.Active {
				return m, m.stop()
			}
		case key.Matches(msg, m.keys.Pause):
			switch {
			case m.status.Paused:
				return m, m.resume()
			case m.status.Active:
				m.inputMode = true
				m.input.SetValue("")
				m.input.Focus()
				return m, textinput.Blink
			}
		case key.Matches(msg, m.keys.Refresh):
			return m, m.Reload()
		}
		return m, nil

	case timerStateMsg:
		m.err = msg.err
		if msg.state != nil {
			m.state = msg.state
		}
		m.notice = msg.notice
		m.refreshStatus()
		cmd := tea.SetWindowTitle(m.Title())
		if msg.changed {
			return m, tea.Batch(cmd, stateChanged)
		}
		return m, cmd

	case TimerTickMsg:
		m.refreshStatus()
		return m, tea.Batch(m.tick(), tea.SetWindowTitle(m.Title()))

	case ui.StateChangedMsg:
		return m, m.Reload()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	if m.inputMode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m TimerModel) handleInputMode(msg tea.KeyMsg) (TimerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		reason := strings.TrimSpace(m.input.Value())
		if reason == "" {
			return m, nil
		}
		m.inputMode = false
		m.input.Blur()
		return m, m.pause(reason)
	case key.Matches(msg, m.keys.Back):
		m.inputMode = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *TimerModel) refreshStatus() {
	if m.state == nil {
		m.status = tracker.Status{}
		return
	}
	m.status = m.state.Status(m.env.now())
}

// Title is the window title: the elapsed lock time, or IdleTitle.
func (m TimerModel) Title() string {
	if !m.status.Active {
		return IdleTitle
	}
	return cli.FormatTitle(m.status.Breakdown)
}

// View implements tea.Model
func (m TimerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Timer"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.TimerDigits.Render(cli.FormatElapsed(m.status.Breakdown)))
	b.WriteString("\n\n")

	now := m.env.now()
	switch {
	case !m.status.Active:
		b.WriteString(m.styles.TimerIdle.Render("No active session"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Press 's' to start a session"))
	case m.status.Paused:
		b.WriteString(m.styles.TimerPaused.Render("❚❚ Unlocked"))
		b.WriteString("\n\n")
		b.WriteString(renderLine(m.styles, "Started", m.formatTime(m.status.StartTime, now)))
		if m.status.PausedSince != nil {
			b.WriteString(renderLine(m.styles, "Unlocked since", m.formatTime(*m.status.PausedSince, now)))
		}
		b.WriteString(renderLine(m.styles, "Unlocked total", cli.FormatDuration(int(m.status.PausedTotal.Minutes()))))
		b.WriteString(renderLine(m.styles, "Logbook", fmt.Sprintf("%d %s", m.status.LogbookCount, entryNoun(m.status.LogbookCount))))
		b.WriteString("\n")
		b.WriteString(m.styles.StatLabel.Render("Press 'p' to lock again, 'x' to stop"))
	default:
		b.WriteString(m.styles.TimerRunning.Render("● Locked"))
		b.WriteString("\n\n")
		b.WriteString(renderLine(m.styles, "Started", m.formatTime(m.status.StartTime, now)))
		if m.status.PausedTotal > 0 {
			b.WriteString(renderLine(m.styles, "Unlocked total", cli.FormatDuration(int(m.status.PausedTotal.Minutes()))))
		}
		b.WriteString(renderLine(m.styles, "Logbook", fmt.Sprintf("%d %s", m.status.LogbookCount, entryNoun(m.status.LogbookCount))))
		b.WriteString("\n")
		b.WriteString(m.styles.StatLabel.Render("Press 'p' to unlock, 'x' to stop"))
	}

	if m.inputMode {
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Unlock reason:"))
		b.WriteString("\n")
		b.WriteString(m.styles.InputFocused.Render(m.input.View()))
		b.WriteString("\n")
		b.WriteString(m.styles.StatLabel.Render("Enter to unlock, Esc to cancel"))
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Success.Render(m.notice))
	}

	return b.String()
}

func (m TimerModel) formatTime(t, now time.Time) string {
	return fmt.Sprintf("%s (%s)", cli.FormatTimestamp(t, m.env.Location), cli.FormatRelative(t, now))
}

// SetSize sets the view dimensions
func (m *TimerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode reports whether the unlock reason prompt is open.
func (m TimerModel) IsInputMode() bool {
	return m.inputMode
}

// apply runs op and then reloads the state. The notice is shown on success.
func (m TimerModel) apply(notice string, op func() error) tea.Cmd {
	env := m.env
	return func() tea.Msg {
		if err := op(); err != nil {
			state, _ := env.Services.Tracker.State(env.ctx(), env.User)
			return timerStateMsg{state: state, err: err}
		}
		state, err := env.Services.Tracker.State(env.ctx(), env.User)
		return timerStateMsg{state: state, err: err, notice: notice, changed: notice != ""}
	}
}

func (m TimerModel) start() tea.Cmd {
	env := m.env
	return m.apply("Session started", func() error {
		_, err := env.Services.Tracker.Start(env.ctx(), env.User, time.Time{})
		return err
	})
}

func (m TimerModel) stop() tea.Cmd {
	env := m.env
	return m.apply("Session stopped", func() error {
		_, err := env.Services.Tracker.Stop(env.ctx(), env.User)
		return err
	})
}

func (m TimerModel) pause(reason string) tea.Cmd {
	env := m.env
	return m.apply("Unlocked: "+reason, func() error {
		_, err := env.Services.Tracker.Pause(env.ctx(), env.User, reason)
		return err
	})
}

func (m TimerModel) resume() tea.Cmd {
	env := m.env
	return m.apply("Locked again", func() error {
		return env.Services.Tracker.Resume(env.ctx(), env.User)
	})
}

func (m TimerModel) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TimerTickMsg(t)
	})
}

func entryNoun(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}
