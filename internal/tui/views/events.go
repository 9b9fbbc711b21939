package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/locktime/internal/cli"
	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/service"
	"github.com/xolan/locktime/internal/timeutil"
	"github.com/xolan/locktime/internal/tui/ui"
)

type eventsMode int

const (
	modeList eventsMode = iota
	modeLogbook
	modeAddNote
	modeConfirmDelete
)

// EventsModel lists events and lets the user browse and edit their logbooks.
type EventsModel struct {
	env    Env
	styles ui.Styles
	keys   ui.KeyMap

	width  int
	height int
	err    error

	// Listing
	lastDays int // 0 lists everything
	list     service.EventList
	rows     []EventRow
	cursor   int
	offset   int

	// Logbook of the selected event
	mode        eventsMode
	ref         string
	selected    event.Event
	entries     []event.Entry
	entryCursor int

	titleInput textinput.Model
	noteInput  textinput.Model
	focusNote  bool
}

// NewEventsModel creates the events view.
func NewEventsModel(env Env, styles ui.Styles, keys ui.KeyMap) EventsModel {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 100
	title.Width = 50

	note := textinput.New()
	note.Placeholder = "Note (optional)"
	note.CharLimit = 500
	note.Width = 50

	return EventsModel{
		env:        env,
		styles:     styles,
		keys:       keys,
		titleInput: title,
		noteInput:  note,
	}
}

type eventsLoadedMsg struct {
	list service.EventList
	err  error
}

type logbookLoadedMsg struct {
	ref     string
	event   event.Event
	err     error
	changed bool
}

// Init implements tea.Model
func (m EventsModel) Init() tea.Cmd {
	return m.loadEvents()
}

// Update implements tea.Model
func (m EventsModel) Update(msg tea.Msg) (EventsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeAddNote:
			return m.handleAddNote(msg)
		case modeConfirmDelete:
			return m.handleConfirmDelete(msg)
		case modeLogbook:
			return m.handleLogbook(msg)
		}
		return m.handleList(msg)

	case eventsLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.list = msg.list
			m.rows = EventRows(msg.list)
			m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
			m.offset = scrollOffset(m.cursor, m.offset, m.visibleRows())
		}
		return m, nil

	case logbookLoadedMsg:
		m.err = msg.err
		if msg.err != nil {
			if m.mode == modeAddNote || m.mode == modeConfirmDelete {
				m.mode = modeLogbook
			}
			return m, nil
		}
		m.ref = msg.ref
		m.selected = msg.event
		m.entries = msg.event.SortedEntries()
		m.entryCursor = min(m.entryCursor, max(len(m.entries)-1, 0))
		// A background reload must not close an open prompt
		if m.mode == modeList || msg.changed {
			m.mode = modeLogbook
		}
		if msg.changed {
			return m, stateChanged
		}
		return m, nil

	case ui.StateChangedMsg:
		if m.mode != modeList && m.ref != "" {
			return m, tea.Batch(m.loadEvents(), m.loadLogbook(m.ref, false))
		}
		return m, m.loadEvents()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	if m.mode == modeAddNote {
		return m.updateInputs(msg)
	}
	return m, nil
}

func (m EventsModel) handleList(msg tea.KeyMsg) (EventsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(m.rows) {
			m.entryCursor = 0
			return m, m.loadLogbook(m.rows[m.cursor].Ref, false)
		}
	case key.Matches(msg, m.keys.Today):
		return m.setRange(1)
	case key.Matches(msg, m.keys.LastWeek):
		return m.setRange(7)
	case key.Matches(msg, m.keys.Month):
		return m.setRange(30)
	case key.Matches(msg, m.keys.All):
		return m.setRange(0)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadEvents()
	}
	m.offset = scrollOffset(m.cursor, m.offset, m.visibleRows())
	return m, nil
}

func (m EventsModel) setRange(days int) (EventsModel, tea.Cmd) {
	m.lastDays = days
	m.cursor = 0
	m.offset = 0
	return m, m.loadEvents()
}

func (m EventsModel) handleLogbook(msg tea.KeyMsg) (EventsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.entryCursor > 0 {
			m.entryCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.entryCursor < len(m.entries)-1 {
			m.entryCursor++
		}
	case key.Matches(msg, m.keys.New):
		m.mode = modeAddNote
		m.focusNote = false
		m.titleInput.SetValue("")
		m.noteInput.SetValue("")
		m.noteInput.Blur()
		m.titleInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Delete):
		if len(m.entries) > 0 {
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, m.keys.Back):
		m.mode = modeList
		m.ref = ""
		m.err = nil
		return m, m.loadEvents()
	}
	return m, nil
}

func (m EventsModel) handleAddNote(msg tea.KeyMsg) (EventsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeLogbook
		m.titleInput.Blur()
		m.noteInput.Blur()
		return m, nil
	case msg.Type == tea.KeyTab, msg.Type == tea.KeyShiftTab:
		m.focusNote = !m.focusNote
		if m.focusNote {
			m.titleInput.Blur()
			m.noteInput.Focus()
		} else {
			m.noteInput.Blur()
			m.titleInput.Focus()
		}
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Select):
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			m.err = event.ErrEmptyTitle
			return m, nil
		}
		m.titleInput.Blur()
		m.noteInput.Blur()
		return m, m.addNote(title, strings.TrimSpace(m.noteInput.Value()))
	}
	return m.updateInputs(msg)
}

func (m EventsModel) updateInputs(msg tea.Msg) (EventsModel, tea.Cmd) {
	var cmd tea.Cmd
	if m.focusNote {
		m.noteInput, cmd = m.noteInput.Update(msg)
	} else {
		m.titleInput, cmd = m.titleInput.Update(msg)
	}
	return m, cmd
}

func (m EventsModel) handleConfirmDelete(msg tea.KeyMsg) (EventsModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.entryCursor < len(m.entries) {
			return m, m.deleteNote(m.entries[m.entryCursor].ID)
		}
		m.mode = modeLogbook
	case "n", "N", "esc":
		m.mode = modeLogbook
	}
	return m, nil
}

// View implements tea.Model
func (m EventsModel) View() string {
	if m.mode != modeList {
		return m.viewLogbook()
	}

	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("Events · " + m.rangeLabel()))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(m.styles.StatLabel.Render("No events found"))
		return b.String()
	}

	b.WriteString(RenderEventList(m.rows, m.styles, m.env.Location, m.cursor, m.offset, m.visibleRows()))
	b.WriteString("\n")
	n := len(m.list.Events)
	b.WriteString(m.styles.StatLabel.Render(fmt.Sprintf("Total: %s (%d %s)",
		cli.FormatDuration(m.list.TotalMinutes), n, cli.Pluralize("event", n))))
	return b.String()
}

func (m EventsModel) viewLogbook() string {
	var b strings.Builder
	loc := m.env.Location

	end := "running"
	if m.selected.EndDate != nil {
		end = cli.FormatTimestamp(*m.selected.EndDate, loc)
	}
	b.WriteString(m.styles.ViewTitle.Render("Logbook"))
	b.WriteString("\n")
	b.WriteString(m.styles.RowTime.Render(fmt.Sprintf("%s -> %s", cli.FormatTimestamp(m.selected.StartDate, loc), end)))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(m.styles.StatLabel.Render("No logbook entries"))
		b.WriteString("\n")
	}
	for i, e := range m.entries {
		style := m.styles.RowNormal
		if i == m.entryCursor {
			style = m.styles.RowSelected
		}
		line := fmt.Sprintf("%d. %s  %s", i+1, m.styles.RowTime.Render(cli.FormatTimestamp(e.Date, loc)), e.Title)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
		if e.Note != "" {
			b.WriteString(m.styles.RowNote.Render(e.Note))
			b.WriteString("\n")
		}
	}

	switch m.mode {
	case modeAddNote:
		var d strings.Builder
		d.WriteString(m.styles.DialogTitle.Render("New logbook entry"))
		d.WriteString("\n")
		d.WriteString(m.inputStyle(!m.focusNote).Render(m.titleInput.View()))
		d.WriteString("\n")
		d.WriteString(m.inputStyle(m.focusNote).Render(m.noteInput.View()))
		b.WriteString("\n")
		b.WriteString(m.styles.Dialog.Render(d.String()))
	case modeConfirmDelete:
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render(fmt.Sprintf("Delete %q? (y/n)", m.entries[m.entryCursor].Title)))
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	return b.String()
}

func (m EventsModel) inputStyle(focused bool) lipgloss.Style {
	if focused {
		return m.styles.InputFocused
	}
	return m.styles.Input
}

func (m EventsModel) rangeLabel() string {
	switch m.lastDays {
	case 0:
		return "all"
	case 1:
		return "today"
	default:
		return fmt.Sprintf("last %d days", m.lastDays)
	}
}

func (m EventsModel) visibleRows() int {
	// Title, blank line, total and status bar
	return max(m.height-6, 0)
}

// SetSize sets the view dimensions
func (m *EventsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.offset = scrollOffset(m.cursor, m.offset, m.visibleRows())
}

// IsInputMode reports whether a text prompt is capturing keys.
func (m EventsModel) IsInputMode() bool {
	return m.mode == modeAddNote
}

func (m EventsModel) loadEvents() tea.Cmd {
	env, days := m.env, m.lastDays
	return func() tea.Msg {
		var start, end time.Time
		if days > 0 {
			var err error
			start, end, err = timeutil.ParseDateRangeFlags("", "", days, env.now(), env.Location)
			if err != nil {
				return eventsLoadedMsg{err: err}
			}
		}
		list, err := env.Services.Tracker.Events(env.ctx(), env.User, start, end)
		return eventsLoadedMsg{list: list, err: err}
	}
}

func (m EventsModel) loadLogbook(ref string, changed bool) tea.Cmd {
	env := m.env
	return func() tea.Msg {
		e, err := env.Services.Tracker.Logbook(env.ctx(), env.User, ref)
		return logbookLoadedMsg{ref: ref, event: e, err: err, changed: changed}
	}
}

func (m EventsModel) addNote(title, note string) tea.Cmd {
	env, ref := m.env, m.ref
	return func() tea.Msg {
		if _, err := env.Services.Tracker.AddNote(env.ctx(), env.User, ref, title, note); err != nil {
			return logbookLoadedMsg{ref: ref, err: err}
		}
		e, err := env.Services.Tracker.Logbook(env.ctx(), env.User, ref)
		return logbookLoadedMsg{ref: ref, event: e, err: err, changed: true}
	}
}

func (m EventsModel) deleteNote(id string) tea.Cmd {
	env, ref := m.env, m.ref
	return func() tea.Msg {
		if _, err := env.Services.Tracker.DeleteNote(env.ctx(), env.User, ref, id); err != nil {
			return logbookLoadedMsg{ref: ref, err: err}
		}
		e, err := env.Services.Tracker.Logbook(env.ctx(), env.User, ref)
		return logbookLoadedMsg{ref: ref, event: e, err: err, changed: true}
	}
}
