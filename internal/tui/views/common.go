// Package views holds the tab views of the locktime TUI.
package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/locktime/internal/cli"
	"github.com/xolan/locktime/internal/service"
	"github.com/xolan/locktime/internal/tui/ui"
)

// Env is what every view needs to reach the logged-in user's data.
type Env struct {
	Ctx      context.Context
	Services *service.Services
	User     string
	Location *time.Location
}

func (e Env) ctx() context.Context {
	if e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

func (e Env) now() time.Time {
	return e.Services.Tracker.Now()
}

// stateChanged tells the root model to reload every view.
func stateChanged() tea.Msg {
	return ui.StateChangedMsg{}
}

// EventRow is one selectable line of an event listing. Ref is the event
// key, which stays put when a newer session is stopped and shifts the
// listing positions.
type EventRow struct {
	Ref   string
	Label string
	Start time.Time
	End   *time.Time
	// Duration is empty for the running event.
	Duration string
	Notes    int
}

// EventRows flattens a listing, putting the running event first.
func EventRows(list service.EventList) []EventRow {
	rows := make([]EventRow, 0, len(list.Events)+1)
	if list.Active != nil {
		rows = append(rows, EventRow{
			Ref:   list.Active.Key(),
			Label: "[*]",
			Start: list.Active.StartDate,
			Notes: len(list.Active.Logbook),
		})
	}
	for _, ie := range list.Events {
		rows = append(rows, EventRow{
			Ref:      ie.Event.Key(),
			Label:    fmt.Sprintf("[%d]", ie.Index),
			Start:    ie.Event.StartDate,
			End:      ie.Event.EndDate,
			Duration: ie.Event.Duration.String(),
			Notes:    len(ie.Event.Logbook),
		})
	}
	return rows
}

// RenderEventList renders rows with aligned columns, highlighting cursor.
// Only rows [offset, offset+limit) are drawn; a limit <= 0 draws them all.
func RenderEventList(rows []EventRow, styles ui.Styles, loc *time.Location, cursor, offset, limit int) string {
	if len(rows) == 0 {
		return ""
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, len(r.Label))
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		r := rows[i]
		style := styles.RowNormal
		if i == cursor {
			style = styles.RowSelected
		}

		stop := "running"
		if r.End != nil {
			stop = cli.FormatTimestamp(*r.End, loc)
		}
		span := fmt.Sprintf("%s -> %-20s", cli.FormatTimestamp(r.Start, loc), stop)
		dur := r.Duration
		if dur == "" {
			dur = "-"
		}

		line := fmt.Sprintf("%s %s %s",
			styles.RowIndex.Render(fmt.Sprintf("%-*s", labelWidth, r.Label)),
			styles.RowTime.Render(span),
			styles.RowDuration.Render(dur))
		if r.Notes > 0 {
			line += fmt.Sprintf("  %d %s", r.Notes, cli.Pluralize("note", r.Notes))
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// scrollOffset keeps cursor inside a window of size visible.
func scrollOffset(cursor, offset, visible int) int {
	if visible <= 0 {
		return 0
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+visible {
		return cursor - visible + 1
	}
	return offset
}

func renderLine(styles ui.Styles, label, value string) string {
	return styles.StatLabel.Render(label+":") + " " + styles.StatValue.Render(value) + "\n"
}
