// Package cli provides the CLI presentation layer for locktime.
// It handles command-line output formatting and user interaction.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/xolan/locktime/internal/account"
	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/service"
	"github.com/xolan/locktime/internal/session"
)

// TimestampLayout is used for absolute times in listings.
const TimestampLayout = "Mon Jan 2 2006 15:04"

// FormatElapsed formats a breakdown as the timer digits: "02d 03h 04m 05s".
func FormatElapsed(b session.Breakdown) string {
	return fmt.Sprintf("%02dd %02dh %02dm %02ds", b.Days, b.Hours, b.Minutes, b.Seconds)
}

// FormatTitle formats a breakdown for a window title: "02d 03h 04m".
func FormatTitle(b session.Breakdown) string {
	return fmt.Sprintf("%02dd %02dh %02dm", b.Days, b.Hours, b.Minutes)
}

// FormatDuration formats minutes as a human-readable string
// Examples: "30m", "2h", "1h 30m", "2d 1h"
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	days := minutes / (24 * 60)
	hours := minutes % (24 * 60) / 60
	mins := minutes % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}
	return strings.Join(parts, " ")
}

// FormatTimestamp formats t in loc for listings.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimestampLayout)
}

// FormatRelative describes t relative to now, e.g. "3 hours ago".
func FormatRelative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatSize formats a byte count, e.g. "1.2 kB".
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}

// FormatEventLine formats one completed event of a listing:
// "[1] Fri Mar 1 2024 10:00 -> Fri Mar 1 2024 12:00  0d 2h 0m  (1 note)"
func FormatEventLine(ie service.IndexedEvent, loc *time.Location) string {
	e := ie.Event
	end := "running"
	if e.EndDate != nil {
		end = FormatTimestamp(*e.EndDate, loc)
	}
	line := fmt.Sprintf("[%d] %s -> %s  %s", ie.Index, FormatTimestamp(e.StartDate, loc), end, e.Duration)
	if n := len(e.Logbook); n > 0 {
		line += fmt.Sprintf("  (%d %s)", n, Pluralize("note", n))
	}
	return line
}

// FormatEntryLine formats one logbook entry with its 1-based position.
func FormatEntryLine(position int, entry event.Entry, loc *time.Location) string {
	line := fmt.Sprintf("  %d. %s  %s", position, FormatTimestamp(entry.Date, loc), entry.Title)
	if entry.Note != "" {
		line += "\n     " + strings.ReplaceAll(entry.Note, "\n", "\n     ")
	}
	return line
}

// FormatDateRangeForDisplay formats a date range for human-readable display.
func FormatDateRangeForDisplay(start, end time.Time) string {
	if start.IsZero() {
		return "up to " + end.Format("Jan 2, 2006")
	}
	if start.Format("2006-01-02") == end.Format("2006-01-02") {
		return start.Format("Mon, Jan 2, 2006")
	}
	if start.Year() == end.Year() {
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
}

// FormatProfile renders a profile as aligned label lines.
func FormatProfile(user string, p account.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User:      %s\n", user)
	fmt.Fprintf(&b, "Name:      %s\n", p.Name(user))
	fmt.Fprintf(&b, "Keyholder: %s\n", p.KeyholderLabel())
	fmt.Fprintf(&b, "Device:    %s\n", p.DeviceLabel())
	return b.String()
}
