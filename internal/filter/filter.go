// Package filter narrows event listings by logbook text, unlocks and
// duration.
package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/tracker"
)

// Filter represents search criteria for completed events.
// All fields are optional; empty values match every event.
type Filter struct {
	Keyword    string // Case-insensitive substring of a logbook title or note
	Unlocked   bool   // Only events with at least one recorded unlock
	MinMinutes int    // Minimum event duration
}

// NewFilter creates a new Filter with the given criteria.
func NewFilter(keyword string, unlocked bool, minMinutes int) *Filter {
	return &Filter{
		Keyword:    strings.TrimSpace(keyword),
		Unlocked:   unlocked,
		MinMinutes: minMinutes,
	}
}

// IsEmpty returns true if the filter matches every event.
func (f *Filter) IsEmpty() bool {
	return f == nil || (f.Keyword == "" && !f.Unlocked && f.MinMinutes <= 0)
}

// MatchesKeyword returns true if any logbook entry mentions the keyword.
func (f *Filter) MatchesKeyword(e event.Event) bool {
	if f.Keyword == "" {
		return true
	}
	kw := strings.ToLower(f.Keyword)
	for _, entry := range e.Logbook {
		if strings.Contains(strings.ToLower(entry.Title), kw) || strings.Contains(strings.ToLower(entry.Note), kw) {
			return true
		}
	}
	return false
}

// MatchesUnlocked returns true if the event was unlocked at least once, or
// the filter does not ask for it.
func (f *Filter) MatchesUnlocked(e event.Event) bool {
	if !f.Unlocked {
		return true
	}
	for _, entry := range e.Logbook {
		if _, ok := tracker.UnlockReason(entry); ok {
			return true
		}
	}
	return false
}

// MatchesDuration returns true if the event lasted at least MinMinutes.
func (f *Filter) MatchesDuration(e event.Event) bool {
	return f.MinMinutes <= 0 || e.Duration.TotalMinutes() >= f.MinMinutes
}

// Matches returns true if the event satisfies every criterion (AND logic).
func (f *Filter) Matches(e event.Event) bool {
	if f.IsEmpty() {
		return true
	}
	return f.MatchesKeyword(e) && f.MatchesUnlocked(e) && f.MatchesDuration(e)
}

// String describes the active criteria, e.g. `"shower", unlocked, >= 2h`.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return ""
	}
	var parts []string
	if f.Keyword != "" {
		parts = append(parts, strconv.Quote(f.Keyword))
	}
	if f.Unlocked {
		parts = append(parts, "unlocked")
	}
	if f.MinMinutes > 0 {
		parts = append(parts, ">= "+formatMinutes(f.MinMinutes))
	}
	return strings.Join(parts, ", ")
}

func formatMinutes(m int) string {
	d, h, mins := m/(24*60), (m/60)%24, m%60
	var b strings.Builder
	if d > 0 {
		fmt.Fprintf(&b, "%dd", d)
	}
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if mins > 0 || b.Len() == 0 {
		fmt.Fprintf(&b, "%dm", mins)
	}
	return b.String()
}

// durationPattern matches any combination of days, hours and minutes in
// that order, e.g. "2d", "1h30m", "3d12h".
var durationPattern = regexp.MustCompile(`^(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?$`)

// ParseDuration parses a duration in XdYhZm form (each part optional) and
// returns it in minutes.
// Valid inputs: "2h" (120), "30m" (30), "1h30m" (90), "1d" (1440)
// Invalid inputs: "", "invalid", "0h", "90"
func ParseDuration(input string) (int, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	m := durationPattern.FindStringSubmatch(input)
	if input == "" || m == nil {
		return 0, fmt.Errorf("invalid duration: expected forms like 2h, 45m, 1h30m or 3d, got %q", input)
	}
	minutes := 0
	for i, unit := range []int{24 * 60, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", input, err)
		}
		minutes += v * unit
	}
	if minutes == 0 {
		return 0, fmt.Errorf("invalid duration: duration cannot be zero")
	}
	return minutes, nil
}
