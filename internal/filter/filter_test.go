package filter

import (
	"strings"
	"testing"
	"time"

	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/tracker"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// Helper function to create a completed event with a logbook
func makeEvent(minutes int, entries ...event.Entry) event.Event {
	end := base.Add(time.Duration(minutes) * time.Minute)
	return event.Event{
		ID:        base.UnixMilli(),
		StartDate: base,
		EndDate:   &end,
		Duration:  event.ComputeDuration(base, end),
		Logbook:   entries,
	}
}

func note(title, text string) event.Entry {
	return event.Entry{ID: title, Title: title, Note: text, Date: base}
}

func TestNewFilter(t *testing.T) {
	f := NewFilter("  shower ", true, 90)
	if f.Keyword != "shower" {
		t.Errorf("Keyword = %q, expected trimmed %q", f.Keyword, "shower")
	}
	if !f.Unlocked || f.MinMinutes != 90 {
		t.Errorf("NewFilter() = %+v", f)
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		f    *Filter
		want bool
	}{
		{"nil", nil, true},
		{"zero", &Filter{}, true},
		{"blank keyword", NewFilter("   ", false, 0), true},
		{"keyword", NewFilter("x", false, 0), false},
		{"unlocked", NewFilter("", true, 0), false},
		{"min", NewFilter("", false, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	unlock := event.Entry{ID: "u", Title: tracker.UnlockTitle, Note: "Device unlocked for: Shower", Date: base}
	plain := makeEvent(60, note("Day one", "Felt fine"))
	unlocked := makeEvent(180, unlock)
	empty := makeEvent(30)

	tests := []struct {
		name string
		f    *Filter
		e    event.Event
		want bool
	}{
		{"empty filter", &Filter{}, empty, true},
		{"keyword in title", NewFilter("day", false, 0), plain, true},
		{"keyword in note", NewFilter("FINE", false, 0), plain, true},
		{"keyword in unlock reason", NewFilter("shower", false, 0), unlocked, true},
		{"keyword missing", NewFilter("gym", false, 0), plain, false},
		{"keyword without logbook", NewFilter("day", false, 0), empty, false},
		{"unlocked yes", NewFilter("", true, 0), unlocked, true},
		{"unlocked no", NewFilter("", true, 0), plain, false},
		{"min met", NewFilter("", false, 60), plain, true},
		{"min missed", NewFilter("", false, 61), plain, false},
		{"all criteria", NewFilter("shower", true, 120), unlocked, true},
		{"one criterion fails", NewFilter("shower", true, 240), unlocked, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Matches(tt.e); got != tt.want {
				t.Errorf("Matches() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		f    *Filter
		want string
	}{
		{&Filter{}, ""},
		{NewFilter("shower", false, 0), `"shower"`},
		{NewFilter("", true, 0), "unlocked"},
		{NewFilter("a", true, 90), `"a", unlocked, >= 1h30m`},
		{NewFilter("", false, 24*60+5), ">= 1d5m"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("String() = %q, expected %q", got, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr string
	}{
		{"2h", 120, ""},
		{"30m", 30, ""},
		{"1h30m", 90, ""},
		{"1d", 1440, ""},
		{"3d12h", 84 * 60, ""},
		{" 2H ", 120, ""},
		{"", 0, "invalid duration"},
		{"90", 0, "invalid duration"},
		{"1m2h", 0, "invalid duration"},
		{"abc", 0, "invalid duration"},
		{"0h", 0, "cannot be zero"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseDuration(%q) error = %v, expected %q", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDuration(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %d, expected %d", tt.input, got, tt.want)
			}
		})
	}
}
