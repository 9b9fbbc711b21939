// Package service provides the business logic layer for locktime.
// It wraps the tracker, storage, account and config packages, loading and
// saving state around every operation, and serves both the CLI and the TUI.
package service

import (
	"time"

	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/filter"
	"github.com/xolan/locktime/internal/stats"
	"github.com/xolan/locktime/internal/storage"
)

// IndexedEvent is a completed event with its 1-based position in the
// newest-first listing. The position is what users pass as an event ref.
type IndexedEvent struct {
	Index int
	Event event.Event
}

// EventList is the result of listing completed events.
type EventList struct {
	Events []IndexedEvent
	// Active is the in-progress event, if any.
	Active       *event.Event
	Start        time.Time // zero when unbounded
	End          time.Time
	TotalMinutes int
	// Total is the number of completed events before filtering.
	Total int
}

// Filter returns the events matching f with TotalMinutes recomputed.
// Indexes keep their unfiltered positions so refs stay valid.
func (l EventList) Filter(f *filter.Filter) EventList {
	if f.IsEmpty() {
		return l
	}
	out := l
	out.Events = []IndexedEvent{}
	out.TotalMinutes = 0
	for _, ie := range l.Events {
		if f.Matches(ie.Event) {
			out.Events = append(out.Events, ie)
			out.TotalMinutes += ie.Event.Duration.TotalMinutes()
		}
	}
	return out
}

// ClearResult reports what a clear removed.
type ClearResult struct {
	Events         int
	LogbookEntries int
}

// ValidationResult is the outcome of checking one user's stored state.
type ValidationResult struct {
	Health storage.Health
	// Backend names the configured storage backend.
	Backend string
}

// StatsResult is a listing with its aggregate statistics.
type StatsResult struct {
	List       EventList
	Statistics stats.Statistics
	Reasons    []stats.ReasonBreakdown
}
