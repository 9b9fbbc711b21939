// Package stats aggregates completed sessions and their unlock reasons.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/tracker"
)

// Statistics summarizes a set of completed events.
type Statistics struct {
	Sessions       int
	TotalMinutes   int
	LongestMinutes int
	// AverageMinutes is the mean session length.
	AverageMinutes float64
	Unlocks        int
	LogbookEntries int
	// DaysCovered counts the distinct start days.
	DaysCovered int
}

// ReasonBreakdown counts how often one unlock reason was given.
type ReasonBreakdown struct {
	Reason string
	Count  int
}

// Calculate computes statistics over events. Events without an end are
// skipped.
func Calculate(events []event.Event, loc *time.Location) Statistics {
	var st Statistics
	if loc == nil {
		loc = time.Local
	}
	days := make(map[string]bool)

	for _, e := range events {
		if !e.Completed() {
			continue
		}
		minutes := e.Duration.TotalMinutes()
		st.Sessions++
		st.TotalMinutes += minutes
		st.LongestMinutes = max(st.LongestMinutes, minutes)
		st.LogbookEntries += len(e.Logbook)
		for _, entry := range e.Logbook {
			if _, ok := tracker.UnlockReason(entry); ok {
				st.Unlocks++
			}
		}
		days[e.StartDate.In(loc).Format("2006-01-02")] = true
	}

	st.DaysCovered = len(days)
	if st.Sessions > 0 {
		st.AverageMinutes = float64(st.TotalMinutes) / float64(st.Sessions)
	}
	return st
}

// Reasons groups unlock reasons case-insensitively, most frequent first.
// Ties are ordered by reason.
func Reasons(events []event.Event) []ReasonBreakdown {
	counts := make(map[string]*ReasonBreakdown)
	for _, e := range events {
		for _, entry := range e.Logbook {
			reason, ok := tracker.UnlockReason(entry)
			if !ok {
				continue
			}
			reason = strings.TrimSpace(reason)
			if reason == "" {
				reason = "(no reason)"
			}
			k := strings.ToLower(reason)
			if counts[k] == nil {
				counts[k] = &ReasonBreakdown{Reason: reason}
			}
			counts[k].Count++
		}
	}

	breakdowns := make([]ReasonBreakdown, 0, len(counts))
	for _, b := range counts {
		breakdowns = append(breakdowns, *b)
	}
	sort.Slice(breakdowns, func(i, j int) bool {
		if breakdowns[i].Count != breakdowns[j].Count {
			return breakdowns[i].Count > breakdowns[j].Count
		}
		return breakdowns[i].Reason < breakdowns[j].Reason
	})
	return breakdowns
}
