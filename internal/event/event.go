// Package event defines lock events, their logbook entries and the stopped set.
package event

import (
	"fmt"
	"sort"
	"time"

	"github.com/xolan/locktime/internal/session"
)

// KeyLayout renders an event key. It matches the ISO form produced by
// JavaScript's Date.toISOString(), which is what both persisted schemas use.
const KeyLayout = "2006-01-02T15:04:05.000Z"

// Duration is the stored length of a completed event.
type Duration struct {
	Days    int
	Hours   int
	Minutes int
}

// String formats the duration as "1d 2h 3m".
func (d Duration) String() string {
	return fmt.Sprintf("%dd %dh %dm", d.Days, d.Hours, d.Minutes)
}

// TotalMinutes returns the duration in whole minutes.
func (d Duration) TotalMinutes() int {
	return d.Days*24*60 + d.Hours*60 + d.Minutes
}

// ComputeDuration returns end - start floored to whole minutes.
func ComputeDuration(start, end time.Time) Duration {
	b := session.Split(end.Sub(start))
	return Duration{Days: b.Days, Hours: b.Hours, Minutes: b.Minutes}
}

// Event is one lock interval. EndDate is nil while the session is running.
type Event struct {
	ID        int64
	StartDate time.Time
	EndDate   *time.Time
	Duration  Duration
	Logbook   []Entry
}

// Key returns the normalized ISO start timestamp identifying the event.
func (e Event) Key() string {
	return Key(e.StartDate)
}

// Completed reports whether the event has been stopped.
func (e Event) Completed() bool {
	return e.EndDate != nil
}

// Key normalizes t to whole seconds and formats it with KeyLayout.
func Key(t time.Time) string {
	return session.Normalize(t).Format(KeyLayout)
}

// ParseKey parses a key (or any RFC 3339 timestamp) back into a time.
func ParseKey(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event key %q: %w", s, err)
	}
	return t.UTC(), nil
}

// FindByKey returns the index of the event with the given key, or -1.
func FindByKey(events []Event, key string) int {
	for i, e := range events {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

// FindByID returns the index of the event with the given id, or -1.
func FindByID(events []Event, id int64) int {
	for i, e := range events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// NewestFirst returns the positions of events ordered by start date, newest
// first. The slice itself is left untouched so positions stay valid.
func NewestFirst(events []Event) []int {
	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return events[order[a]].StartDate.After(events[order[b]].StartDate)
	})
	return order
}

// KeySet is the set of keys of stopped sessions.
type KeySet map[string]struct{}

// Add inserts a key.
func (s KeySet) Add(key string) {
	s[key] = struct{}{}
}

// Has reports whether key is present.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in ascending order.
func (s KeySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
