package event

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Logbook errors
var (
	ErrEntryNotFound = errors.New("logbook entry not found")
	ErrEmptyTitle    = errors.New("logbook title cannot be empty")
)

// Entry is a note attached to exactly one event.
type Entry struct {
	ID    string
	Title string
	Note  string
	Date  time.Time
}

// NewEntryID returns a fresh logbook entry id.
func NewEntryID() string {
	return uuid.NewString()
}

// AddEntry appends a logbook entry to the event and returns it. The date is
// kept to the millisecond, as stored.
func (e *Event) AddEntry(title, note string, at time.Time) (Entry, error) {
	if title == "" {
		return Entry{}, ErrEmptyTitle
	}
	entry := Entry{
		ID:    NewEntryID(),
		Title: title,
		Note:  note,
		Date:  at.UTC().Truncate(time.Millisecond),
	}
	e.Logbook = append(e.Logbook, entry)
	return entry, nil
}

// SortedEntries returns a copy of the logbook, newest first.
func (e Event) SortedEntries() []Entry {
	out := make([]Entry, len(e.Logbook))
	copy(out, e.Logbook)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// DeleteEntry removes the entry with the given id from this event only.
func (e *Event) DeleteEntry(id string) (Entry, error) {
	for i, entry := range e.Logbook {
		if entry.ID == id {
			e.Logbook = append(e.Logbook[:i:i], e.Logbook[i+1:]...)
			return entry, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}

// DeleteEntryAt removes the entry at the 1-based position of SortedEntries.
// The position is resolved against the current logbook at call time.
func (e *Event) DeleteEntryAt(position int) (Entry, error) {
	sorted := e.SortedEntries()
	if position < 1 || position > len(sorted) {
		return Entry{}, fmt.Errorf("%w: position %d (have %d)", ErrEntryNotFound, position, len(sorted))
	}
	return e.DeleteEntry(sorted[position-1].ID)
}
