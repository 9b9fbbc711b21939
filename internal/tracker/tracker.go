// Package tracker holds the per-user lock state and every lifecycle operation
// on it. Operations are pure functions of the state and the supplied instant;
// persistence is left to the storage adapters.
package tracker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/session"
)

// Tracker errors
var (
	ErrSessionActive  = errors.New("a session is already active")
	ErrNoSession      = errors.New("no session is active")
	ErrAlreadyStopped = errors.New("this session has been stopped and cannot be restarted")
	ErrStartInFuture  = errors.New("start time is in the future")
	ErrEmptyReason    = errors.New("unlock reason cannot be empty")
	ErrEventNotFound  = errors.New("event not found")
)

// Unlock reasons are recorded in the active event's logbook under this title.
const (
	UnlockTitle      = "Unlock Reason"
	unlockNotePrefix = "Device unlocked for: "
)

// UnlockReason returns the reason recorded by Pause, or false when e is not
// an unlock entry.
func UnlockReason(e event.Entry) (string, bool) {
	if e.Title != UnlockTitle {
		return "", false
	}
	return strings.TrimPrefix(e.Note, unlockNotePrefix), true
}

// ActiveRef refers to the in-progress event in Resolve.
const ActiveRef = "active"

// State is everything persisted for one user.
// Active is non-nil exactly when Session is non-nil.
type State struct {
	Session     *session.Session
	Active      *event.Event
	Events      []event.Event
	Stopped     event.KeySet
	LastUpdated time.Time
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Events:  []event.Event{},
		Stopped: event.KeySet{},
	}
}

// IsActive reports whether a session is running or paused.
func (s *State) IsActive() bool {
	return s.Session != nil
}

// Start begins a new session at the given instant.
func (s *State) Start(at, now time.Time) (*event.Event, error) {
	if s.Session != nil {
		return nil, ErrSessionActive
	}
	start := session.Normalize(at)
	if start.After(now) {
		return nil, ErrStartInFuture
	}
	if s.stopped().Has(event.Key(start)) {
		return nil, ErrAlreadyStopped
	}

	s.Session = session.Start(start)
	s.Active = &event.Event{
		ID:        s.nextID(now),
		StartDate: start,
		Logbook:   []event.Entry{},
	}
	s.touch(now)
	return s.Active, nil
}

// Stop ends the active session and appends exactly one completed event.
// A paused session is resumed first so the pause is closed.
func (s *State) Stop(now time.Time) (event.Event, error) {
	if s.Session == nil {
		return event.Event{}, ErrNoSession
	}
	if s.Session.IsPaused {
		_ = s.Session.Resume(now)
	}

	end := session.Normalize(now)
	done := *s.Active
	done.EndDate = &end
	done.Duration = event.ComputeDuration(done.StartDate, end)
	if done.Logbook == nil {
		done.Logbook = []event.Entry{}
	}

	s.Events = append(s.Events, done)
	s.stopped().Add(done.Key())
	s.Session = nil
	s.Active = nil
	s.touch(now)
	return done, nil
}

// Pause pauses the active session and records the unlock reason.
func (s *State) Pause(reason string, now time.Time) (event.Entry, error) {
	if s.Session == nil {
		return event.Entry{}, ErrNoSession
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return event.Entry{}, ErrEmptyReason
	}
	if err := s.Session.Pause(now); err != nil {
		return event.Entry{}, err
	}
	entry, err := s.Active.AddEntry(UnlockTitle, unlockNotePrefix+reason, now)
	if err != nil {
		return event.Entry{}, err
	}
	s.touch(now)
	return entry, nil
}

// Resume continues a paused session.
func (s *State) Resume(now time.Time) error {
	if s.Session == nil {
		return ErrNoSession
	}
	if err := s.Session.Resume(now); err != nil {
		return err
	}
	s.touch(now)
	return nil
}

// Clear removes all completed events, the stopped set and every logbook
// entry, including the active event's. A running session keeps running.
func (s *State) Clear(now time.Time) {
	s.Events = []event.Event{}
	s.Stopped = event.KeySet{}
	if s.Active != nil {
		s.Active.Logbook = []event.Entry{}
	}
	s.touch(now)
}

// Resolve finds an event by reference: "active", a 1-based position in the
// newest-first listing of completed events, a numeric id, or an ISO key.
func (s *State) Resolve(ref string) (*event.Event, error) {
	ref = strings.TrimSpace(ref)
	if strings.EqualFold(ref, ActiveRef) {
		if s.Active == nil {
			return nil, ErrNoSession
		}
		return s.Active, nil
	}

	if n, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if n >= 1 && n <= int64(len(s.Events)) {
			order := event.NewestFirst(s.Events)
			return &s.Events[order[n-1]], nil
		}
		if i := event.FindByID(s.Events, n); i >= 0 {
			return &s.Events[i], nil
		}
		if s.Active != nil && s.Active.ID == n {
			return s.Active, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, ref)
	}

	t, err := event.ParseKey(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, ref)
	}
	key := event.Key(t)
	if i := event.FindByKey(s.Events, key); i >= 0 {
		return &s.Events[i], nil
	}
	if s.Active != nil && s.Active.Key() == key {
		return s.Active, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrEventNotFound, ref)
}

// AddNote appends a logbook entry to the referenced event.
func (s *State) AddNote(ref, title, note string, now time.Time) (event.Entry, error) {
	e, err := s.Resolve(ref)
	if err != nil {
		return event.Entry{}, err
	}
	entry, err := e.AddEntry(strings.TrimSpace(title), note, now)
	if err != nil {
		return event.Entry{}, err
	}
	s.touch(now)
	return entry, nil
}

// DeleteNote removes one logbook entry from the referenced event. entryRef
// is either its 1-based position in the newest-first listing or the entry id.
func (s *State) DeleteNote(ref, entryRef string, now time.Time) (event.Entry, error) {
	e, err := s.Resolve(ref)
	if err != nil {
		return event.Entry{}, err
	}
	entryRef = strings.TrimSpace(entryRef)
	var deleted event.Entry
	if pos, convErr := strconv.Atoi(entryRef); convErr == nil {
		deleted, err = e.DeleteEntryAt(pos)
		if errors.Is(err, event.ErrEntryNotFound) {
			// Browser records carry numeric ids.
			deleted, err = e.DeleteEntry(entryRef)
		}
	} else {
		deleted, err = e.DeleteEntry(entryRef)
	}
	if err != nil {
		return event.Entry{}, err
	}
	s.touch(now)
	return deleted, nil
}

// stopped returns the stopped set, allocating it for zero-value states.
func (s *State) stopped() event.KeySet {
	if s.Stopped == nil {
		s.Stopped = event.KeySet{}
	}
	return s.Stopped
}

// nextID returns a millisecond id not used by any known event.
func (s *State) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	for event.FindByID(s.Events, id) >= 0 {
		id++
	}
	return id
}

func (s *State) touch(now time.Time) {
	s.LastUpdated = now.UTC().Truncate(time.Millisecond)
}
