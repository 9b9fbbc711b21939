package tracker

import (
	"fmt"
	"time"

	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/session"
)

// Status is a snapshot of the active session at one instant.
type Status struct {
	Active       bool
	Paused       bool
	StartTime    time.Time
	PausedSince  *time.Time
	Elapsed      time.Duration
	PausedTotal  time.Duration
	Breakdown    session.Breakdown
	Key          string
	EventID      int64
	LogbookCount int
}

// Status computes the current session snapshot.
func (s *State) Status(now time.Time) Status {
	if s.Session == nil {
		return Status{}
	}
	elapsed := s.Session.Elapsed(now)
	st := Status{
		Active:      true,
		Paused:      s.Session.IsPaused,
		StartTime:   s.Session.StartTime,
		PausedSince: s.Session.PauseStartTime,
		Elapsed:     elapsed,
		PausedTotal: s.Session.TotalPausedTime,
		Breakdown:   session.Split(elapsed),
		Key:         event.Key(s.Session.StartTime),
	}
	if s.Active != nil {
		st.EventID = s.Active.ID
		st.LogbookCount = len(s.Active.Logbook)
	}
	return st
}

// Validate checks the state invariants and returns every violation found.
func (s *State) Validate() []error {
	var problems []error

	if (s.Session == nil) != (s.Active == nil) {
		problems = append(problems, fmt.Errorf("active event and session disagree (session=%v, event=%v)", s.Session != nil, s.Active != nil))
	}
	if s.Session != nil && !s.Session.Valid() {
		problems = append(problems, fmt.Errorf("pause state inconsistent: paused=%v without matching pause start", s.Session.IsPaused))
	}
	if s.Session != nil && s.Active != nil && s.Active.Key() != event.Key(s.Session.StartTime) {
		problems = append(problems, fmt.Errorf("active event %s does not match session start %s", s.Active.Key(), event.Key(s.Session.StartTime)))
	}
	if s.Session != nil && s.Stopped.Has(event.Key(s.Session.StartTime)) {
		problems = append(problems, fmt.Errorf("active session %s is in the stopped set", event.Key(s.Session.StartTime)))
	}

	seen := map[string]bool{}
	for _, e := range s.Events {
		key := e.Key()
		if seen[key] {
			problems = append(problems, fmt.Errorf("duplicate event %s", key))
		}
		seen[key] = true
		if e.EndDate == nil {
			problems = append(problems, fmt.Errorf("event %s in history has no end date", key))
		} else if e.EndDate.Before(e.StartDate) {
			problems = append(problems, fmt.Errorf("event %s ends before it starts", key))
		}
		if !s.Stopped.Has(key) {
			problems = append(problems, fmt.Errorf("event %s missing from stopped set", key))
		}
	}

	return problems
}
