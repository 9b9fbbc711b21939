// Package session implements the lock session clock: one start instant,
// optional pause intervals and the elapsed time derived from them.
package session

import (
	"errors"
	"time"
)

// Session clock errors
var (
	ErrAlreadyPaused = errors.New("session is already paused")
	ErrNotPaused     = errors.New("session is not paused")
)

// Session is the state of one active lock session.
// Invariant: IsPaused implies PauseStartTime != nil.
type Session struct {
	StartTime       time.Time
	IsPaused        bool
	PauseStartTime  *time.Time
	TotalPausedTime time.Duration
}

// Normalize truncates t to whole seconds in UTC. Session start and end
// instants are always stored normalized so that keys derived from them are
// stable across reloads.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// Start creates a running session beginning at the given instant.
func Start(at time.Time) *Session {
	return &Session{StartTime: Normalize(at)}
}

// Pause marks the session as paused at now, to the millisecond.
func (s *Session) Pause(now time.Time) error {
	if s.IsPaused {
		return ErrAlreadyPaused
	}
	p := now.UTC().Truncate(time.Millisecond)
	s.IsPaused = true
	s.PauseStartTime = &p
	return nil
}

// Resume ends the current pause and accumulates its length.
func (s *Session) Resume(now time.Time) error {
	if !s.IsPaused {
		return ErrNotPaused
	}
	if s.PauseStartTime != nil {
		if d := now.Sub(*s.PauseStartTime).Truncate(time.Millisecond); d > 0 {
			s.TotalPausedTime += d
		}
	}
	s.IsPaused = false
	s.PauseStartTime = nil
	return nil
}

// Elapsed returns the unpaused time since start, never negative.
func (s *Session) Elapsed(now time.Time) time.Duration {
	elapsed := now.Sub(s.StartTime) - s.TotalPausedTime
	if s.IsPaused && s.PauseStartTime != nil {
		elapsed -= now.Sub(*s.PauseStartTime)
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Valid reports whether the pause invariant holds.
func (s *Session) Valid() bool {
	if s.IsPaused {
		return s.PauseStartTime != nil
	}
	return s.PauseStartTime == nil
}

// Breakdown is a duration split into whole days, hours, minutes and seconds.
type Breakdown struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Split floors d into its components. Negative durations yield zero.
func Split(d time.Duration) Breakdown {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return Breakdown{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}
