package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/logging"
	"github.com/xolan/locktime/internal/stats"
	"github.com/xolan/locktime/internal/storage"
	"github.com/xolan/locktime/internal/timeutil"
	"github.com/xolan/locktime/internal/tracker"
)

// TrackerService runs tracker operations against a state store. Every
// mutation loads the user's state, applies the operation and saves the
// whole state back.
type TrackerService struct {
	store  storage.StateStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTrackerService creates a new TrackerService
func NewTrackerService(store storage.StateStore, logger *slog.Logger, now func() time.Time) *TrackerService {
	if logger == nil {
		logger = logging.Discard()
	}
	if now == nil {
		now = time.Now
	}
	return &TrackerService{store: store, logger: logger, now: now}
}

// Now returns the service clock's current time.
func (s *TrackerService) Now() time.Time {
	return s.now()
}

// Location describes where the user's state is stored.
func (s *TrackerService) Location(user string) string {
	return s.store.Describe(user)
}

// State loads the user's current state.
func (s *TrackerService) State(ctx context.Context, user string) (*tracker.State, error) {
	state, err := s.store.Load(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return state, nil
}

// update loads the state, applies fn and saves the result. Nothing is saved
// when fn fails.
func (s *TrackerService) update(ctx context.Context, user, op string, fn func(state *tracker.State, now time.Time) error) error {
	state, err := s.State(ctx, user)
	if err != nil {
		return err
	}
	if err := fn(state, s.now()); err != nil {
		s.logger.Debug("operation rejected",
			slog.String("op", op),
			slog.String("user", user),
			slog.String("error", err.Error()))
		return err
	}
	if err := s.store.Save(ctx, user, state); err != nil {
		s.logger.Error("failed to save state",
			slog.String("op", op),
			slog.String("user", user),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save state: %w", err)
	}
	s.logger.Info(op,
		slog.String("user", user),
		slog.Int("events", len(state.Events)),
		slog.Bool("active", state.IsActive()))
	return nil
}

// Start begins a session at the given instant. A zero instant means now.
func (s *TrackerService) Start(ctx context.Context, user string, at time.Time) (event.Event, error) {
	var started event.Event
	err := s.update(ctx, user, "session started", func(state *tracker.State, now time.Time) error {
		if at.IsZero() {
			at = now
		}
		e, err := state.Start(at, now)
		if err != nil {
			return err
		}
		started = *e
		return nil
	})
	return started, err
}

// Stop ends the active session and returns the completed event.
func (s *TrackerService) Stop(ctx context.Context, user string) (event.Event, error) {
	var done event.Event
	err := s.update(ctx, user, "session stopped", func(state *tracker.State, now time.Time) error {
		var err error
		done, err = state.Stop(now)
		return err
	})
	return done, err
}

// Pause pauses the active session and records the unlock reason.
func (s *TrackerService) Pause(ctx context.Context, user, reason string) (event.Entry, error) {
	var entry event.Entry
	err := s.update(ctx, user, "session paused", func(state *tracker.State, now time.Time) error {
		var err error
		entry, err = state.Pause(reason, now)
		return err
	})
	return entry, err
}

// Resume continues a paused session.
func (s *TrackerService) Resume(ctx context.Context, user string) error {
	return s.update(ctx, user, "session resumed", func(state *tracker.State, now time.Time) error {
		return state.Resume(now)
	})
}

// Status returns a snapshot of the user's session.
func (s *TrackerService) Status(ctx context.Context, user string) (tracker.Status, error) {
	state, err := s.State(ctx, user)
	if err != nil {
		return tracker.Status{}, err
	}
	return state.Status(s.now()), nil
}

// Events lists completed events newest first, keeping only those that
// started within [start, end]. A zero end means unbounded.
func (s *TrackerService) Events(ctx context.Context, user string, start, end time.Time) (EventList, error) {
	state, err := s.State(ctx, user)
	if err != nil {
		return EventList{}, err
	}
	return listEvents(state, start, end), nil
}

func listEvents(state *tracker.State, start, end time.Time) EventList {
	list := EventList{
		Events: []IndexedEvent{},
		Active: state.Active,
		Start:  start,
		End:    end,
		Total:  len(state.Events),
	}
	for i, idx := range event.NewestFirst(state.Events) {
		e := state.Events[idx]
		if !end.IsZero() && !timeutil.InRange(e.StartDate, start, end) {
			continue
		}
		list.Events = append(list.Events, IndexedEvent{Index: i + 1, Event: e})
		list.TotalMinutes += e.Duration.TotalMinutes()
	}
	return list
}

// Stats lists events like Events and aggregates them. Days are counted in
// loc.
func (s *TrackerService) Stats(ctx context.Context, user string, start, end time.Time, loc *time.Location) (StatsResult, error) {
	list, err := s.Events(ctx, user, start, end)
	if err != nil {
		return StatsResult{}, err
	}
	events := make([]event.Event, len(list.Events))
	for i, ie := range list.Events {
		events[i] = ie.Event
	}
	return StatsResult{
		List:       list,
		Statistics: stats.Calculate(events, loc),
		Reasons:    stats.Reasons(events),
	}, nil
}

// Clear removes every completed event, the stopped set and all logbook
// entries. A running session keeps running.
func (s *TrackerService) Clear(ctx context.Context, user string) (ClearResult, error) {
	var res ClearResult
	err := s.update(ctx, user, "events cleared", func(state *tracker.State, now time.Time) error {
		res.Events = len(state.Events)
		for _, e := range state.Events {
			res.LogbookEntries += len(e.Logbook)
		}
		if state.Active != nil {
			res.LogbookEntries += len(state.Active.Logbook)
		}
		state.Clear(now)
		return nil
	})
	return res, err
}

// Logbook returns the referenced event with its logbook.
func (s *TrackerService) Logbook(ctx context.Context, user, ref string) (event.Event, error) {
	state, err := s.State(ctx, user)
	if err != nil {
		return event.Event{}, err
	}
	e, err := state.Resolve(ref)
	if err != nil {
		return event.Event{}, err
	}
	return *e, nil
}

// AddNote appends a logbook entry to the referenced event.
func (s *TrackerService) AddNote(ctx context.Context, user, ref, title, note string) (event.Entry, error) {
	var entry event.Entry
	err := s.update(ctx, user, "logbook entry added", func(state *tracker.State, now time.Time) error {
		var err error
		entry, err = state.AddNote(ref, title, note, now)
		return err
	})
	return entry, err
}

// DeleteNote removes one logbook entry of the referenced event. entryRef
// is an entry id or a 1-based position in the newest-first listing.
func (s *TrackerService) DeleteNote(ctx context.Context, user, ref, entryRef string) (event.Entry, error) {
	var entry event.Entry
	err := s.update(ctx, user, "logbook entry deleted", func(state *tracker.State, now time.Time) error {
		var err error
		entry, err = state.DeleteNote(ref, entryRef, now)
		return err
	})
	return entry, err
}
