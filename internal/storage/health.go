package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xolan/locktime/internal/tracker"
)

// Health describes the stored state of one user.
type Health struct {
	User           string
	Location       string
	Exists         bool
	Events         int
	LogbookEntries int
	Active         bool
	Paused         bool
	// OrphanEntries counts desktop logbook entries whose event is gone.
	OrphanEntries int
	// DanglingEvents counts unfinished web events that are not the active one.
	DanglingEvents int
	Backups        []BackupInfo
	// Problems lists decoding errors and state invariant violations.
	Problems []error
}

// Healthy reports whether no problems were found.
func (h Health) Healthy() bool {
	return len(h.Problems) == 0 && h.OrphanEntries == 0 && h.DanglingEvents == 0
}

// CheckHealth loads the user's state from store and validates it. A corrupt
// state is reported as a problem, not returned as an error.
func CheckHealth(ctx context.Context, store StateStore, user string) (Health, error) {
	h := Health{User: user, Location: store.Describe(user)}
	if err := CheckUser(user); err != nil {
		return h, err
	}

	switch s := store.(type) {
	case *DesktopStore:
		return s.health(h)
	case *WebStore:
		return s.health(ctx, h)
	}

	state, err := store.Load(ctx, user)
	if err != nil {
		if errors.Is(err, ErrCorruptState) {
			h.Problems = append(h.Problems, err)
			return h, nil
		}
		return h, err
	}
	h.Exists = state.IsActive() || len(state.Events) > 0
	fillHealth(&h, state)
	return h, nil
}

func (d *DesktopStore) health(h Health) (Health, error) {
	path := d.Path(h.User)
	backups, err := ListBackups(path)
	if err != nil {
		return h, err
	}
	h.Backups = backups

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return h, err
	}
	h.Exists = true

	state, report, err := decodeDesktop(data)
	if err != nil {
		h.Problems = append(h.Problems, err)
		return h, nil
	}
	h.OrphanEntries = report.OrphanEntries
	fillHealth(&h, state)
	return h, nil
}

func (w *WebStore) health(ctx context.Context, h Health) (Health, error) {
	state, report, err := w.load(ctx, h.User)
	if err != nil {
		if errors.Is(err, ErrCorruptState) {
			h.Exists = true
			h.Problems = append(h.Problems, err)
			return h, nil
		}
		return h, err
	}
	h.Exists = report.Exists
	h.DanglingEvents = report.DanglingEvents
	fillHealth(&h, state)
	return h, nil
}

func fillHealth(h *Health, state *tracker.State) {
	h.Events = len(state.Events)
	for _, e := range state.Events {
		h.LogbookEntries += len(e.Logbook)
	}
	if state.Active != nil {
		h.LogbookEntries += len(state.Active.Logbook)
	}
	h.Active = state.IsActive()
	h.Paused = state.Session != nil && state.Session.IsPaused
	for _, p := range state.Validate() {
		h.Problems = append(h.Problems, fmt.Errorf("invariant: %w", p))
	}
}
