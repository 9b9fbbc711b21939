// Package storage persists tracker state. Two schemas are supported: the
// desktop schema (one JSON file per user) and the web schema (namespaced
// keys in a key-value store). Both load into the same tracker.State.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/tracker"
)

// Storage errors
var (
	ErrCorruptState = errors.New("stored state is corrupt")
	ErrInvalidUser  = errors.New("invalid username")
)

// StateStore loads and saves the whole tracker state of one user.
type StateStore interface {
	// Load returns the user's state. A user with nothing stored gets an
	// empty state, not an error.
	Load(ctx context.Context, user string) (*tracker.State, error)
	Save(ctx context.Context, user string, state *tracker.State) error
	// Describe names where the user's state lives, for messages.
	Describe(user string) string
	// Users lists the users that have state in this store.
	Users(ctx context.Context) ([]string, error)
}

// CheckUser rejects usernames that cannot be used as a path element or key suffix.
func CheckUser(user string) error {
	if strings.TrimSpace(user) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUser)
	}
	if user == "." || user == ".." || strings.ContainsAny(user, `/\`) || strings.ContainsRune(user, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidUser, user)
	}
	return nil
}

// formatTime renders t like JavaScript's toISOString.
func formatTime(t time.Time) string {
	return t.UTC().Format(event.KeyLayout)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := event.ParseKey(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrCorruptState, field, err)
	}
	return t, nil
}

func parseOptionalTime(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseTime(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
