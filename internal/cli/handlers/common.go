// Package handlers implements the CLI commands on top of the services.
// Each handler writes to the deps streams and calls deps.Exit(1) on failure.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xolan/locktime/internal/account"
	"github.com/xolan/locktime/internal/cli"
	"github.com/xolan/locktime/internal/event"
	"github.com/xolan/locktime/internal/service"
	"github.com/xolan/locktime/internal/session"
	"github.com/xolan/locktime/internal/storage"
	"github.com/xolan/locktime/internal/tracker"
)

// knownError maps a sentinel error to a message and a hint.
type knownError struct {
	target  error
	message string
	hint    string
}

var knownErrors = []knownError{
	{tracker.ErrSessionActive, "A session is already active", "Stop it first with 'locktime stop'"},
	{tracker.ErrNoSession, "No session is active", "Start one with 'locktime start'"},
	{tracker.ErrAlreadyStopped, "A session starting at this time was already stopped", "Choose another start time with --at"},
	{tracker.ErrStartInFuture, "Start time is in the future", "Use a time no later than now, e.g. --at '2h ago'"},
	{tracker.ErrEmptyReason, "Unlock reason cannot be empty", "Usage: locktime pause <reason>"},
	{tracker.ErrEventNotFound, "Event not found", "List events with 'locktime events' and use the number in brackets, 'active', or the start timestamp"},
	{event.ErrEntryNotFound, "Logbook entry not found", "List entries with 'locktime log list <event>'"},
	{event.ErrEmptyTitle, "Logbook title cannot be empty", "Usage: locktime log add <event> <title> [--note text]"},
	{session.ErrAlreadyPaused, "Session is already paused", "Resume it with 'locktime resume'"},
	{session.ErrNotPaused, "Session is not paused", "Pause it with 'locktime pause <reason>'"},
	{storage.ErrCorruptState, "Stored state could not be read", "Run 'locktime validate' to inspect it, or 'locktime restore' to roll back to a backup"},
	{storage.ErrInvalidUser, "Invalid username", "Usernames may not be empty or contain path separators"},
	{storage.ErrTargetNotEmpty, "Target backend already has data for this user", "Pass --overwrite to replace it"},
	{storage.ErrBackupNotFound, "Backup not found", "List backups with 'locktime restore --list'"},
	{service.ErrBackupsNotSupported, "Backups are only kept by the file backend", "Set backend = \"file\" in the config file to use backups"},
	{service.ErrSameBackend, "Source and target backend are the same", "Use --from file --to kv or --from kv --to file"},
	{service.ErrUnknownBackend, "Unknown storage backend", "Valid backends: file, kv"},
	{account.ErrUserExists, "Username already exists", "Log in with 'locktime login <username>'"},
	{account.ErrInvalidCredentials, "Invalid username or password", ""},
	{account.ErrNotLoggedIn, "Not logged in", "Log in with 'locktime login <username>' or register with 'locktime register <username>'"},
	{account.ErrEmptyUsername, "Username cannot be empty", ""},
	{account.ErrInvalidUsername, "Invalid username", "Usernames may not contain path separators"},
	{account.ErrEmptyPassword, "Password cannot be empty", ""},
	{account.ErrCustomDeviceRequired, "A custom device name is required", "Pass --custom-device with --device custom"},
	{cli.ErrPasswordMismatch, "Passwords do not match", ""},
}

// fail reports err on stderr and exits with status 1.
func fail(deps *cli.Deps, err error) {
	for _, k := range knownErrors {
		if errors.Is(err, k.target) {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %s\n", k.message)
			if err.Error() != k.target.Error() {
				_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			}
			if k.hint != "" {
				_, _ = fmt.Fprintf(deps.Stderr, "Hint: %s\n", k.hint)
			}
			deps.Exit(1)
			return
		}
	}
	_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
	deps.Exit(1)
}

// failWith reports a message with details and an optional hint.
func failWith(deps *cli.Deps, message string, err error, hint string) {
	_, _ = fmt.Fprintf(deps.Stderr, "Error: %s\n", message)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	}
	if hint != "" {
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: %s\n", hint)
	}
	deps.Exit(1)
}

// open returns the services, or reports the failure and returns false.
// The caller closes the services.
func open(deps *cli.Deps) (*service.Services, bool) {
	svc, err := deps.OpenServices()
	if err != nil {
		failWith(deps, "Failed to open locktime storage", err,
			"Check the config file and data_dir with 'locktime config'")
		return nil, false
	}
	return svc, true
}

// openUser returns the services and the logged-in user.
func openUser(ctx context.Context, deps *cli.Deps) (*service.Services, string, bool) {
	svc, ok := open(deps)
	if !ok {
		return nil, "", false
	}
	user, err := svc.Account.Current(ctx)
	if err != nil {
		_ = svc.Close()
		fail(deps, err)
		return nil, "", false
	}
	return svc, user, true
}

// location returns the configured display timezone.
func location(svc *service.Services) *time.Location {
	cfg := svc.Config.Get()
	loc, err := cfg.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

func closeServices(svc *service.Services) {
	_ = svc.Close()
}
